package gallina

import (
	"gallus-compiler/internal/pkg/ast"
)

type Typ interface {
	_typ()
}

type TFunc struct {
	TypeParams []ast.Identifier
	Params     []Typ
	Return     Typ
}

func (TFunc) _typ() {}

// TImplicit stands for a type the source elided or the compiler could not
// resolve; it renders as an inference hole.
type TImplicit struct {
}

func (TImplicit) _typ() {}

type TTuple struct {
	Items []Typ
}

func (TTuple) _typ() {}

type TVar struct {
	Name   ast.QualifiedIdentifier
	Params []Typ
}

func (TVar) _typ() {}

func Unit() Typ {
	return TVar{Name: "unit"}
}

// NewTuple keeps the tuple invariant: no tuple has fewer than two items.
func NewTuple(items []Typ) Typ {
	switch len(items) {
	case 0:
		return Unit()
	case 1:
		return items[0]
	}
	return TTuple{Items: items}
}
