package syntax

import (
	"gallus-compiler/internal/pkg/ast"
)

// Nodes are always handled by pointer: the type query of the checker is
// keyed on node identity.
type Type interface {
	_type()
	GetLocation() ast.Location
}

type TNamed struct {
	ast.Location
	Name ast.QualifiedIdentifier
	Args []Type
}

func (*TNamed) _type() {}

type TArray struct {
	ast.Location
	Element Type
}

func (*TArray) _type() {}

type Param struct {
	ast.Location
	Name ast.Identifier
	Type Type
}

type TFunc struct {
	ast.Location
	TypeParams []ast.Identifier
	Params     []Param
	Return     Type
}

func (*TFunc) _type() {}

type TTuple struct {
	ast.Location
	Items []Type
}

func (*TTuple) _type() {}

type ObjectField struct {
	ast.Location
	Name ast.Identifier
	Type Type
}

type TObject struct {
	ast.Location
	Fields []ObjectField
}

func (*TObject) _type() {}

type TUnion struct {
	ast.Location
	Items []Type
}

func (*TUnion) _type() {}

type TStringLit struct {
	ast.Location
	Value string
}

func (*TStringLit) _type() {}

type TTypeOf struct {
	ast.Location
	Name ast.QualifiedIdentifier
}

func (*TTypeOf) _type() {}

type TThis struct {
	ast.Location
}

func (*TThis) _type() {}
