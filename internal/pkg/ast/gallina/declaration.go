package gallina

import (
	"gallus-compiler/internal/pkg/ast"
)

// Declaration is one top-level entry of a translated file, in source order.
type Declaration interface {
	_declaration()
}

type Definition struct {
	Name       ast.Identifier
	TypeParams []ast.Identifier
	Params     []FunParam
	Return     Typ
	Body       Expression
}

func (Definition) _declaration() {}

type TypeDefinition struct {
	Name       ast.Identifier
	Definition TypDefinition
}

func (TypeDefinition) _declaration() {}
