package gallina

import (
	"gallus-compiler/internal/pkg/ast"
)

// TypDefinition is the classified right-hand side of a named type alias.
type TypDefinition interface {
	_typDefinition()
}

type Field struct {
	Name ast.Identifier
	Typ  Typ
}

type Constructor struct {
	Name   ast.Identifier
	Fields []Field
}

type Enum struct {
	Names []ast.Identifier
}

func (Enum) _typDefinition() {}

type Record struct {
	Fields []Field
}

func (Record) _typDefinition() {}

type Sum struct {
	Constructors []Constructor
}

func (Sum) _typDefinition() {}

type Synonym struct {
	Typ Typ
}

func (Synonym) _typDefinition() {}
