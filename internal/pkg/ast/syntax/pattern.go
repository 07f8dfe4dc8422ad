package syntax

import (
	"gallus-compiler/internal/pkg/ast"
)

type Pattern interface {
	_pattern()
	GetLocation() ast.Location
}

type PName struct {
	ast.Location
	Name ast.Identifier
}

func (*PName) _pattern() {}

// PObjectField binds one field; shorthand destructuring repeats the field
// name as the binding.
type PObjectField struct {
	ast.Location
	FieldName ast.Identifier
	Binding   ast.Identifier
}

type PObject struct {
	ast.Location
	Fields []PObjectField
}

func (*PObject) _pattern() {}

type PArray struct {
	ast.Location
	Items []Pattern
}

func (*PArray) _pattern() {}
