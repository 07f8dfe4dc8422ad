package syntax

import (
	"gallus-compiler/internal/pkg/ast"
)

type Declaration interface {
	_declaration()
	GetLocation() ast.Location
}

type DAlias struct {
	ast.Location
	Name       ast.Identifier
	TypeParams []ast.Identifier
	Type       Type
	Exported   bool
}

func (*DAlias) _declaration() {}

type DFunc struct {
	ast.Location
	Name       ast.Identifier
	TypeParams []ast.Identifier
	Params     []Param
	Return     Type
	Body       []Statement
	Exported   bool
}

func (*DFunc) _declaration() {}

type DVar struct {
	ast.Location
	Const       bool
	Declarators []Declarator
	Exported    bool
}

func (*DVar) _declaration() {}

type Module struct {
	ast.Location
	Path         string
	Declarations []Declaration
}
