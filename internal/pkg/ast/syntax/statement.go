package syntax

import (
	"gallus-compiler/internal/pkg/ast"
)

type Statement interface {
	_statement()
	GetLocation() ast.Location
}

type SBlock struct {
	ast.Location
	Statements []Statement
}

func (*SBlock) _statement() {}

type SReturn struct {
	ast.Location
	Value Expression
}

func (*SReturn) _statement() {}

type Declarator struct {
	ast.Location
	Pattern Pattern
	Type    Type
	Value   Expression
}

type SVar struct {
	ast.Location
	Const       bool
	Declarators []Declarator
}

func (*SVar) _statement() {}

// SwitchClause of a switch statement; a nil Label is the default clause.
type SwitchClause struct {
	ast.Location
	Label      Expression
	Statements []Statement
}

type SSwitch struct {
	ast.Location
	Condition Expression
	Clauses   []SwitchClause
}

func (*SSwitch) _statement() {}

type SExpr struct {
	ast.Location
	Expression Expression
}

func (*SExpr) _statement() {}

type SIf struct {
	ast.Location
	Condition Expression
	Then      Statement
	Else      Statement
}

func (*SIf) _statement() {}

type SBreak struct {
	ast.Location
}

func (*SBreak) _statement() {}
