package syntax

import (
	"gallus-compiler/internal/pkg/ast"
)

type Expression interface {
	_expression()
	GetLocation() ast.Location
}

type EConst struct {
	ast.Location
	Value ast.ConstValue
}

func (*EConst) _expression() {}

type EVar struct {
	ast.Location
	Name ast.QualifiedIdentifier
}

func (*EVar) _expression() {}

type EArray struct {
	ast.Location
	Items []Expression
}

func (*EArray) _expression() {}

type ECall struct {
	ast.Location
	Func Expression
	Args []Expression
}

func (*ECall) _expression() {}

// EFunc covers arrow functions and anonymous function expressions; an
// expression-bodied arrow is desugared by the parser into a single return
// statement.
type EFunc struct {
	ast.Location
	TypeParams []ast.Identifier
	Params     []Param
	Return     Type
	Body       []Statement
}

func (*EFunc) _expression() {}

type ECond struct {
	ast.Location
	Condition, Then, Else Expression
}

func (*ECond) _expression() {}

type EAccess struct {
	ast.Location
	Record    Expression
	FieldName ast.Identifier
}

func (*EAccess) _expression() {}

type EIndex struct {
	ast.Location
	Record Expression
	Index  Expression
}

func (*EIndex) _expression() {}

type EUnary struct {
	ast.Location
	Op      string
	Operand Expression
}

func (*EUnary) _expression() {}

type EBinary struct {
	ast.Location
	Op          string
	Left, Right Expression
}

func (*EBinary) _expression() {}

type EObjectField interface {
	_objectField()
	GetLocation() ast.Location
}

type FieldValue struct {
	ast.Location
	Name  ast.Identifier
	Value Expression
}

func (*FieldValue) _objectField() {}

type FieldSpread struct {
	ast.Location
	Value Expression
}

func (*FieldSpread) _objectField() {}

type FieldComputed struct {
	ast.Location
	Key   Expression
	Value Expression
}

func (*FieldComputed) _objectField() {}

type EObject struct {
	ast.Location
	Fields []EObjectField
}

func (*EObject) _expression() {}

type ECast struct {
	ast.Location
	Expression Expression
	Type       Type
}

func (*ECast) _expression() {}
