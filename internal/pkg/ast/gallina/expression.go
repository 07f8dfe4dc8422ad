package gallina

import (
	"gallus-compiler/internal/pkg/ast"
)

type Expression interface {
	_expression()
}

type Array struct {
	Items []Expression
}

func (Array) _expression() {}

type Binary struct {
	Op          string
	Left, Right Expression
}

func (Binary) _expression() {}

type Call struct {
	Func Expression
	Args []Expression
}

func (Call) _expression() {}

type Conditional struct {
	Condition, Then, Else Expression
}

func (Conditional) _expression() {}

type Const struct {
	Value ast.ConstValue
}

func (Const) _expression() {}

// EnumArm is one match branch over enum tags; several names share one body
// when the source switch fell through.
type EnumArm struct {
	Names []ast.Identifier
	Body  Expression
}

type EnumDestruct struct {
	Enum    ast.QualifiedIdentifier
	Value   Expression
	Arms    []EnumArm
	Default Expression
}

func (EnumDestruct) _expression() {}

type EnumInstance struct {
	Enum ast.QualifiedIdentifier
	Name ast.Identifier
}

func (EnumInstance) _expression() {}

type FunParam struct {
	Name ast.Identifier
	Typ  Typ
}

type Fun struct {
	TypeParams []ast.Identifier
	Params     []FunParam
	Return     Typ
	Body       Expression
}

type Function struct {
	Fun Fun
}

func (Function) _expression() {}

type Let struct {
	Left  LeftValue
	Value Expression
	Body  Expression
}

func (Let) _expression() {}

type FieldValue struct {
	Name  ast.Identifier
	Value Expression
}

type RecordInstance struct {
	Record ast.QualifiedIdentifier
	Fields []FieldValue
}

func (RecordInstance) _expression() {}

type RecordProjection struct {
	Record ast.QualifiedIdentifier
	Value  Expression
	Field  ast.Identifier
}

func (RecordProjection) _expression() {}

// RecordUpdate replaces a single field; multi-field updates nest.
type RecordUpdate struct {
	Record   ast.QualifiedIdentifier
	Value    Expression
	Field    ast.Identifier
	NewValue Expression
}

func (RecordUpdate) _expression() {}

// FieldBinding maps a record field to the local name a match arm or
// destructuring let binds it to.
type FieldBinding struct {
	Name     ast.Identifier
	Variable ast.Identifier
}

type SumArm struct {
	Name   ast.Identifier
	Fields []FieldBinding
	Body   Expression
}

type SumDestruct struct {
	Sum     ast.QualifiedIdentifier
	Value   Expression
	Arms    []SumArm
	Default Expression
}

func (SumDestruct) _expression() {}

type SumInstance struct {
	Sum         ast.QualifiedIdentifier
	Constructor ast.Identifier
	Fields      []FieldValue
}

func (SumInstance) _expression() {}

type TypeCast struct {
	Expression Expression
	Typ        Typ
}

func (TypeCast) _expression() {}

type Unary struct {
	Op      string
	Operand Expression
}

func (Unary) _expression() {}

type Var struct {
	Name ast.QualifiedIdentifier
}

func (Var) _expression() {}

// Tt is the unit value, the default for every missing or empty expression.
func Tt() Expression {
	return Var{Name: "tt"}
}

type LeftValue interface {
	_leftValue()
}

type LVar struct {
	Name ast.Identifier
}

func (LVar) _leftValue() {}

type LRecord struct {
	Record ast.QualifiedIdentifier
	Fields []FieldBinding
}

func (LRecord) _leftValue() {}
