package processors

import (
	"slices"

	"gallus-compiler/internal/pkg/ast"
	"gallus-compiler/internal/pkg/ast/gallina"
	"gallus-compiler/internal/pkg/ast/syntax"
	"gallus-compiler/internal/pkg/common"

	"github.com/hashicorp/go-set/v2"
)

// unknownTypeName names records and sums whose type could not be
// recovered from the source. The output stays well-formed and the gap is
// visible in it.
const unknownTypeName ast.QualifiedIdentifier = "unknown"

func (t *translator) compileExpression(expr syntax.Expression) gallina.Expression {
	if expr == nil {
		return gallina.Tt()
	}

	switch e := expr.(type) {
	case *syntax.EConst:
		if lit, ok := e.Value.(ast.CString); ok {
			if name, ok := t.types.TypeNameOf(e); ok {
				if enum, isEnum := t.aliases[name].(gallina.Enum); isEnum &&
					slices.Contains(enum.Names, ast.Identifier(lit.Value)) {
					return gallina.EnumInstance{Enum: name, Name: ast.Identifier(lit.Value)}
				}
			}
		}
		return gallina.Const{Value: e.Value}
	case *syntax.EVar:
		return gallina.Var{Name: e.Name}
	case *syntax.EArray:
		return gallina.Array{Items: common.Map(t.compileExpression, e.Items)}
	case *syntax.ECall:
		return gallina.Call{
			Func: t.compileExpression(e.Func),
			Args: common.Map(t.compileExpression, e.Args),
		}
	case *syntax.EFunc:
		return gallina.Function{Fun: t.compileFun(e)}
	case *syntax.ECond:
		return gallina.Conditional{
			Condition: t.compileExpression(e.Condition),
			Then:      t.compileExpression(e.Then),
			Else:      t.compileExpression(e.Else),
		}
	case *syntax.EAccess:
		return gallina.RecordProjection{
			Record: t.quietTypeName(e.Record),
			Value:  t.compileExpression(e.Record),
			Field:  e.FieldName,
		}
	case *syntax.EUnary:
		return gallina.Unary{Op: e.Op, Operand: t.compileExpression(e.Operand)}
	case *syntax.EBinary:
		return gallina.Binary{
			Op:    e.Op,
			Left:  t.compileExpression(e.Left),
			Right: t.compileExpression(e.Right),
		}
	case *syntax.EObject:
		return t.compileObject(e)
	case *syntax.ECast:
		// A cast around an object literal only carries the type name; the
		// literal already compiles to a named instance.
		if object, ok := e.Expression.(*syntax.EObject); ok {
			return t.compileObject(object)
		}
		return gallina.TypeCast{Expression: t.compileExpression(e.Expression), Typ: t.compileTyp(e.Type)}
	case *syntax.EIndex:
		return raise[gallina.Expression](t.log, e.GetLocation(), gallina.Tt(), "index access is not supported")
	}
	return raise[gallina.Expression](t.log, expr.GetLocation(), gallina.Tt(), "unsupported expression")
}

func (t *translator) compileFun(e *syntax.EFunc) gallina.Fun {
	return gallina.Fun{
		TypeParams: e.TypeParams,
		Params:     common.Map(t.compileParam, e.Params),
		Return:     t.compileOptionalTyp(e.Return),
		Body:       t.compileStatements(e.Body),
	}
}

func (t *translator) compileParam(p syntax.Param) gallina.FunParam {
	return gallina.FunParam{Name: p.Name, Typ: t.compileOptionalTyp(p.Type)}
}

// compileStatements folds a statement list into one expression, from the
// right: declarations become let bindings over the rest, a return ends
// the fold, and a list that falls off the end produces tt.
func (t *translator) compileStatements(stmts []syntax.Statement) gallina.Expression {
	if len(stmts) == 0 {
		return gallina.Tt()
	}

	head, rest := stmts[0], stmts[1:]
	switch s := head.(type) {
	case *syntax.SBlock:
		return t.compileStatements(append(slices.Clone(s.Statements), rest...))
	case *syntax.SReturn:
		if s.Value == nil {
			return gallina.Tt()
		}
		return t.compileExpression(s.Value)
	case *syntax.SVar:
		return t.compileDeclaration(s, rest)
	case *syntax.SSwitch:
		if len(rest) > 0 {
			t.log.Report(rest[0].GetLocation(), "statements after a switch do not reach the generated match and were dropped")
		}
		return t.compileSwitch(s)
	}
	t.log.Report(head.GetLocation(), "unsupported statement")
	return t.compileStatements(rest)
}

func (t *translator) compileDeclaration(s *syntax.SVar, rest []syntax.Statement) gallina.Expression {
	if len(s.Declarators) != 1 {
		t.log.Report(s.GetLocation(), "expected exactly one binding per declaration, got %d", len(s.Declarators))
		return t.compileStatements(rest)
	}

	d := s.Declarators[0]
	value := gallina.Tt()
	if d.Value == nil {
		t.log.Report(d.GetLocation(), "declaration without an initializer")
	} else {
		value = t.compileExpression(d.Value)
	}
	return gallina.Let{
		Left:  t.compileLeftValue(d.Pattern, t.declaratorRecordName(d)),
		Value: value,
		Body:  t.compileStatements(rest),
	}
}

// declaratorRecordName recovers the record name a destructuring pattern
// binds against, from the annotation first and the initializer second.
func (t *translator) declaratorRecordName(d syntax.Declarator) ast.QualifiedIdentifier {
	if d.Type != nil {
		if name, ok := namedType(d.Type); ok {
			return name
		}
	}
	if d.Value != nil {
		if name, ok := t.types.TypeNameOf(d.Value); ok {
			return name
		}
	}
	return unknownTypeName
}

func (t *translator) compileLeftValue(p syntax.Pattern, record ast.QualifiedIdentifier) gallina.LeftValue {
	switch pattern := p.(type) {
	case *syntax.PName:
		return gallina.LVar{Name: pattern.Name}
	case *syntax.PObject:
		return gallina.LRecord{Record: record, Fields: common.Map(fieldBindingOf, pattern.Fields)}
	case *syntax.PArray:
		return raise[gallina.LeftValue](t.log, p.GetLocation(), gallina.LVar{Name: "_"}, "array destructuring is not supported")
	}
	return raise[gallina.LeftValue](t.log, ast.Location{}, gallina.LVar{Name: "_"}, "unsupported binding pattern")
}

func fieldBindingOf(f syntax.PObjectField) gallina.FieldBinding {
	return gallina.FieldBinding{Name: f.FieldName, Variable: f.Binding}
}

// compileSwitch rebuilds a match from a switch. Switching over `x.type`
// destructs the sum `x` belongs to; anything else destructs an enum.
func (t *translator) compileSwitch(s *syntax.SSwitch) gallina.Expression {
	if access, ok := s.Condition.(*syntax.EAccess); ok && access.FieldName == "type" {
		return t.compileSumDestruct(s, access.Record)
	}
	return t.compileEnumDestruct(s)
}

func (t *translator) compileSumDestruct(s *syntax.SSwitch, scrutinee syntax.Expression) gallina.Expression {
	sumName := t.scrutineeTypeName(scrutinee)
	seen := set.New[ast.Identifier](len(s.Clauses))
	var arms []gallina.SumArm
	var def gallina.Expression
	for _, clause := range s.Clauses {
		body, _ := clauseBody(clause.Statements)
		if clause.Label == nil {
			if len(body) > 0 {
				def = t.compileStatements(body)
			}
			continue
		}
		name, ok := t.clauseTag(clause)
		if !ok {
			continue
		}
		if !seen.Insert(name) {
			t.log.Report(clause.GetLocation(), "duplicate case label `%s`", name)
			continue
		}
		fields, rest := armBindings(scrutinee, body)
		arms = append(arms, gallina.SumArm{
			Name:   name,
			Fields: fields,
			Body:   t.compileStatements(rest),
		})
	}
	return gallina.SumDestruct{
		Sum:     sumName,
		Value:   t.compileExpression(scrutinee),
		Arms:    arms,
		Default: def,
	}
}

// armBindings recovers constructor field bindings from a clause that
// starts by destructuring the scrutinee itself. Any other first
// statement leaves the whole body alone.
func armBindings(scrutinee syntax.Expression, body []syntax.Statement) ([]gallina.FieldBinding, []syntax.Statement) {
	scrutineeVar, ok := scrutinee.(*syntax.EVar)
	if !ok || len(body) == 0 {
		return nil, body
	}
	decl, ok := body[0].(*syntax.SVar)
	if !ok || len(decl.Declarators) != 1 {
		return nil, body
	}
	d := decl.Declarators[0]
	initializer, ok := d.Value.(*syntax.EVar)
	if !ok || initializer.Name != scrutineeVar.Name {
		return nil, body
	}
	pattern, ok := d.Pattern.(*syntax.PObject)
	if !ok {
		return nil, body
	}
	return common.Map(fieldBindingOf, pattern.Fields), body[1:]
}

func (t *translator) compileEnumDestruct(s *syntax.SSwitch) gallina.Expression {
	enumName := t.scrutineeTypeName(s.Condition)
	seen := set.New[ast.Identifier](len(s.Clauses))
	var arms []gallina.EnumArm
	var acc []ast.Identifier
	var def gallina.Expression
	for _, clause := range s.Clauses {
		body, hadBreak := clauseBody(clause.Statements)
		if clause.Label == nil {
			def = t.compileStatements(body)
			continue
		}
		label, ok := t.clauseTag(clause)
		if !ok {
			continue
		}
		if !seen.Insert(label) {
			t.log.Report(clause.GetLocation(), "duplicate case label `%s`", label)
			continue
		}
		if len(body) == 0 && !hadBreak {
			// Fallthrough: the label joins the next non-empty arm.
			acc = append(acc, label)
			continue
		}
		arms = append(arms, gallina.EnumArm{
			Names: append(slices.Clone(acc), label),
			Body:  t.compileStatements(body),
		})
		acc = nil
	}
	if len(acc) > 0 {
		arms = append(arms, gallina.EnumArm{Names: acc, Body: gallina.Tt()})
	}
	return gallina.EnumDestruct{
		Enum:    enumName,
		Value:   t.compileExpression(s.Condition),
		Arms:    arms,
		Default: def,
	}
}

// clauseBody flattens blocks at the head of a clause and strips one
// trailing break. hadBreak separates a deliberately empty clause from a
// fallthrough one.
func clauseBody(stmts []syntax.Statement) (body []syntax.Statement, hadBreak bool) {
	for len(stmts) > 0 {
		block, ok := stmts[0].(*syntax.SBlock)
		if !ok {
			break
		}
		stmts = append(slices.Clone(block.Statements), stmts[1:]...)
	}
	if n := len(stmts); n > 0 {
		if _, ok := stmts[n-1].(*syntax.SBreak); ok {
			return stmts[:n-1], true
		}
	}
	return stmts, false
}

func (t *translator) clauseTag(clause syntax.SwitchClause) (ast.Identifier, bool) {
	if lit, ok := clause.Label.(*syntax.EConst); ok {
		if s, ok := lit.Value.(ast.CString); ok {
			return ast.Identifier(s.Value), true
		}
	}
	t.log.Report(clause.GetLocation(), "a case label must be a string literal")
	return "", false
}

// compileObject classifies an object literal by its members: a literal
// `type` field makes a sum instance, a leading spread makes a chain of
// record updates, plain fields make a record instance.
func (t *translator) compileObject(object *syntax.EObject) gallina.Expression {
	var values []*syntax.FieldValue
	var spreads []*syntax.FieldSpread
	var discriminants []*syntax.FieldValue
	for _, field := range object.Fields {
		switch f := field.(type) {
		case *syntax.FieldValue:
			if f.Name == "type" && isStringConst(f.Value) {
				discriminants = append(discriminants, f)
			} else {
				values = append(values, f)
			}
		case *syntax.FieldSpread:
			spreads = append(spreads, f)
		case *syntax.FieldComputed:
			t.log.Report(f.GetLocation(), "computed property names are not supported")
		}
	}

	if len(discriminants) > 1 {
		return raise[gallina.Expression](t.log, object.GetLocation(), gallina.Tt(), "an object literal with more than one `type` tag is ambiguous")
	}
	if len(spreads) > 1 {
		return raise[gallina.Expression](t.log, object.GetLocation(), gallina.Tt(), "an object literal with more than one spread is ambiguous")
	}
	if len(discriminants) == 1 {
		if len(spreads) > 0 {
			return raise[gallina.Expression](t.log, object.GetLocation(), gallina.Tt(), "an object literal mixing a `type` tag with a spread is ambiguous")
		}
		tag := discriminants[0].Value.(*syntax.EConst).Value.(ast.CString)
		return gallina.SumInstance{
			Sum:         t.quietTypeName(object),
			Constructor: ast.Identifier(tag.Value),
			Fields:      common.Map(t.fieldValueOf, values),
		}
	}
	if len(spreads) == 1 {
		if _, leading := object.Fields[0].(*syntax.FieldSpread); !leading {
			return raise[gallina.Expression](t.log, object.GetLocation(), gallina.Tt(), "a spread must be the first member of an object literal")
		}
		record, ok := t.types.TypeNameOf(object)
		if !ok {
			record, ok = t.types.TypeNameOf(spreads[0].Value)
		}
		if !ok {
			record = unknownTypeName
		}
		result := t.compileExpression(spreads[0].Value)
		for _, f := range values {
			result = gallina.RecordUpdate{
				Record:   record,
				Value:    result,
				Field:    f.Name,
				NewValue: t.compileExpression(f.Value),
			}
		}
		return result
	}
	if len(values) == 0 {
		return gallina.Tt()
	}
	return gallina.RecordInstance{
		Record: t.quietTypeName(object),
		Fields: common.Map(t.fieldValueOf, values),
	}
}

func (t *translator) fieldValueOf(f *syntax.FieldValue) gallina.FieldValue {
	return gallina.FieldValue{Name: f.Name, Value: t.compileExpression(f.Value)}
}

func isStringConst(expr syntax.Expression) bool {
	lit, ok := expr.(*syntax.EConst)
	if !ok {
		return false
	}
	_, ok = lit.Value.(ast.CString)
	return ok
}

// scrutineeTypeName resolves the type of a match scrutinee and reports
// when the name cannot be recovered.
func (t *translator) scrutineeTypeName(expr syntax.Expression) ast.QualifiedIdentifier {
	if name, ok := t.types.TypeNameOf(expr); ok {
		return name
	}
	t.log.Report(expr.GetLocation(), "cannot resolve the scrutinee type, naming it `%s`", unknownTypeName)
	return unknownTypeName
}

// quietTypeName resolves a type name for qualification without
// reporting; a projection or instance stays readable either way.
func (t *translator) quietTypeName(expr syntax.Expression) ast.QualifiedIdentifier {
	if name, ok := t.types.TypeNameOf(expr); ok {
		return name
	}
	return unknownTypeName
}
