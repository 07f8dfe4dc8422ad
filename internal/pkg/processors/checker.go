package processors

import (
	"gallus-compiler/internal/pkg/ast"
	"gallus-compiler/internal/pkg/ast/syntax"
)

// TypeResolver answers the single question the translator asks about a
// source expression: the name of its declared type. Answers are
// best-effort; (_, false) means the name could not be recovered.
type TypeResolver interface {
	TypeNameOf(expr syntax.Expression) (ast.QualifiedIdentifier, bool)
}

// TypeTable is a TypeResolver backed by a finite map over node
// identities.
type TypeTable map[syntax.Expression]ast.QualifiedIdentifier

func (t TypeTable) TypeNameOf(expr syntax.Expression) (ast.QualifiedIdentifier, bool) {
	name, ok := t[expr]
	return name, ok
}

// Resolve walks a module once and records a type name for the
// expressions the translator queries: variable uses, property accesses,
// cast operands, annotated initializers and returned values. It chases
// declared annotations only and never infers.
func Resolve(module *syntax.Module) TypeTable {
	r := &resolver{
		table:  TypeTable{},
		fields: map[ast.QualifiedIdentifier]map[ast.Identifier]ast.QualifiedIdentifier{},
		scopes: []map[ast.Identifier]ast.QualifiedIdentifier{{}},
	}
	for _, decl := range module.Declarations {
		if alias, ok := decl.(*syntax.DAlias); ok {
			r.recordAliasFields(alias)
		}
	}
	for _, decl := range module.Declarations {
		r.declaration(decl)
	}
	return r.table
}

type resolver struct {
	table TypeTable

	// fields maps an alias name to the named types of its object fields,
	// merged over union members for discriminated aliases.
	fields map[ast.QualifiedIdentifier]map[ast.Identifier]ast.QualifiedIdentifier

	scopes   []map[ast.Identifier]ast.QualifiedIdentifier
	retNames []ast.QualifiedIdentifier
}

// namedType extracts the name of a reference type. Structural and
// primitive-literal types have no name to extract.
func namedType(t syntax.Type) (ast.QualifiedIdentifier, bool) {
	named, ok := t.(*syntax.TNamed)
	if !ok {
		return "", false
	}
	return named.Name, true
}

func (r *resolver) recordAliasFields(alias *syntax.DAlias) {
	name := ast.QualifiedIdentifier(alias.Name)
	switch typ := alias.Type.(type) {
	case *syntax.TObject:
		r.recordObjectFields(name, typ)
	case *syntax.TUnion:
		for _, item := range typ.Items {
			if object, ok := item.(*syntax.TObject); ok {
				r.recordObjectFields(name, object)
			}
		}
	}
}

func (r *resolver) recordObjectFields(alias ast.QualifiedIdentifier, object *syntax.TObject) {
	for _, field := range object.Fields {
		fieldType, ok := namedType(field.Type)
		if !ok {
			continue
		}
		if r.fields[alias] == nil {
			r.fields[alias] = map[ast.Identifier]ast.QualifiedIdentifier{}
		}
		r.fields[alias][field.Name] = fieldType
	}
}

func (r *resolver) push() {
	r.scopes = append(r.scopes, map[ast.Identifier]ast.QualifiedIdentifier{})
}

func (r *resolver) pop() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *resolver) bind(name ast.Identifier, typeName ast.QualifiedIdentifier) {
	r.scopes[len(r.scopes)-1][name] = typeName
}

func (r *resolver) lookup(name ast.Identifier) (ast.QualifiedIdentifier, bool) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if typeName, ok := r.scopes[i][name]; ok {
			return typeName, true
		}
	}
	return "", false
}

func (r *resolver) declaration(decl syntax.Declaration) {
	switch d := decl.(type) {
	case *syntax.DFunc:
		r.function(d.Params, d.Return, d.Body)
	case *syntax.DVar:
		for _, declarator := range d.Declarators {
			r.declarator(declarator)
		}
	}
}

func (r *resolver) function(params []syntax.Param, ret syntax.Type, body []syntax.Statement) {
	r.push()
	for _, param := range params {
		if param.Type == nil {
			continue
		}
		if typeName, ok := namedType(param.Type); ok {
			r.bind(param.Name, typeName)
		}
	}
	retName := ast.QualifiedIdentifier("")
	if ret != nil {
		if typeName, ok := namedType(ret); ok {
			retName = typeName
		}
	}
	r.retNames = append(r.retNames, retName)
	r.statements(body)
	r.retNames = r.retNames[:len(r.retNames)-1]
	r.pop()
}

func (r *resolver) declarator(d syntax.Declarator) {
	typeName, annotated := ast.QualifiedIdentifier(""), false
	if d.Type != nil {
		typeName, annotated = namedType(d.Type)
	}
	if d.Value != nil {
		r.expression(d.Value)
		if annotated {
			r.table[d.Value] = typeName
		} else if inferred, ok := r.table[d.Value]; ok {
			typeName, annotated = inferred, true
		}
	}
	switch pattern := d.Pattern.(type) {
	case *syntax.PName:
		if annotated {
			r.bind(pattern.Name, typeName)
		}
	case *syntax.PObject:
		if !annotated {
			return
		}
		for _, field := range pattern.Fields {
			if fieldType, ok := r.fields[typeName][field.FieldName]; ok {
				r.bind(field.Binding, fieldType)
			}
		}
	}
}

func (r *resolver) statements(stmts []syntax.Statement) {
	for _, stmt := range stmts {
		r.statement(stmt)
	}
}

func (r *resolver) statement(stmt syntax.Statement) {
	switch s := stmt.(type) {
	case *syntax.SBlock:
		r.push()
		r.statements(s.Statements)
		r.pop()
	case *syntax.SVar:
		for _, declarator := range s.Declarators {
			r.declarator(declarator)
		}
	case *syntax.SReturn:
		if s.Value == nil {
			return
		}
		r.expression(s.Value)
		if n := len(r.retNames); n > 0 && r.retNames[n-1] != "" {
			r.table[s.Value] = r.retNames[n-1]
		}
	case *syntax.SSwitch:
		r.expression(s.Condition)
		for _, clause := range s.Clauses {
			if clause.Label != nil {
				r.expression(clause.Label)
			}
			r.push()
			r.statements(clause.Statements)
			r.pop()
		}
	case *syntax.SExpr:
		r.expression(s.Expression)
	case *syntax.SIf:
		r.expression(s.Condition)
		if s.Then != nil {
			r.statement(s.Then)
		}
		if s.Else != nil {
			r.statement(s.Else)
		}
	}
}

func (r *resolver) expression(expr syntax.Expression) {
	switch e := expr.(type) {
	case *syntax.EVar:
		if typeName, ok := r.lookup(ast.Identifier(e.Name)); ok {
			r.table[e] = typeName
		}
	case *syntax.EAccess:
		r.expression(e.Record)
		if recordType, ok := r.table[e.Record]; ok {
			if fieldType, ok := r.fields[recordType][e.FieldName]; ok {
				r.table[e] = fieldType
			}
		}
	case *syntax.ECast:
		r.expression(e.Expression)
		if typeName, ok := namedType(e.Type); ok {
			r.table[e.Expression] = typeName
			r.table[e] = typeName
		}
	case *syntax.ECall:
		r.expression(e.Func)
		for _, arg := range e.Args {
			r.expression(arg)
		}
	case *syntax.EFunc:
		r.function(e.Params, e.Return, e.Body)
	case *syntax.ECond:
		r.expression(e.Condition)
		r.expression(e.Then)
		r.expression(e.Else)
	case *syntax.EUnary:
		r.expression(e.Operand)
	case *syntax.EBinary:
		r.expression(e.Left)
		r.expression(e.Right)
	case *syntax.EArray:
		for _, item := range e.Items {
			r.expression(item)
		}
	case *syntax.EIndex:
		r.expression(e.Record)
		r.expression(e.Index)
	case *syntax.EObject:
		for _, field := range e.Fields {
			switch f := field.(type) {
			case *syntax.FieldValue:
				r.expression(f.Value)
			case *syntax.FieldSpread:
				r.expression(f.Value)
			case *syntax.FieldComputed:
				r.expression(f.Key)
				r.expression(f.Value)
			}
		}
	}
}
