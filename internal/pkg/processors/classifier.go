package processors

import (
	"gallus-compiler/internal/pkg/ast"
	"gallus-compiler/internal/pkg/ast/gallina"
	"gallus-compiler/internal/pkg/ast/syntax"
	"gallus-compiler/internal/pkg/common"

	"github.com/hashicorp/go-set/v2"
)

// classifyAlias decides which kind of definition a type alias body
// becomes: a Synonym for plain types, a Record or a one-constructor Sum
// for object types, an Enum for string literals, and a Sum or an Enum
// for unions depending on the shape of their members.
func (t *translator) classifyAlias(node syntax.Type) gallina.TypDefinition {
	if typ, ok := t.compileIfPlainTyp(node); ok {
		return gallina.Synonym{Typ: typ}
	}

	switch typ := node.(type) {
	case *syntax.TObject:
		if ctor, ok := t.constructorOf(typ); ok {
			return gallina.Sum{Constructors: []gallina.Constructor{ctor}}
		}
		return gallina.Record{Fields: t.fieldsOf(typ)}
	case *syntax.TStringLit:
		return gallina.Enum{Names: []ast.Identifier{ast.Identifier(typ.Value)}}
	case *syntax.TUnion:
		return t.classifyUnion(typ)
	}
	return raise[gallina.TypDefinition](t.log, node.GetLocation(), gallina.Synonym{Typ: gallina.Unit()}, "cannot classify this type")
}

func (t *translator) classifyUnion(union *syntax.TUnion) gallina.TypDefinition {
	if len(union.Items) == 1 {
		return t.classifyAlias(union.Items[0])
	}

	switch union.Items[0].(type) {
	case *syntax.TObject:
		seen := set.New[ast.Identifier](len(union.Items))
		var constructors []gallina.Constructor
		for _, item := range union.Items {
			object, ok := item.(*syntax.TObject)
			if !ok {
				return raise[gallina.TypDefinition](t.log, item.GetLocation(), gallina.Synonym{Typ: gallina.Unit()}, "a union that mixes object and non-object members cannot be classified")
			}
			ctor, ok := t.constructorOf(object)
			if !ok {
				return raise[gallina.TypDefinition](t.log, item.GetLocation(), gallina.Synonym{Typ: gallina.Unit()}, "every member of an object union needs a literal `type` tag")
			}
			if !seen.Insert(ctor.Name) {
				t.log.Report(object.GetLocation(), "duplicate constructor `%s` in a union", ctor.Name)
				continue
			}
			constructors = append(constructors, ctor)
		}
		return gallina.Sum{Constructors: constructors}
	case *syntax.TStringLit:
		seen := set.New[ast.Identifier](len(union.Items))
		var names []ast.Identifier
		for _, item := range union.Items {
			lit, ok := item.(*syntax.TStringLit)
			if !ok {
				return raise[gallina.TypDefinition](t.log, item.GetLocation(), gallina.Synonym{Typ: gallina.Unit()}, "a union that mixes string literal and non-literal members cannot be classified")
			}
			name := ast.Identifier(lit.Value)
			if !seen.Insert(name) {
				t.log.Report(lit.GetLocation(), "duplicate name `%s` in a union", name)
				continue
			}
			names = append(names, name)
		}
		return gallina.Enum{Names: names}
	}
	return raise[gallina.TypDefinition](t.log, union.GetLocation(), gallina.Synonym{Typ: gallina.Unit()}, "a union can only be classified when its members are all object types or all string literals")
}

// constructorOf reads an object type as a sum constructor. The tag is a
// field named `type` with a string literal type; its remaining fields
// become the constructor payload.
func (t *translator) constructorOf(object *syntax.TObject) (gallina.Constructor, bool) {
	for i, field := range object.Fields {
		if field.Name != "type" {
			continue
		}
		lit, ok := field.Type.(*syntax.TStringLit)
		if !ok {
			return gallina.Constructor{}, false
		}
		rest := make([]syntax.ObjectField, 0, len(object.Fields)-1)
		rest = append(rest, object.Fields[:i]...)
		rest = append(rest, object.Fields[i+1:]...)
		return gallina.Constructor{
			Name:   ast.Identifier(lit.Value),
			Fields: common.Map(t.fieldOf, rest),
		}, true
	}
	return gallina.Constructor{}, false
}

func (t *translator) fieldsOf(object *syntax.TObject) []gallina.Field {
	return common.Map(t.fieldOf, object.Fields)
}

func (t *translator) fieldOf(field syntax.ObjectField) gallina.Field {
	return gallina.Field{Name: field.Name, Typ: t.compileTyp(field.Type)}
}
