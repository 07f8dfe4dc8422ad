package processors

import (
	"gallus-compiler/internal/pkg/ast/gallina"
	"gallus-compiler/internal/pkg/ast/syntax"
	"gallus-compiler/internal/pkg/common"
)

// compileIfPlainTyp compiles a type that stands on its own. It returns
// false for the shapes that only make sense under a type alias name
// (object types, unions, string literals), which the classifier resolves.
func (t *translator) compileIfPlainTyp(node syntax.Type) (gallina.Typ, bool) {
	if node == nil {
		return gallina.TImplicit{}, true
	}

	switch typ := node.(type) {
	case *syntax.TNamed:
		return t.compileNamed(typ), true
	case *syntax.TArray:
		return gallina.TVar{Name: "list", Params: []gallina.Typ{t.compileTyp(typ.Element)}}, true
	case *syntax.TFunc:
		return gallina.TFunc{
			TypeParams: typ.TypeParams,
			Params:     common.Map(func(p syntax.Param) gallina.Typ { return t.compileTyp(p.Type) }, typ.Params),
			Return:     t.compileTyp(typ.Return),
		}, true
	case *syntax.TTuple:
		return gallina.NewTuple(common.Map(t.compileTyp, typ.Items)), true
	case *syntax.TObject:
		if len(typ.Fields) == 0 {
			return gallina.Unit(), true
		}
		return nil, false
	case *syntax.TUnion:
		return nil, false
	case *syntax.TStringLit:
		return nil, false
	case *syntax.TTypeOf:
		return raise[gallina.Typ](t.log, typ.GetLocation(), gallina.Unit(), "`typeof` types are not supported"), true
	case *syntax.TThis:
		return raise[gallina.Typ](t.log, typ.GetLocation(), gallina.Unit(), "`this` types are not supported"), true
	}
	return raise[gallina.Typ](t.log, node.GetLocation(), gallina.TImplicit{}, "unsupported type"), true
}

func (t *translator) compileNamed(typ *syntax.TNamed) gallina.Typ {
	if len(typ.Args) == 0 {
		switch typ.Name {
		case "boolean":
			return gallina.TVar{Name: "bool"}
		case "number":
			return gallina.TVar{Name: "Z"}
		case "string":
			return gallina.TVar{Name: "string"}
		case "void", "null", "undefined":
			return gallina.Unit()
		case "never":
			return gallina.TVar{Name: "Empty_set"}
		case "any", "unknown":
			return raise[gallina.Typ](t.log, typ.GetLocation(), gallina.TImplicit{}, "`%s` has no counterpart, leaving the type implicit", typ.Name)
		}
		return gallina.TVar{Name: typ.Name}
	}
	return gallina.TVar{Name: typ.Name, Params: common.Map(t.compileTyp, typ.Args)}
}

// compileTyp compiles a type in a position where only a plain type is
// legal; classification-requiring shapes degrade to unit.
func (t *translator) compileTyp(node syntax.Type) gallina.Typ {
	typ, ok := t.compileIfPlainTyp(node)
	if ok {
		return typ
	}

	switch node.(type) {
	case *syntax.TObject:
		return raise[gallina.Typ](t.log, node.GetLocation(), gallina.Unit(), "an object type is only supported as the body of a type alias")
	case *syntax.TUnion:
		return raise[gallina.Typ](t.log, node.GetLocation(), gallina.Unit(), "a union type is only supported as the body of a type alias")
	case *syntax.TStringLit:
		return raise[gallina.Typ](t.log, node.GetLocation(), gallina.Unit(), "a string literal type is only supported as the body of a type alias")
	}
	return raise[gallina.Typ](t.log, node.GetLocation(), gallina.Unit(), "this type is only supported as the body of a type alias")
}

func (t *translator) compileOptionalTyp(node syntax.Type) gallina.Typ {
	if node == nil {
		return nil
	}
	return t.compileTyp(node)
}
