package processors

import (
	"reflect"
	"testing"

	"gallus-compiler/internal/pkg/ast"
	"gallus-compiler/internal/pkg/ast/gallina"
	"gallus-compiler/internal/pkg/ast/syntax"
	"gallus-compiler/internal/pkg/common"
)

func newTestTranslator(types TypeResolver) *translator {
	if types == nil {
		types = TypeTable{}
	}
	return &translator{
		types:   types,
		log:     &common.Diagnostics{},
		aliases: map[ast.QualifiedIdentifier]gallina.TypDefinition{},
	}
}

func TestCompilePrimitiveTypes(t *testing.T) {
	tests := []struct {
		name ast.QualifiedIdentifier
		want gallina.Typ
	}{
		{name: "boolean", want: gallina.TVar{Name: "bool"}},
		{name: "number", want: gallina.TVar{Name: "Z"}},
		{name: "string", want: gallina.TVar{Name: "string"}},
		{name: "void", want: gallina.TVar{Name: "unit"}},
		{name: "null", want: gallina.TVar{Name: "unit"}},
		{name: "undefined", want: gallina.TVar{Name: "unit"}},
		{name: "never", want: gallina.TVar{Name: "Empty_set"}},
		{name: "Custom", want: gallina.TVar{Name: "Custom"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.name), func(t *testing.T) {
			tr := newTestTranslator(nil)
			got, ok := tr.compileIfPlainTyp(&syntax.TNamed{Name: tt.name})
			if !ok {
				t.Fatalf("compileIfPlainTyp(%s) not plain", tt.name)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("compileIfPlainTyp(%s) = %v, want %v", tt.name, got, tt.want)
			}
			if !tr.log.Empty() {
				t.Errorf("unexpected diagnostics: %v", tr.log.List())
			}
		})
	}
}

func TestCompileAnyAndUnknownStayImplicit(t *testing.T) {
	for _, name := range []ast.QualifiedIdentifier{"any", "unknown"} {
		t.Run(string(name), func(t *testing.T) {
			tr := newTestTranslator(nil)
			got, ok := tr.compileIfPlainTyp(&syntax.TNamed{Name: name})
			if !ok {
				t.Fatalf("compileIfPlainTyp(%s) not plain", name)
			}
			if _, implicit := got.(gallina.TImplicit); !implicit {
				t.Errorf("compileIfPlainTyp(%s) = %v, want implicit", name, got)
			}
			if len(tr.log.List()) != 1 {
				t.Errorf("want one diagnostic, got %v", tr.log.List())
			}
		})
	}
}

func TestCompileNilTypeIsImplicit(t *testing.T) {
	tr := newTestTranslator(nil)
	got, ok := tr.compileIfPlainTyp(nil)
	if !ok {
		t.Fatalf("nil type must be plain")
	}
	if _, implicit := got.(gallina.TImplicit); !implicit {
		t.Errorf("nil type = %v, want implicit", got)
	}
	if !tr.log.Empty() {
		t.Errorf("unexpected diagnostics: %v", tr.log.List())
	}
}

func TestCompileArrayType(t *testing.T) {
	tr := newTestTranslator(nil)
	got, ok := tr.compileIfPlainTyp(&syntax.TArray{
		Element: &syntax.TArray{Element: &syntax.TNamed{Name: "number"}},
	})
	if !ok {
		t.Fatalf("array type must be plain")
	}
	want := gallina.TVar{Name: "list", Params: []gallina.Typ{
		gallina.TVar{Name: "list", Params: []gallina.Typ{gallina.TVar{Name: "Z"}}},
	}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestCompileFunctionType(t *testing.T) {
	tr := newTestTranslator(nil)
	got, ok := tr.compileIfPlainTyp(&syntax.TFunc{
		TypeParams: []ast.Identifier{"T"},
		Params: []syntax.Param{
			{Name: "a", Type: &syntax.TNamed{Name: "number"}},
			{Name: "b", Type: &syntax.TNamed{Name: "string"}},
		},
		Return: &syntax.TNamed{Name: "boolean"},
	})
	if !ok {
		t.Fatalf("function type must be plain")
	}
	want := gallina.TFunc{
		TypeParams: []ast.Identifier{"T"},
		Params:     []gallina.Typ{gallina.TVar{Name: "Z"}, gallina.TVar{Name: "string"}},
		Return:     gallina.TVar{Name: "bool"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestCompileTupleType(t *testing.T) {
	tests := []struct {
		name  string
		items []syntax.Type
		want  gallina.Typ
	}{
		{
			name:  "pair stays a tuple",
			items: []syntax.Type{&syntax.TNamed{Name: "number"}, &syntax.TNamed{Name: "string"}},
			want:  gallina.TTuple{Items: []gallina.Typ{gallina.TVar{Name: "Z"}, gallina.TVar{Name: "string"}}},
		},
		{
			name:  "singleton collapses to the element",
			items: []syntax.Type{&syntax.TNamed{Name: "number"}},
			want:  gallina.TVar{Name: "Z"},
		},
		{
			name:  "empty collapses to unit",
			items: nil,
			want:  gallina.TVar{Name: "unit"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newTestTranslator(nil)
			got, ok := tr.compileIfPlainTyp(&syntax.TTuple{Items: tt.items})
			if !ok {
				t.Fatalf("tuple type must be plain")
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassificationShapesAreNotPlain(t *testing.T) {
	tests := []struct {
		name string
		typ  syntax.Type
	}{
		{
			name: "object with fields",
			typ: &syntax.TObject{Fields: []syntax.ObjectField{
				{Name: "a", Type: &syntax.TNamed{Name: "number"}},
			}},
		},
		{
			name: "union",
			typ: &syntax.TUnion{Items: []syntax.Type{
				&syntax.TStringLit{Value: "a"}, &syntax.TStringLit{Value: "b"},
			}},
		},
		{
			name: "string literal",
			typ:  &syntax.TStringLit{Value: "a"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newTestTranslator(nil)
			if _, ok := tr.compileIfPlainTyp(tt.typ); ok {
				t.Fatalf("%s must escape to the classifier", tt.name)
			}
			if !tr.log.Empty() {
				t.Errorf("escaping is not an error, got %v", tr.log.List())
			}
		})
	}
}

func TestEmptyObjectTypeIsUnit(t *testing.T) {
	tr := newTestTranslator(nil)
	got, ok := tr.compileIfPlainTyp(&syntax.TObject{})
	if !ok {
		t.Fatalf("empty object type must be plain")
	}
	if !reflect.DeepEqual(got, gallina.Unit()) {
		t.Errorf("got %v, want unit", got)
	}
}

func TestCompileTypReportsAliasOnlyShapes(t *testing.T) {
	tests := []struct {
		name string
		typ  syntax.Type
	}{
		{
			name: "object",
			typ: &syntax.TObject{Fields: []syntax.ObjectField{
				{Name: "a", Type: &syntax.TNamed{Name: "number"}},
			}},
		},
		{
			name: "union",
			typ: &syntax.TUnion{Items: []syntax.Type{
				&syntax.TStringLit{Value: "a"}, &syntax.TStringLit{Value: "b"},
			}},
		},
		{
			name: "string literal",
			typ:  &syntax.TStringLit{Value: "a"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newTestTranslator(nil)
			got := tr.compileTyp(tt.typ)
			if !reflect.DeepEqual(got, gallina.Unit()) {
				t.Errorf("got %v, want unit", got)
			}
			if len(tr.log.List()) != 1 {
				t.Errorf("want one diagnostic, got %v", tr.log.List())
			}
		})
	}
}

func TestTypeofAndThisDegradeToUnit(t *testing.T) {
	tests := []struct {
		name string
		typ  syntax.Type
	}{
		{name: "typeof", typ: &syntax.TTypeOf{Name: "window"}},
		{name: "this", typ: &syntax.TThis{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newTestTranslator(nil)
			got, ok := tr.compileIfPlainTyp(tt.typ)
			if !ok {
				t.Fatalf("%s must stay plain", tt.name)
			}
			if !reflect.DeepEqual(got, gallina.Unit()) {
				t.Errorf("got %v, want unit", got)
			}
			if len(tr.log.List()) != 1 {
				t.Errorf("want one diagnostic, got %v", tr.log.List())
			}
		})
	}
}

func TestGenericNamedType(t *testing.T) {
	tr := newTestTranslator(nil)
	got, ok := tr.compileIfPlainTyp(&syntax.TNamed{
		Name: "Result",
		Args: []syntax.Type{&syntax.TNamed{Name: "number"}, &syntax.TNamed{Name: "string"}},
	})
	if !ok {
		t.Fatalf("generic named type must be plain")
	}
	want := gallina.TVar{Name: "Result", Params: []gallina.Typ{
		gallina.TVar{Name: "Z"}, gallina.TVar{Name: "string"},
	}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
