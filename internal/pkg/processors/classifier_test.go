package processors

import (
	"reflect"
	"testing"

	"gallus-compiler/internal/pkg/ast"
	"gallus-compiler/internal/pkg/ast/gallina"
	"gallus-compiler/internal/pkg/ast/syntax"
)

func taggedObject(tag string, fields ...syntax.ObjectField) *syntax.TObject {
	all := append([]syntax.ObjectField{{Name: "type", Type: &syntax.TStringLit{Value: tag}}}, fields...)
	return &syntax.TObject{Fields: all}
}

func TestClassifyAliasVariants(t *testing.T) {
	tests := []struct {
		name string
		typ  syntax.Type
		want gallina.TypDefinition
	}{
		{
			name: "plain named type becomes a synonym",
			typ:  &syntax.TNamed{Name: "number"},
			want: gallina.Synonym{Typ: gallina.TVar{Name: "Z"}},
		},
		{
			name: "empty object becomes a unit synonym",
			typ:  &syntax.TObject{},
			want: gallina.Synonym{Typ: gallina.Unit()},
		},
		{
			name: "object without a tag becomes a record",
			typ: &syntax.TObject{Fields: []syntax.ObjectField{
				{Name: "x", Type: &syntax.TNamed{Name: "number"}},
				{Name: "y", Type: &syntax.TNamed{Name: "number"}},
			}},
			want: gallina.Record{Fields: []gallina.Field{
				{Name: "x", Typ: gallina.TVar{Name: "Z"}},
				{Name: "y", Typ: gallina.TVar{Name: "Z"}},
			}},
		},
		{
			name: "object with a literal tag becomes a one-constructor sum",
			typ:  taggedObject("Point", syntax.ObjectField{Name: "x", Type: &syntax.TNamed{Name: "number"}}),
			want: gallina.Sum{Constructors: []gallina.Constructor{
				{Name: "Point", Fields: []gallina.Field{{Name: "x", Typ: gallina.TVar{Name: "Z"}}}},
			}},
		},
		{
			name: "string literal becomes a one-name enum",
			typ:  &syntax.TStringLit{Value: "ready"},
			want: gallina.Enum{Names: []ast.Identifier{"ready"}},
		},
		{
			name: "union of tagged objects becomes a sum",
			typ: &syntax.TUnion{Items: []syntax.Type{
				taggedObject("Error", syntax.ObjectField{Name: "message", Type: &syntax.TNamed{Name: "string"}}),
				taggedObject("Loading"),
			}},
			want: gallina.Sum{Constructors: []gallina.Constructor{
				{Name: "Error", Fields: []gallina.Field{{Name: "message", Typ: gallina.TVar{Name: "string"}}}},
				{Name: "Loading", Fields: []gallina.Field{}},
			}},
		},
		{
			name: "union of string literals becomes an enum",
			typ: &syntax.TUnion{Items: []syntax.Type{
				&syntax.TStringLit{Value: "aa"},
				&syntax.TStringLit{Value: "bb"},
				&syntax.TStringLit{Value: "gg"},
			}},
			want: gallina.Enum{Names: []ast.Identifier{"aa", "bb", "gg"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newTestTranslator(nil)
			got := tr.classifyAlias(tt.typ)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("classifyAlias() = %#v, want %#v", got, tt.want)
			}
			if !tr.log.Empty() {
				t.Errorf("unexpected diagnostics: %v", tr.log.List())
			}
		})
	}
}

func TestClassifySingleMemberUnionEqualsMember(t *testing.T) {
	members := []struct {
		name string
		typ  syntax.Type
	}{
		{name: "named", typ: &syntax.TNamed{Name: "number"}},
		{name: "string literal", typ: &syntax.TStringLit{Value: "one"}},
		{name: "record object", typ: &syntax.TObject{Fields: []syntax.ObjectField{
			{Name: "a", Type: &syntax.TNamed{Name: "string"}},
		}}},
		{name: "tagged object", typ: taggedObject("Only")},
	}
	for _, m := range members {
		t.Run(m.name, func(t *testing.T) {
			direct := newTestTranslator(nil).classifyAlias(m.typ)
			wrapped := newTestTranslator(nil).classifyAlias(&syntax.TUnion{Items: []syntax.Type{m.typ}})
			if !reflect.DeepEqual(direct, wrapped) {
				t.Errorf("union of one = %#v, member alone = %#v", wrapped, direct)
			}
		})
	}
}

func TestClassifyUnionDuplicates(t *testing.T) {
	t.Run("duplicate constructors keep the first and report", func(t *testing.T) {
		tr := newTestTranslator(nil)
		got := tr.classifyAlias(&syntax.TUnion{Items: []syntax.Type{
			taggedObject("A", syntax.ObjectField{Name: "n", Type: &syntax.TNamed{Name: "number"}}),
			taggedObject("B"),
			taggedObject("A"),
		}})
		want := gallina.Sum{Constructors: []gallina.Constructor{
			{Name: "A", Fields: []gallina.Field{{Name: "n", Typ: gallina.TVar{Name: "Z"}}}},
			{Name: "B", Fields: []gallina.Field{}},
		}}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %#v, want %#v", got, want)
		}
		if len(tr.log.List()) != 1 {
			t.Errorf("want one diagnostic, got %v", tr.log.List())
		}
	})

	t.Run("duplicate enum names keep the first and report", func(t *testing.T) {
		tr := newTestTranslator(nil)
		got := tr.classifyAlias(&syntax.TUnion{Items: []syntax.Type{
			&syntax.TStringLit{Value: "on"},
			&syntax.TStringLit{Value: "off"},
			&syntax.TStringLit{Value: "on"},
		}})
		want := gallina.Enum{Names: []ast.Identifier{"on", "off"}}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %#v, want %#v", got, want)
		}
		if len(tr.log.List()) != 1 {
			t.Errorf("want one diagnostic, got %v", tr.log.List())
		}
	})
}

func TestClassifyMixedUnions(t *testing.T) {
	tests := []struct {
		name  string
		items []syntax.Type
	}{
		{
			name:  "object then string literal",
			items: []syntax.Type{taggedObject("A"), &syntax.TStringLit{Value: "b"}},
		},
		{
			name:  "string literal then object",
			items: []syntax.Type{&syntax.TStringLit{Value: "a"}, taggedObject("B")},
		},
		{
			name:  "named members",
			items: []syntax.Type{&syntax.TNamed{Name: "number"}, &syntax.TNamed{Name: "string"}},
		},
		{
			name: "object member without a tag",
			items: []syntax.Type{
				taggedObject("A"),
				&syntax.TObject{Fields: []syntax.ObjectField{{Name: "x", Type: &syntax.TNamed{Name: "number"}}}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newTestTranslator(nil)
			got := tr.classifyAlias(&syntax.TUnion{Items: tt.items})
			want := gallina.Synonym{Typ: gallina.Unit()}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("got %#v, want unit synonym", got)
			}
			if len(tr.log.List()) != 1 {
				t.Errorf("want one diagnostic, got %v", tr.log.List())
			}
		})
	}
}

func TestConstructorPayloadKeepsFieldOrder(t *testing.T) {
	tr := newTestTranslator(nil)
	got := tr.classifyAlias(&syntax.TObject{Fields: []syntax.ObjectField{
		{Name: "a", Type: &syntax.TNamed{Name: "number"}},
		{Name: "type", Type: &syntax.TStringLit{Value: "T"}},
		{Name: "b", Type: &syntax.TNamed{Name: "string"}},
	}})
	want := gallina.Sum{Constructors: []gallina.Constructor{
		{Name: "T", Fields: []gallina.Field{
			{Name: "a", Typ: gallina.TVar{Name: "Z"}},
			{Name: "b", Typ: gallina.TVar{Name: "string"}},
		}},
	}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %#v, want %#v", got, want)
	}
}

func TestObjectWithNonLiteralTypeFieldIsARecord(t *testing.T) {
	tr := newTestTranslator(nil)
	got := tr.classifyAlias(&syntax.TObject{Fields: []syntax.ObjectField{
		{Name: "type", Type: &syntax.TNamed{Name: "string"}},
	}})
	want := gallina.Record{Fields: []gallina.Field{
		{Name: "type", Typ: gallina.TVar{Name: "string"}},
	}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %#v, want %#v", got, want)
	}
}
