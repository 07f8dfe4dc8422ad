package processors

import (
	"testing"

	"gallus-compiler/internal/pkg/ast"
	"gallus-compiler/internal/pkg/ast/gallina"
	"gallus-compiler/internal/pkg/doc"
)

func render(needsParens bool, e gallina.Expression) string {
	return doc.Render(printExpression(needsParens, e), 80, 2)
}

func TestPrintConst(t *testing.T) {
	tests := []struct {
		value ast.ConstValue
		want  string
	}{
		{ast.CBool{Value: true}, "true"},
		{ast.CBool{Value: false}, "false"},
		{ast.CInt{Value: 42}, "42"},
		{ast.CInt{Value: -7}, "-7"},
		{ast.CFloat{Value: 3.14}, "3.14"},
		{ast.CString{Value: "hi"}, `"hi"`},
		{ast.CString{Value: `say "hi"`}, `"say ""hi"""`},
		{ast.CUnit{}, "tt"},
	}
	for _, tt := range tests {
		got := render(false, gallina.Const{Value: tt.value})
		if got != tt.want {
			t.Errorf("printConst(%v) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestExpressionParens(t *testing.T) {
	tests := []struct {
		name        string
		needsParens bool
		expression  gallina.Expression
		want        string
	}{
		{
			name:        "inner binary keeps its parens, root drops them",
			needsParens: false,
			expression: gallina.Binary{
				Op:    "+",
				Left:  gallina.Binary{Op: "*", Left: gallina.Var{Name: "a"}, Right: gallina.Var{Name: "b"}},
				Right: gallina.Const{Value: ast.CInt{Value: 3}},
			},
			want: "(a * b) + 3",
		},
		{
			name:        "a binary wraps when asked",
			needsParens: true,
			expression:  gallina.Binary{Op: "+", Left: gallina.Var{Name: "a"}, Right: gallina.Var{Name: "b"}},
			want:        "(a + b)",
		},
		{
			name:        "variables never wrap",
			needsParens: true,
			expression:  gallina.Var{Name: "x"},
			want:        "x",
		},
		{
			name:        "enum instances never wrap",
			needsParens: true,
			expression:  gallina.EnumInstance{Enum: "Status", Name: "aa"},
			want:        "Status.aa",
		},
		{
			name:        "nullary sum instances never wrap",
			needsParens: true,
			expression:  gallina.SumInstance{Sum: "Status", Constructor: "Loading"},
			want:        "Status.Loading",
		},
		{
			name:        "sum instances with fields wrap",
			needsParens: true,
			expression: gallina.SumInstance{
				Sum:         "Status",
				Constructor: "Error",
				Fields:      []gallina.FieldValue{{Name: "message", Value: gallina.Var{Name: "m"}}},
			},
			want: "(Status.Error {| Status.Error.message := m |})",
		},
		{
			name:        "projections are already delimited",
			needsParens: true,
			expression:  gallina.RecordProjection{Record: "Point", Value: gallina.Var{Name: "p"}, Field: "x"},
			want:        "p.(Point.x)",
		},
		{
			name:        "record instances never wrap",
			needsParens: true,
			expression: gallina.RecordInstance{
				Record: "Point",
				Fields: []gallina.FieldValue{{Name: "x", Value: gallina.Const{Value: ast.CInt{Value: 1}}}},
			},
			want: "{| Point.x := 1 |}",
		},
		{
			name:        "a call without arguments is its function",
			needsParens: true,
			expression:  gallina.Call{Func: gallina.Var{Name: "f"}},
			want:        "f",
		},
		{
			name:        "call arguments wrap themselves",
			needsParens: false,
			expression: gallina.Call{
				Func: gallina.Var{Name: "f"},
				Args: []gallina.Expression{gallina.Call{Func: gallina.Var{Name: "g"}, Args: []gallina.Expression{gallina.Var{Name: "x"}}}},
			},
			want: "f (g x)",
		},
		{
			name:        "a call wraps when asked",
			needsParens: true,
			expression:  gallina.Call{Func: gallina.Var{Name: "f"}, Args: []gallina.Expression{gallina.Var{Name: "x"}}},
			want:        "(f x)",
		},
		{
			name:        "unary operands wrap",
			needsParens: false,
			expression: gallina.Binary{
				Op:    "-",
				Left:  gallina.Const{Value: ast.CInt{Value: 1}},
				Right: gallina.Unary{Op: "-", Operand: gallina.Var{Name: "x"}},
			},
			want: "1 - (-x)",
		},
		{
			name:        "a conditional wraps when asked",
			needsParens: true,
			expression: gallina.Conditional{
				Condition: gallina.Var{Name: "c"},
				Then:      gallina.Var{Name: "a"},
				Else:      gallina.Var{Name: "b"},
			},
			want: "(if c then a else b)",
		},
		{
			name:        "a cast wraps when asked",
			needsParens: true,
			expression:  gallina.TypeCast{Expression: gallina.Var{Name: "x"}, Typ: gallina.TVar{Name: "Status"}},
			want:        "(x : Status)",
		},
		{
			name:        "record updates chain with parens",
			needsParens: false,
			expression: gallina.RecordUpdate{
				Record: "Point",
				Value: gallina.RecordUpdate{
					Record:   "Point",
					Value:    gallina.Var{Name: "p"},
					Field:    "x",
					NewValue: gallina.Const{Value: ast.CInt{Value: 1}},
				},
				Field:    "y",
				NewValue: gallina.Const{Value: ast.CInt{Value: 2}},
			},
			want: "Point.set_y (Point.set_x p 1) 2",
		},
		{
			name:        "a function wraps when asked",
			needsParens: true,
			expression:  gallina.Function{Fun: gallina.Fun{Params: []gallina.FunParam{{Name: "x"}}, Body: gallina.Var{Name: "x"}}},
			want:        "(fun x => x)",
		},
		{
			name:        "an empty array",
			needsParens: false,
			expression:  gallina.Array{},
			want:        "[]",
		},
		{
			name:        "arrays never wrap",
			needsParens: true,
			expression: gallina.Array{Items: []gallina.Expression{
				gallina.Const{Value: ast.CInt{Value: 1}},
				gallina.Const{Value: ast.CInt{Value: 2}},
			}},
			want: "[1; 2]",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := render(tt.needsParens, tt.expression); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrintTypes(t *testing.T) {
	tests := []struct {
		name        string
		needsParens bool
		typ         gallina.Typ
		want        string
	}{
		{"plain name", false, gallina.TVar{Name: "Z"}, "Z"},
		{"unit", false, gallina.Unit(), "unit"},
		{"implicit", false, gallina.TImplicit{}, "_"},
		{
			"applied parameters wrap",
			false,
			gallina.TVar{Name: "list", Params: []gallina.Typ{gallina.TVar{Name: "list", Params: []gallina.Typ{gallina.TVar{Name: "Z"}}}}},
			"list (list Z)",
		},
		{"application wraps when asked", true, gallina.TVar{Name: "list", Params: []gallina.Typ{gallina.TVar{Name: "Z"}}}, "(list Z)"},
		{"tuple", false, gallina.TTuple{Items: []gallina.Typ{gallina.TVar{Name: "Z"}, gallina.TVar{Name: "string"}}}, "Z * string"},
		{"tuple wraps when asked", true, gallina.TTuple{Items: []gallina.Typ{gallina.TVar{Name: "Z"}, gallina.TVar{Name: "string"}}}, "(Z * string)"},
		{
			"function type",
			false,
			gallina.TFunc{TypeParams: []ast.Identifier{"T"}, Params: []gallina.Typ{gallina.TVar{Name: "T"}}, Return: gallina.TVar{Name: "T"}},
			"forall (T : Type), T -> T",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := doc.Render(printTyp(tt.needsParens, tt.typ), 80, 2); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrintDefinition(t *testing.T) {
	add := gallina.Definition{
		Name: "add",
		Params: []gallina.FunParam{
			{Name: "a", Typ: gallina.TVar{Name: "Z"}},
			{Name: "b", Typ: gallina.TVar{Name: "Z"}},
		},
		Return: gallina.TVar{Name: "Z"},
		Body:   gallina.Binary{Op: "+", Left: gallina.Var{Name: "a"}, Right: gallina.Var{Name: "b"}},
	}

	if got, want := Print([]gallina.Declaration{add}, 80, 2), "Definition add (a : Z) (b : Z) : Z := a + b.\n"; got != want {
		t.Errorf("wide: got %q, want %q", got, want)
	}
	if got, want := Print([]gallina.Declaration{add}, 40, 2), "Definition add (a : Z) (b : Z) : Z :=\n  a + b.\n"; got != want {
		t.Errorf("narrow: got %q, want %q", got, want)
	}
}

func TestPrintGenericDefinition(t *testing.T) {
	identity := gallina.Definition{
		Name:       "identity",
		TypeParams: []ast.Identifier{"T"},
		Params:     []gallina.FunParam{{Name: "x", Typ: gallina.TVar{Name: "T"}}},
		Return:     gallina.TVar{Name: "T"},
		Body:       gallina.Var{Name: "x"},
	}
	want := "Definition identity {T : Type} (x : T) : T := x.\n"
	if got := Print([]gallina.Declaration{identity}, 80, 2); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPrintRecordModule(t *testing.T) {
	point := gallina.TypeDefinition{
		Name: "Point",
		Definition: gallina.Record{Fields: []gallina.Field{
			{Name: "x", Typ: gallina.TVar{Name: "Z"}},
			{Name: "y", Typ: gallina.TVar{Name: "Z"}},
		}},
	}
	want := `Module Point.
  Record t := {
    x : Z;
    y : Z }.
  Definition set_x (r : t) (x : Z) : t :=
    {| x := x; y := r.(y) |}.
  Definition set_y (r : t) (y : Z) : t :=
    {| x := r.(x); y := y |}.
End Point.
Definition Point := Point.t.
`
	if got := Print([]gallina.Declaration{point}, 80, 2); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrintSumModule(t *testing.T) {
	status := gallina.TypeDefinition{
		Name: "Status",
		Definition: gallina.Sum{Constructors: []gallina.Constructor{
			{Name: "Error", Fields: []gallina.Field{{Name: "message", Typ: gallina.TVar{Name: "string"}}}},
			{Name: "Loading"},
		}},
	}
	want := `Module Status.
  Module Error.
    Record t := {
      message : string }.
    Definition set_message (r : t) (message : string) : t :=
      {| message := message |}.
  End Error.
  Inductive t :=
  | Error (_ : Error.t)
  | Loading.
End Status.
Definition Status := Status.t.
`
	if got := Print([]gallina.Declaration{status}, 80, 2); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrintEnumModule(t *testing.T) {
	status := gallina.TypeDefinition{
		Name:       "Status",
		Definition: gallina.Enum{Names: []ast.Identifier{"aa", "bb", "gg"}},
	}
	want := `Module Status.
  Inductive t :=
  | aa
  | bb
  | gg.
End Status.
Definition Status := Status.t.
`
	if got := Print([]gallina.Declaration{status}, 80, 2); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrintSumMatch(t *testing.T) {
	describe := gallina.Definition{
		Name:   "describe",
		Params: []gallina.FunParam{{Name: "status", Typ: gallina.TVar{Name: "Status"}}},
		Return: gallina.TVar{Name: "string"},
		Body: gallina.SumDestruct{
			Sum:   "Status",
			Value: gallina.Var{Name: "status"},
			Arms: []gallina.SumArm{
				{
					Name:   "Error",
					Fields: []gallina.FieldBinding{{Name: "message", Variable: "message"}},
					Body:   gallina.Var{Name: "message"},
				},
				{Name: "Loading", Body: gallina.Const{Value: ast.CString{Value: "..."}}},
			},
			Default: gallina.Const{Value: ast.CString{Value: ""}},
		},
	}
	want := `Definition describe (status : Status) : string :=
  match status with
  | Status.Error {| Status.Error.message := message |} => message
  | Status.Loading => "..."
  | _ => ""
  end.
`
	if got := Print([]gallina.Declaration{describe}, 80, 2); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrintEnumMatch(t *testing.T) {
	f := gallina.Definition{
		Name:   "f",
		Params: []gallina.FunParam{{Name: "s", Typ: gallina.TVar{Name: "Status"}}},
		Return: gallina.TVar{Name: "Z"},
		Body: gallina.EnumDestruct{
			Enum:  "Status",
			Value: gallina.Var{Name: "s"},
			Arms: []gallina.EnumArm{
				{Names: []ast.Identifier{"aa", "bb"}, Body: gallina.Const{Value: ast.CInt{Value: 1}}},
			},
			Default: gallina.Const{Value: ast.CInt{Value: 2}},
		},
	}
	want := `Definition f (s : Status) : Z :=
  match s with
  | Status.aa | Status.bb => 1
  | _ => 2
  end.
`
	if got := Print([]gallina.Declaration{f}, 80, 2); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrintLet(t *testing.T) {
	px := gallina.Definition{
		Name:   "px",
		Params: []gallina.FunParam{{Name: "p", Typ: gallina.TVar{Name: "Point"}}},
		Return: gallina.TVar{Name: "Z"},
		Body: gallina.Let{
			Left:  gallina.LRecord{Record: "Point", Fields: []gallina.FieldBinding{{Name: "x", Variable: "x"}}},
			Value: gallina.Var{Name: "p"},
			Body:  gallina.Var{Name: "x"},
		},
	}
	want := `Definition px (p : Point) : Z :=
  let '{| Point.x := x |} := p in
  x.
`
	if got := Print([]gallina.Declaration{px}, 80, 2); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrintArrayBreaks(t *testing.T) {
	array := gallina.Array{Items: []gallina.Expression{
		gallina.Const{Value: ast.CInt{Value: 1}},
		gallina.Const{Value: ast.CInt{Value: 2}},
		gallina.Const{Value: ast.CInt{Value: 3}},
	}}
	if got, want := doc.Render(printExpression(false, array), 80, 2), "[1; 2; 3]"; got != want {
		t.Errorf("wide: got %q, want %q", got, want)
	}
	if got, want := doc.Render(printExpression(false, array), 6, 2), "[1;\n  2;\n  3]"; got != want {
		t.Errorf("narrow: got %q, want %q", got, want)
	}
}

func TestPrintSeparatesDeclarations(t *testing.T) {
	declarations := []gallina.Declaration{
		gallina.Definition{Name: "f", Body: gallina.Const{Value: ast.CInt{Value: 1}}},
		gallina.Definition{Name: "g", Body: gallina.Const{Value: ast.CInt{Value: 2}}},
	}
	want := "Definition f := 1.\n\nDefinition g := 2.\n"
	if got := Print(declarations, 80, 2); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
