package processors

import (
	"strconv"
	"strings"

	"gallus-compiler/internal/pkg/ast"
	"gallus-compiler/internal/pkg/ast/gallina"
	"gallus-compiler/internal/pkg/doc"
)

// Print renders declarations to vernacular, one blank line between
// declarations.
func Print(declarations []gallina.Declaration, lineWidth, indentSize int) string {
	docs := make([]doc.Doc, 0, len(declarations))
	for _, declaration := range declarations {
		docs = append(docs, PrintDeclaration(declaration))
	}
	separator := doc.Concat{doc.HardLine{}, doc.HardLine{}}
	return doc.Render(joinDocs(separator, docs), lineWidth, indentSize) + "\n"
}

func PrintDeclaration(declaration gallina.Declaration) doc.Doc {
	switch d := declaration.(type) {
	case gallina.Definition:
		return printDefinition(d)
	case gallina.TypeDefinition:
		return printTypeDefinition(d)
	}
	return doc.Text("")
}

func printDefinition(d gallina.Definition) doc.Doc {
	result := doc.Concat{doc.Text("Definition " + string(d.Name))}
	for _, param := range d.TypeParams {
		result = append(result, doc.Text(" {"+string(param)+" : Type}"))
	}
	for _, param := range d.Params {
		result = append(result, printDefinitionParam(param))
	}
	if d.Return != nil {
		result = append(result, doc.Text(" : "), printTyp(false, d.Return))
	}
	result = append(result,
		doc.Text(" :="),
		doc.Group{Nested: doc.Indent{Nested: doc.Concat{doc.Line{}, printExpression(false, d.Body)}}},
		doc.Text("."))
	return result
}

func printDefinitionParam(param gallina.FunParam) doc.Doc {
	if param.Typ == nil {
		return doc.Text(" " + string(param.Name))
	}
	return doc.Concat{doc.Text(" (" + string(param.Name) + " : "), printTyp(false, param.Typ), doc.Text(")")}
}

// printTypeDefinition wraps the definition in a namespace module and
// binds the bare name back to the type inside it.
func printTypeDefinition(d gallina.TypeDefinition) doc.Doc {
	name := string(d.Name)
	return doc.Concat{
		doc.Text("Module " + name + "."),
		doc.Indent{Nested: doc.Concat{doc.HardLine{}, printTypDefinition(d.Definition)}},
		doc.HardLine{},
		doc.Text("End " + name + "."),
		doc.HardLine{},
		doc.Text("Definition " + name + " := " + name + ".t."),
	}
}

func printTypDefinition(definition gallina.TypDefinition) doc.Doc {
	switch d := definition.(type) {
	case gallina.Synonym:
		return doc.Concat{doc.Text("Definition t := "), printTyp(false, d.Typ), doc.Text(".")}
	case gallina.Enum:
		result := doc.Concat{doc.Text("Inductive t :=")}
		for _, name := range d.Names {
			result = append(result, doc.HardLine{}, doc.Text("| "+string(name)))
		}
		return append(result, doc.Text("."))
	case gallina.Record:
		return printRecord(d.Fields)
	case gallina.Sum:
		return printSum(d)
	}
	return doc.Text("")
}

// printRecord prints the record and one setter per field. Setters
// rebuild the value field by field since the vernacular has no update
// syntax of its own.
func printRecord(fields []gallina.Field) doc.Doc {
	result := doc.Concat{doc.Text("Record t := {")}
	body := doc.Concat{}
	for i, field := range fields {
		line := doc.Concat{doc.HardLine{}, doc.Text(string(field.Name) + " : "), printTyp(false, field.Typ)}
		if i < len(fields)-1 {
			line = append(line, doc.Text(";"))
		}
		body = append(body, line)
	}
	result = append(result, doc.Indent{Nested: body}, doc.Text(" }."))

	for _, field := range fields {
		setter := doc.Concat{
			doc.HardLine{},
			doc.Text("Definition set_" + string(field.Name) + " (r : t) (" + string(field.Name) + " : "),
			printTyp(false, field.Typ),
			doc.Text(") : t :="),
		}
		assignments := make([]string, 0, len(fields))
		for _, other := range fields {
			if other.Name == field.Name {
				assignments = append(assignments, string(other.Name)+" := "+string(other.Name))
			} else {
				assignments = append(assignments, string(other.Name)+" := r.("+string(other.Name)+")")
			}
		}
		setter = append(setter, doc.Indent{Nested: doc.Concat{
			doc.HardLine{},
			doc.Text("{| " + strings.Join(assignments, "; ") + " |}."),
		}})
		result = append(result, setter)
	}
	return result
}

func printSum(sum gallina.Sum) doc.Doc {
	result := doc.Concat{}
	for _, ctor := range sum.Constructors {
		if len(ctor.Fields) == 0 {
			continue
		}
		name := string(ctor.Name)
		result = append(result,
			doc.Text("Module "+name+"."),
			doc.Indent{Nested: doc.Concat{doc.HardLine{}, printRecord(ctor.Fields)}},
			doc.HardLine{},
			doc.Text("End "+name+"."),
			doc.HardLine{})
	}
	result = append(result, doc.Text("Inductive t :="))
	for _, ctor := range sum.Constructors {
		if len(ctor.Fields) == 0 {
			result = append(result, doc.HardLine{}, doc.Text("| "+string(ctor.Name)))
		} else {
			result = append(result, doc.HardLine{}, doc.Text("| "+string(ctor.Name)+" (_ : "+string(ctor.Name)+".t)"))
		}
	}
	return append(result, doc.Text("."))
}

// printExpression renders one expression. needsParens asks the node to
// wrap itself; nodes that are already delimited on both sides ignore it.
func printExpression(needsParens bool, expression gallina.Expression) doc.Doc {
	switch e := expression.(type) {
	case gallina.Var:
		return doc.Text(string(e.Name))
	case gallina.Const:
		return printConst(e.Value)
	case gallina.EnumInstance:
		return doc.Text(string(e.Enum) + "." + string(e.Name))
	case gallina.Array:
		return printArray(e)
	case gallina.Unary:
		return parens(needsParens, doc.Concat{doc.Text(e.Op), printExpression(true, e.Operand)})
	case gallina.Binary:
		return parens(needsParens, doc.Concat{
			printExpression(true, e.Left),
			doc.Text(" " + e.Op + " "),
			printExpression(true, e.Right),
		})
	case gallina.Call:
		return printCall(needsParens, e)
	case gallina.Conditional:
		return parens(needsParens, doc.Group{Nested: doc.Concat{
			doc.Text("if "), printExpression(true, e.Condition),
			doc.Line{}, doc.Text("then "), printExpression(false, e.Then),
			doc.Line{}, doc.Text("else "), printExpression(false, e.Else),
		}})
	case gallina.Function:
		return parens(needsParens, printFun(e.Fun))
	case gallina.Let:
		return parens(needsParens, doc.Concat{
			doc.Text("let "), printLeftValue(e.Left), doc.Text(" := "),
			printExpression(false, e.Value), doc.Text(" in"),
			doc.HardLine{},
			printExpression(false, e.Body),
		})
	case gallina.RecordInstance:
		return printFieldValues(string(e.Record), e.Fields)
	case gallina.RecordProjection:
		return doc.Concat{
			printExpression(true, e.Value),
			doc.Text(".(" + string(e.Record) + "." + string(e.Field) + ")"),
		}
	case gallina.RecordUpdate:
		return parens(needsParens, doc.Concat{
			doc.Text(string(e.Record) + ".set_" + string(e.Field) + " "),
			printExpression(true, e.Value),
			doc.Text(" "),
			printExpression(true, e.NewValue),
		})
	case gallina.SumInstance:
		qualifier := string(e.Sum) + "." + string(e.Constructor)
		if len(e.Fields) == 0 {
			return doc.Text(qualifier)
		}
		return parens(needsParens, doc.Concat{
			doc.Text(qualifier + " "),
			printFieldValues(qualifier, e.Fields),
		})
	case gallina.SumDestruct:
		return printSumDestruct(e)
	case gallina.EnumDestruct:
		return printEnumDestruct(e)
	case gallina.TypeCast:
		return parens(needsParens, doc.Concat{
			printExpression(false, e.Expression),
			doc.Text(" : "),
			printTyp(false, e.Typ),
		})
	}
	return doc.Text("tt")
}

func printConst(value ast.ConstValue) doc.Doc {
	switch v := value.(type) {
	case ast.CBool:
		if v.Value {
			return doc.Text("true")
		}
		return doc.Text("false")
	case ast.CInt:
		return doc.Text(strconv.FormatInt(v.Value, 10))
	case ast.CFloat:
		return doc.Text(strconv.FormatFloat(v.Value, 'g', -1, 64))
	case ast.CString:
		return doc.Text(`"` + strings.ReplaceAll(v.Value, `"`, `""`) + `"`)
	case ast.CUnit:
		return doc.Text("tt")
	}
	return doc.Text("tt")
}

func printArray(e gallina.Array) doc.Doc {
	if len(e.Items) == 0 {
		return doc.Text("[]")
	}
	items := doc.Concat{}
	for i, item := range e.Items {
		if i > 0 {
			items = append(items, doc.Text(";"), doc.Line{})
		}
		items = append(items, printExpression(false, item))
	}
	return doc.Group{Nested: doc.Concat{doc.Text("["), doc.Indent{Nested: items}, doc.Text("]")}}
}

func printCall(needsParens bool, e gallina.Call) doc.Doc {
	if len(e.Args) == 0 {
		return printExpression(needsParens, e.Func)
	}
	args := doc.Concat{}
	for _, arg := range e.Args {
		args = append(args, doc.Line{}, printExpression(true, arg))
	}
	return parens(needsParens, doc.Group{Nested: doc.Concat{
		printExpression(true, e.Func),
		doc.Indent{Nested: args},
	}})
}

func printFun(fun gallina.Fun) doc.Doc {
	result := doc.Concat{doc.Text("fun")}
	for _, param := range fun.TypeParams {
		result = append(result, doc.Text(" ("+string(param)+" : Type)"))
	}
	for _, param := range fun.Params {
		result = append(result, printDefinitionParam(param))
	}
	result = append(result,
		doc.Text(" =>"),
		doc.Group{Nested: doc.Indent{Nested: doc.Concat{doc.Line{}, printExpression(false, fun.Body)}}})
	return result
}

func printLeftValue(left gallina.LeftValue) doc.Doc {
	switch l := left.(type) {
	case gallina.LVar:
		return doc.Text(string(l.Name))
	case gallina.LRecord:
		return doc.Text("'" + fieldBindingPattern(string(l.Record), l.Fields))
	}
	return doc.Text("_")
}

// fieldBindingPattern prints a record pattern; field names are
// qualified by the owning namespace, bindings are not.
func fieldBindingPattern(qualifier string, fields []gallina.FieldBinding) string {
	bindings := make([]string, 0, len(fields))
	for _, field := range fields {
		bindings = append(bindings, qualifier+"."+string(field.Name)+" := "+string(field.Variable))
	}
	return "{| " + strings.Join(bindings, "; ") + " |}"
}

func printFieldValues(qualifier string, fields []gallina.FieldValue) doc.Doc {
	if len(fields) == 0 {
		return doc.Text("{|  |}")
	}
	body := doc.Concat{}
	for i, field := range fields {
		if i > 0 {
			body = append(body, doc.Text(";"), doc.Line{})
		}
		body = append(body,
			doc.Text(qualifier+"."+string(field.Name)+" := "),
			printExpression(false, field.Value))
	}
	return doc.Group{Nested: doc.Concat{doc.Text("{| "), doc.Indent{Nested: body}, doc.Text(" |}")}}
}

func printSumDestruct(e gallina.SumDestruct) doc.Doc {
	result := doc.Concat{doc.Text("match "), printExpression(false, e.Value), doc.Text(" with")}
	for _, arm := range e.Arms {
		pattern := string(e.Sum) + "." + string(arm.Name)
		if len(arm.Fields) > 0 {
			pattern += " " + fieldBindingPattern(pattern, arm.Fields)
		}
		result = append(result, printArm(pattern, arm.Body))
	}
	if e.Default != nil {
		result = append(result, printArm("_", e.Default))
	}
	return append(result, doc.HardLine{}, doc.Text("end"))
}

func printEnumDestruct(e gallina.EnumDestruct) doc.Doc {
	result := doc.Concat{doc.Text("match "), printExpression(false, e.Value), doc.Text(" with")}
	for _, arm := range e.Arms {
		labels := make([]string, 0, len(arm.Names))
		for _, name := range arm.Names {
			labels = append(labels, string(e.Enum)+"."+string(name))
		}
		result = append(result, printArm(strings.Join(labels, " | "), arm.Body))
	}
	if e.Default != nil {
		result = append(result, printArm("_", e.Default))
	}
	return append(result, doc.HardLine{}, doc.Text("end"))
}

func printArm(pattern string, body gallina.Expression) doc.Doc {
	return doc.Concat{
		doc.HardLine{},
		doc.Text("| " + pattern + " =>"),
		doc.Group{Nested: doc.Indent{Nested: doc.Concat{doc.Line{}, printExpression(false, body)}}},
	}
}

func printTyp(needsParens bool, typ gallina.Typ) doc.Doc {
	switch t := typ.(type) {
	case gallina.TVar:
		if len(t.Params) == 0 {
			return doc.Text(string(t.Name))
		}
		result := doc.Concat{doc.Text(string(t.Name))}
		for _, param := range t.Params {
			result = append(result, doc.Text(" "), printTyp(true, param))
		}
		return parens(needsParens, result)
	case gallina.TImplicit:
		return doc.Text("_")
	case gallina.TTuple:
		items := doc.Concat{}
		for i, item := range t.Items {
			if i > 0 {
				items = append(items, doc.Text(" * "))
			}
			items = append(items, printTyp(true, item))
		}
		return parens(needsParens, items)
	case gallina.TFunc:
		result := doc.Concat{}
		for _, param := range t.TypeParams {
			result = append(result, doc.Text("forall ("+string(param)+" : Type), "))
		}
		for _, param := range t.Params {
			result = append(result, printTyp(true, param), doc.Text(" -> "))
		}
		result = append(result, printTyp(false, t.Return))
		return parens(needsParens, result)
	}
	return doc.Text("_")
}

func parens(wrap bool, inner doc.Doc) doc.Doc {
	if !wrap {
		return inner
	}
	return doc.Concat{doc.Text("("), inner, doc.Text(")")}
}

func joinDocs(separator doc.Doc, docs []doc.Doc) doc.Doc {
	result := make(doc.Concat, 0, len(docs)*2)
	for i, d := range docs {
		if i > 0 {
			result = append(result, separator)
		}
		result = append(result, d)
	}
	return result
}
