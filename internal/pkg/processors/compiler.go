package processors

import (
	"fmt"
	"os"
	"slices"
	"strconv"

	"gallus-compiler/internal/pkg/ast"
	"gallus-compiler/internal/pkg/ast/gallina"
	"gallus-compiler/internal/pkg/ast/syntax"
	"gallus-compiler/internal/pkg/common"
)

var Version = strconv.Itoa(int(common.CompilerVersion)/100) + "." + strconv.Itoa(int(common.CompilerVersion)%100)

// translator carries the run-scoped state of one module translation: the
// type query, the diagnostics accumulator and the classified aliases.
type translator struct {
	types   TypeResolver
	log     *common.Diagnostics
	aliases map[ast.QualifiedIdentifier]gallina.TypDefinition
}

// raise reports a diagnostic and substitutes a well-formed default, so a
// single bad node never aborts the rest of the module.
func raise[T any](log *common.Diagnostics, loc ast.Location, def T, format string, args ...any) T {
	log.Report(loc, format, args...)
	return def
}

// Translate reads a source file and translates it to declarations.
// Diagnostics never abort the translation; the declarations are always
// usable and the diagnostics describe what was approximated.
func Translate(path string) ([]gallina.Declaration, []common.Error) {
	data, err := os.ReadFile(path)
	if err != nil {
		log := &common.Diagnostics{}
		log.Err(common.NewSystemError(fmt.Errorf("failed to read module `%s`: %w", path, err)))
		return nil, log.List()
	}
	return TranslateSource(path, string(data))
}

// TranslateSource translates an in-memory module.
func TranslateSource(path string, content string) ([]gallina.Declaration, []common.Error) {
	log := &common.Diagnostics{}
	module, errors := Parse(path, content)
	log.Err(errors...)
	if module == nil {
		return nil, log.List()
	}
	declarations := translateModule(module, Resolve(module), log)
	return declarations, log.List()
}

func translateModule(module *syntax.Module, types TypeResolver, log *common.Diagnostics) []gallina.Declaration {
	t := &translator{
		types:   types,
		log:     log,
		aliases: map[ast.QualifiedIdentifier]gallina.TypDefinition{},
	}
	var result []gallina.Declaration
	for _, declaration := range module.Declarations {
		result = append(result, t.translateDeclaration(declaration)...)
	}
	return result
}

func (t *translator) translateDeclaration(declaration syntax.Declaration) []gallina.Declaration {
	switch d := declaration.(type) {
	case *syntax.DAlias:
		if len(d.TypeParams) > 0 {
			t.log.Report(d.GetLocation(), "type parameters on an alias are not supported and were ignored")
		}
		definition := t.classifyAlias(d.Type)
		t.aliases[ast.QualifiedIdentifier(d.Name)] = definition
		return []gallina.Declaration{gallina.TypeDefinition{Name: d.Name, Definition: definition}}
	case *syntax.DFunc:
		return []gallina.Declaration{gallina.Definition{
			Name:       d.Name,
			TypeParams: d.TypeParams,
			Params:     common.Map(t.compileParam, d.Params),
			Return:     t.compileOptionalTyp(d.Return),
			Body:       t.compileStatements(d.Body),
		}}
	case *syntax.DVar:
		var result []gallina.Declaration
		for _, declarator := range d.Declarators {
			named, ok := declarator.Pattern.(*syntax.PName)
			if !ok {
				t.log.Report(declarator.GetLocation(), "only a plain name can be bound at the top level")
				continue
			}
			body := gallina.Tt()
			if declarator.Value == nil {
				t.log.Report(declarator.GetLocation(), "declaration without an initializer")
			} else {
				body = t.compileExpression(declarator.Value)
			}
			result = append(result, gallina.Definition{
				Name:   named.Name,
				Return: t.compileOptionalTyp(declarator.Type),
				Body:   body,
			})
		}
		return result
	}
	t.log.Report(declaration.GetLocation(), "unsupported declaration")
	return nil
}

// CompiledFile is the result of translating one source file.
type CompiledFile struct {
	Source      string
	Output      string
	Diagnostics []common.Error
}

// CompilePackage translates every source of a loaded package, in a
// stable order.
func CompilePackage(pkg *LoadedPackage, lineWidth, indentSize int) []CompiledFile {
	sources := slices.Clone(pkg.Sources)
	slices.Sort(sources)

	result := make([]CompiledFile, 0, len(sources))
	for _, path := range sources {
		declarations, diagnostics := Translate(path)
		result = append(result, CompiledFile{
			Source:      path,
			Output:      Print(declarations, lineWidth, indentSize),
			Diagnostics: diagnostics,
		})
	}
	return result
}
