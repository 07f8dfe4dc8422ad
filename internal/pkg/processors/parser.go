package processors

import (
	"slices"
	"strconv"
	"strings"
	"unicode"

	"gallus-compiler/internal/pkg/ast"
	"gallus-compiler/internal/pkg/ast/syntax"
	"gallus-compiler/internal/pkg/common"
)

func Parse(filePath string, fileContent string) (*syntax.Module, []error) {
	src := &source{
		filePath: filePath,
		text:     []rune(fileContent),
	}
	return parseModule(src)
}

const (
	KwExport    = "export"
	KwImport    = "import"
	KwType      = "type"
	KwInterface = "interface"
	KwFunction  = "function"
	KwConst     = "const"
	KwLet       = "let"
	KwVar       = "var"
	KwReturn    = "return"
	KwSwitch    = "switch"
	KwCase      = "case"
	KwDefault   = "default"
	KwBreak     = "break"
	KwIf        = "if"
	KwElse      = "else"
	KwTrue      = "true"
	KwFalse     = "false"
	KwNull      = "null"
	KwUndefined = "undefined"
	KwTypeof    = "typeof"
	KwThis      = "this"
	KwAs        = "as"

	SeqComment          = "//"
	SeqCommentStart     = "/*"
	SeqCommentEnd       = "*/"
	SeqArrow            = "=>"
	SeqSpread           = "..."
	SeqBrackets         = "[]"
	SeqParenthesisOpen  = "("
	SeqParenthesisClose = ")"
	SeqBracketsOpen     = "["
	SeqBracketsClose    = "]"
	SeqBracesOpen       = "{"
	SeqBracesClose      = "}"
	SeqAngleOpen        = "<"
	SeqAngleClose       = ">"
	SeqComma            = ","
	SeqColon            = ":"
	SeqSemicolon        = ";"
	SeqEqual            = "="
	SeqBar              = "|"
	SeqDot              = "."
	SeqQuestion         = "?"

	SmbNewLine = '\n'
	SmbQuote1  = '\''
	SmbQuote2  = '"'
	SmbEscape  = '\\'
)

// - void skip*() skips sequence if it can, returns nothing, does not set error.
// - * read*() reads something, returns NULL if cannot, does not set error. eats all trailing whitespace and comments.
// - bool parse(..., *out) parses something, can set error (returns false in that case) if failed in a middle of parsing,
//      in other case returns true. sets `out` to NULL if nothing read. eats all trailing whitespace and comments.

type source struct {
	filePath string
	cursor   uint32
	text     []rune
}

func loc(src *source, start uint32) ast.Location {
	return ast.NewLocation(src.filePath, src.text, start, src.cursor)
}

func newError(src source, msg string) error {
	return common.Error{
		Location: ast.NewLocationCursor(src.filePath, src.text, src.cursor),
		Message:  msg,
	}
}

func isOk(src *source) bool {
	return src.cursor < uint32(len(src.text))
}

func isIdentChar(c rune, first *bool, qualified bool) bool {
	wasFirst := *first
	*first = false

	if unicode.IsLetter(c) || '_' == c || '$' == c {
		return true
	}
	if !wasFirst {
		if unicode.IsDigit(c) {
			return true
		}
		if qualified && '.' == c {
			*first = true
			return true
		}
	}
	return false
}

func readSequence(src *source, value string) *string {
	start := src.cursor
	for _, c := range []rune(value) {
		if !isOk(src) || src.text[src.cursor] != c {
			src.cursor = start
			return nil
		}
		src.cursor++
	}
	return &value
}

func skipWhiteSpace(src *source) {
	for isOk(src) && unicode.IsSpace(src.text[src.cursor]) {
		src.cursor++
	}
}

func skipComment(src *source) {
	if !isOk(src) {
		return
	}

	skipWhiteSpace(src)
	if nil != readSequence(src, SeqComment) {
		for isOk(src) && SmbNewLine != src.text[src.cursor] {
			src.cursor++
		}
		src.cursor++ //skip SmbNewLine
	} else if nil != readSequence(src, SeqCommentStart) {
		level := 1
		for isOk(src) {
			if nil != readSequence(src, SeqCommentStart) {
				level++
			} else if nil != readSequence(src, SeqCommentEnd) {
				level--
				if 0 == level {
					break
				}
			} else {
				src.cursor++
			}
		}
		if 0 != level {
			return
		}
	} else {
		return
	}

	skipWhiteSpace(src)
	skipComment(src)
}

func readIdentifier(src *source, qualified bool) *ast.QualifiedIdentifier {
	start := src.cursor
	first := true
	for isOk(src) && isIdentChar(src.text[src.cursor], &first, qualified) {
		src.cursor++
	}

	if start != src.cursor {
		end := src.cursor
		skipComment(src)
		result := ast.QualifiedIdentifier(src.text[start:end])
		return &result
	}

	src.cursor = start
	return nil
}

func readExact(src *source, value string) bool {
	if nil != readSequence(src, value) {
		skipComment(src)
		return true
	}
	return false
}

// readKeyword reads a word only when it is not a prefix of a longer
// identifier.
func readKeyword(src *source, keyword string) bool {
	start := src.cursor
	if nil == readSequence(src, keyword) {
		return false
	}
	if isOk(src) {
		c := src.text[src.cursor]
		if unicode.IsLetter(c) || unicode.IsDigit(c) || '_' == c || '$' == c {
			src.cursor = start
			return false
		}
	}
	skipComment(src)
	return true
}

func peekSequence(src *source, value string) bool {
	cursor := src.cursor
	ok := nil != readSequence(src, value)
	src.cursor = cursor
	return ok
}

func peekKeyword(src *source, keyword string) bool {
	cursor := src.cursor
	ok := readKeyword(src, keyword)
	src.cursor = cursor
	return ok
}

func parseInt(src *source) (*int64, error) {
	if !isOk(src) {
		return nil, nil
	}

	pos := src.cursor

	strValue, base := readIntegerPart(src, true)

	if strValue == "" {
		src.cursor = pos
		return nil, nil
	}

	value, err := strconv.ParseInt(strValue, base, 64)
	if err != nil {
		return nil, newError(*src, "failed to parse integer: "+err.Error())
	}

	skipComment(src)
	return &value, nil
}

func parseFloat(src *source) (*float64, error) {
	if !isOk(src) {
		return nil, nil
	}
	pos := src.cursor

	first, _ := readIntegerPart(src, false)
	if first == "" {
		return nil, nil
	}

	if readSequence(src, ".") != nil {
		second, base := readIntegerPart(src, false)
		if base == 0 {
			return nil, nil
		}
		first += "." + second
	}
	if readSequence(src, "e") != nil || readSequence(src, "E") != nil {
		var sign string
		if readSequence(src, "-") != nil {
			sign = "-"
		} else if readSequence(src, "+") != nil {
			sign = "+"
		}
		second, base := readIntegerPart(src, false)
		if base == 0 {
			return nil, nil
		}
		first += "e" + sign + second
	}

	if isOk(src) && (unicode.IsLetter(src.text[src.cursor]) || unicode.IsNumber(src.text[src.cursor])) {
		src.cursor = pos
		return nil, nil
	}
	skipComment(src)

	value, err := strconv.ParseFloat(first, 64)
	if err != nil {
		return nil, newError(*src, "failed to parse float: "+err.Error())
	}
	return &value, nil
}

var kNumBin = []rune{'0', '1'}
var kNumOct = []rune{'0', '1', '2', '3', '4', '5', '6', '7'}
var kNumDec = []rune{'0', '1', '2', '3', '4', '5', '6', '7', '8', '9'}
var kNumHex = []rune{
	'0', '1', '2', '3', '4', '5', '6', '7', '8', '9',
	'a', 'b', 'c', 'd', 'e', 'f', 'A', 'B', 'C', 'D', 'E', 'F'}

func readIntegerPart(src *source, allowBases bool) (string, int) {
	if !isOk(src) {
		return "", 0
	}

	base := 10
	if allowBases {
		if nil != readSequence(src, "0x") || nil != readSequence(src, "0X") {
			base = 16
		} else if nil != readSequence(src, "0b") || nil != readSequence(src, "0B") {
			base = 2
		} else if nil != readSequence(src, "0o") || nil != readSequence(src, "0O") {
			base = 8
		}
	}

	var nums []rune
	switch base {
	case 2:
		nums = kNumBin
	case 8:
		nums = kNumOct
	case 10:
		nums = kNumDec
	case 16:
		nums = kNumHex
	}

	var value []rune
	for {
		//a separator is only valid after a digit, `_1` is an identifier
		if len(value) > 0 && nil != readSequence(src, "_") {
			continue
		}
		if isOk(src) && slices.Contains(nums, src.text[src.cursor]) {
			value = append(value, src.text[src.cursor])
			src.cursor++
		} else {
			break
		}
	}

	if len(value) == 0 {
		return "", 0
	}

	return string(value), base
}

func parseNumber(src *source) (iValue *int64, fValue *float64, err error) {
	pos := src.cursor
	fv, err := parseFloat(src)
	if err != nil {
		return nil, nil, err
	}
	fvPos := src.cursor

	src.cursor = pos
	iv, err := parseInt(src)
	if err != nil {
		return nil, nil, err
	}

	if fv == nil {
		return iv, nil, nil
	}
	if iv == nil {
		src.cursor = fvPos
		return nil, fv, nil
	}

	if src.cursor != fvPos {
		src.cursor = fvPos
		return nil, fv, nil
	}

	return iv, nil, nil
}

var controlCharsReplacer = strings.NewReplacer(
	"\\0", "\u0000",
	"\\b", "\b",
	"\\f", "\f",
	"\\n", "\n",
	"\\r", "\r",
	"\\t", "\t",
	"\\v", "\v",
	"\\'", "'",
	"\\\"", "\"",
	"\\\\", "\\",
)

func parseString(src *source) (*string, error) {
	if !isOk(src) {
		return nil, nil
	}

	quote := src.text[src.cursor]
	if SmbQuote1 != quote && SmbQuote2 != quote {
		return nil, nil
	}

	start := src.cursor
	src.cursor++
	for {
		if !isOk(src) {
			return nil, newError(*src, "string is not closed before the end of file")
		}
		c := src.text[src.cursor]
		if c == quote {
			break
		}
		if SmbEscape == c {
			src.cursor += 2
			continue
		}
		if SmbNewLine == c {
			return nil, newError(*src, "string is not closed before the end of line")
		}
		src.cursor++
	}
	str := string(src.text[start+1 : src.cursor])
	src.cursor++
	skipComment(src)
	str = controlCharsReplacer.Replace(str)
	return &str, nil
}

func parseModule(src *source) (*syntax.Module, []error) {
	skipComment(src)
	module := &syntax.Module{
		Location: loc(src, 0),
		Path:     src.filePath,
	}

	var errors []error
	for isOk(src) {
		if readKeyword(src, KwImport) {
			skipImport(src)
			continue
		}
		declaration, err := parseDeclaration(src)
		if err != nil {
			errors = append(errors, err)
			if !skipToNextDeclaration(src) {
				break
			}
			continue
		}
		if declaration == nil {
			errors = append(errors, newError(*src, "failed to parse declaration"))
			if !skipToNextDeclaration(src) {
				break
			}
			continue
		}
		module.Declarations = append(module.Declarations, declaration)
	}
	return module, errors
}

// skipImport consumes the rest of an import line; imports carry no
// declarations of their own.
func skipImport(src *source) {
	for isOk(src) {
		c := src.text[src.cursor]
		src.cursor++
		if ';' == c || SmbNewLine == c {
			break
		}
	}
	skipComment(src)
}

var declarationKeywords = []string{KwExport, KwImport, KwType, KwInterface, KwFunction, KwConst, KwLet, KwVar}

func skipToNextDeclaration(src *source) bool {
	for isOk(src) {
		if SmbNewLine == src.text[src.cursor] {
			src.cursor++
			cursor := src.cursor
			skipComment(src)
			if !isOk(src) {
				return false
			}
			for _, keyword := range declarationKeywords {
				if peekKeyword(src, keyword) {
					return true
				}
			}
			src.cursor = cursor
			continue
		}
		src.cursor++
	}
	return false
}

func parseDeclaration(src *source) (syntax.Declaration, error) {
	cursor := src.cursor
	exported := readKeyword(src, KwExport)

	if readKeyword(src, KwType) {
		return parseAliasDeclaration(src, cursor, exported)
	}
	if readKeyword(src, KwInterface) {
		return parseInterfaceDeclaration(src, cursor, exported)
	}
	if readKeyword(src, KwFunction) {
		return parseFunctionDeclaration(src, cursor, exported)
	}
	constKw := readKeyword(src, KwConst)
	if constKw || readKeyword(src, KwLet) || readKeyword(src, KwVar) {
		declarators, err := parseDeclarators(src)
		if err != nil {
			return nil, err
		}
		return &syntax.DVar{
			Location:    loc(src, cursor),
			Const:       constKw,
			Declarators: declarators,
			Exported:    exported,
		}, nil
	}
	if exported {
		return nil, newError(*src, "expected a declaration after `export`")
	}
	return nil, nil
}

func parseAliasDeclaration(src *source, cursor uint32, exported bool) (syntax.Declaration, error) {
	name := readIdentifier(src, false)
	if name == nil {
		return nil, newError(*src, "expected a type alias name here")
	}
	typeParams, err := parseTypeParams(src)
	if err != nil {
		return nil, err
	}
	if !readExact(src, SeqEqual) {
		return nil, newError(*src, "expected `=` here")
	}
	typ, err := expectType(src)
	if err != nil {
		return nil, err
	}
	readExact(src, SeqSemicolon)
	return &syntax.DAlias{
		Location:   loc(src, cursor),
		Name:       ast.Identifier(*name),
		TypeParams: typeParams,
		Type:       typ,
		Exported:   exported,
	}, nil
}

// parseInterfaceDeclaration desugars an interface into an alias of its
// object shape.
func parseInterfaceDeclaration(src *source, cursor uint32, exported bool) (syntax.Declaration, error) {
	name := readIdentifier(src, false)
	if name == nil {
		return nil, newError(*src, "expected an interface name here")
	}
	typeParams, err := parseTypeParams(src)
	if err != nil {
		return nil, err
	}
	bodyCursor := src.cursor
	if !readExact(src, SeqBracesOpen) {
		return nil, newError(*src, "expected `{` here")
	}
	typ, err := parseObjectType(src, bodyCursor)
	if err != nil {
		return nil, err
	}
	return &syntax.DAlias{
		Location:   loc(src, cursor),
		Name:       ast.Identifier(*name),
		TypeParams: typeParams,
		Type:       typ,
		Exported:   exported,
	}, nil
}

func parseFunctionDeclaration(src *source, cursor uint32, exported bool) (syntax.Declaration, error) {
	name := readIdentifier(src, false)
	if name == nil {
		return nil, newError(*src, "expected a function name here")
	}
	typeParams, err := parseTypeParams(src)
	if err != nil {
		return nil, err
	}
	params, err := parseFunctionParams(src)
	if err != nil {
		return nil, err
	}
	var ret syntax.Type
	if readExact(src, SeqColon) {
		ret, err = expectType(src)
		if err != nil {
			return nil, err
		}
	}
	body, err := parseBlock(src)
	if err != nil {
		return nil, err
	}
	return &syntax.DFunc{
		Location:   loc(src, cursor),
		Name:       ast.Identifier(*name),
		TypeParams: typeParams,
		Params:     params,
		Return:     ret,
		Body:       body,
		Exported:   exported,
	}, nil
}

func parseTypeParams(src *source) ([]ast.Identifier, error) {
	if !readExact(src, SeqAngleOpen) {
		return nil, nil
	}
	var params []ast.Identifier
	for {
		name := readIdentifier(src, false)
		if name == nil {
			return nil, newError(*src, "expected a type parameter name here")
		}
		params = append(params, ast.Identifier(*name))
		if readExact(src, SeqComma) {
			continue
		}
		if readExact(src, SeqAngleClose) {
			return params, nil
		}
		return nil, newError(*src, "expected `,` or `>` here")
	}
}

func parseFunctionParams(src *source) ([]syntax.Param, error) {
	if !readExact(src, SeqParenthesisOpen) {
		return nil, newError(*src, "expected `(` here")
	}
	var params []syntax.Param
	if readExact(src, SeqParenthesisClose) {
		return params, nil
	}
	for {
		cursor := src.cursor
		name := readIdentifier(src, false)
		if name == nil {
			return nil, newError(*src, "expected a parameter name here")
		}
		param := syntax.Param{Location: loc(src, cursor), Name: ast.Identifier(*name)}
		readExact(src, SeqQuestion)
		if readExact(src, SeqColon) {
			typ, err := expectType(src)
			if err != nil {
				return nil, err
			}
			param.Type = typ
		}
		params = append(params, param)
		if readExact(src, SeqComma) {
			continue
		}
		if readExact(src, SeqParenthesisClose) {
			return params, nil
		}
		return nil, newError(*src, "expected `,` or `)` here")
	}
}

func parseBlock(src *source) ([]syntax.Statement, error) {
	if !readExact(src, SeqBracesOpen) {
		return nil, newError(*src, "expected `{` here")
	}
	var statements []syntax.Statement
	for !readExact(src, SeqBracesClose) {
		if !isOk(src) {
			return nil, newError(*src, "block is not closed before the end of file")
		}
		if readExact(src, SeqSemicolon) {
			continue
		}
		statement, err := parseStatement(src)
		if err != nil {
			return nil, err
		}
		if statement == nil {
			return nil, newError(*src, "failed to parse statement")
		}
		statements = append(statements, statement)
	}
	return statements, nil
}

func parseStatement(src *source) (syntax.Statement, error) {
	cursor := src.cursor

	if peekSequence(src, SeqBracesOpen) {
		statements, err := parseBlock(src)
		if err != nil {
			return nil, err
		}
		return &syntax.SBlock{Location: loc(src, cursor), Statements: statements}, nil
	}

	if readKeyword(src, KwReturn) {
		var value syntax.Expression
		if !peekSequence(src, SeqSemicolon) && !peekSequence(src, SeqBracesClose) &&
			!peekKeyword(src, KwCase) && !peekKeyword(src, KwDefault) {
			var err error
			value, err = expectExpression(src)
			if err != nil {
				return nil, err
			}
		}
		readExact(src, SeqSemicolon)
		return &syntax.SReturn{Location: loc(src, cursor), Value: value}, nil
	}

	constKw := readKeyword(src, KwConst)
	if constKw || readKeyword(src, KwLet) || readKeyword(src, KwVar) {
		declarators, err := parseDeclarators(src)
		if err != nil {
			return nil, err
		}
		return &syntax.SVar{Location: loc(src, cursor), Const: constKw, Declarators: declarators}, nil
	}

	if readKeyword(src, KwSwitch) {
		return parseSwitch(src, cursor)
	}

	if readKeyword(src, KwBreak) {
		readExact(src, SeqSemicolon)
		return &syntax.SBreak{Location: loc(src, cursor)}, nil
	}

	if readKeyword(src, KwIf) {
		return parseIf(src, cursor)
	}

	expression, err := parseExpression(src)
	if err != nil {
		return nil, err
	}
	if expression == nil {
		return nil, nil
	}
	readExact(src, SeqSemicolon)
	return &syntax.SExpr{Location: loc(src, cursor), Expression: expression}, nil
}

func parseIf(src *source, cursor uint32) (syntax.Statement, error) {
	if !readExact(src, SeqParenthesisOpen) {
		return nil, newError(*src, "expected `(` here")
	}
	condition, err := expectExpression(src)
	if err != nil {
		return nil, err
	}
	if !readExact(src, SeqParenthesisClose) {
		return nil, newError(*src, "expected `)` here")
	}
	thenStmt, err := parseStatement(src)
	if err != nil {
		return nil, err
	}
	if thenStmt == nil {
		return nil, newError(*src, "expected a statement here")
	}
	var elseStmt syntax.Statement
	if readKeyword(src, KwElse) {
		elseStmt, err = parseStatement(src)
		if err != nil {
			return nil, err
		}
		if elseStmt == nil {
			return nil, newError(*src, "expected a statement here")
		}
	}
	return &syntax.SIf{Location: loc(src, cursor), Condition: condition, Then: thenStmt, Else: elseStmt}, nil
}

func parseSwitch(src *source, cursor uint32) (syntax.Statement, error) {
	if !readExact(src, SeqParenthesisOpen) {
		return nil, newError(*src, "expected `(` here")
	}
	condition, err := expectExpression(src)
	if err != nil {
		return nil, err
	}
	if !readExact(src, SeqParenthesisClose) {
		return nil, newError(*src, "expected `)` here")
	}
	if !readExact(src, SeqBracesOpen) {
		return nil, newError(*src, "expected `{` here")
	}

	var clauses []syntax.SwitchClause
	for !readExact(src, SeqBracesClose) {
		if !isOk(src) {
			return nil, newError(*src, "switch is not closed before the end of file")
		}
		clauseCursor := src.cursor
		var label syntax.Expression
		if readKeyword(src, KwCase) {
			label, err = expectExpression(src)
			if err != nil {
				return nil, err
			}
		} else if !readKeyword(src, KwDefault) {
			return nil, newError(*src, "expected `case` or `default` here")
		}
		if !readExact(src, SeqColon) {
			return nil, newError(*src, "expected `:` here")
		}
		var statements []syntax.Statement
		for !peekKeyword(src, KwCase) && !peekKeyword(src, KwDefault) && !peekSequence(src, SeqBracesClose) {
			if readExact(src, SeqSemicolon) {
				continue
			}
			statement, err := parseStatement(src)
			if err != nil {
				return nil, err
			}
			if statement == nil {
				return nil, newError(*src, "failed to parse statement")
			}
			statements = append(statements, statement)
		}
		clauses = append(clauses, syntax.SwitchClause{
			Location:   loc(src, clauseCursor),
			Label:      label,
			Statements: statements,
		})
	}
	return &syntax.SSwitch{Location: loc(src, cursor), Condition: condition, Clauses: clauses}, nil
}

func parseDeclarators(src *source) ([]syntax.Declarator, error) {
	var declarators []syntax.Declarator
	for {
		cursor := src.cursor
		pattern, err := parsePattern(src)
		if err != nil {
			return nil, err
		}
		if pattern == nil {
			return nil, newError(*src, "expected a binding here")
		}
		declarator := syntax.Declarator{Location: loc(src, cursor), Pattern: pattern}
		if readExact(src, SeqColon) {
			typ, err := expectType(src)
			if err != nil {
				return nil, err
			}
			declarator.Type = typ
		}
		if readExact(src, SeqEqual) {
			value, err := expectExpression(src)
			if err != nil {
				return nil, err
			}
			declarator.Value = value
		}
		declarators = append(declarators, declarator)
		if readExact(src, SeqComma) {
			continue
		}
		break
	}
	readExact(src, SeqSemicolon)
	return declarators, nil
}

func parsePattern(src *source) (syntax.Pattern, error) {
	cursor := src.cursor

	if name := readIdentifier(src, false); name != nil {
		return &syntax.PName{Location: loc(src, cursor), Name: ast.Identifier(*name)}, nil
	}

	if readExact(src, SeqBracesOpen) {
		var fields []syntax.PObjectField
		for !readExact(src, SeqBracesClose) {
			if !isOk(src) {
				return nil, newError(*src, "destructuring is not closed before the end of file")
			}
			if readExact(src, SeqSpread) {
				return nil, newError(*src, "rest elements are not supported")
			}
			fieldCursor := src.cursor
			fieldName := readIdentifier(src, false)
			if fieldName == nil {
				return nil, newError(*src, "expected a field name here")
			}
			binding := ast.Identifier(*fieldName)
			if readExact(src, SeqColon) {
				bound := readIdentifier(src, false)
				if bound == nil {
					return nil, newError(*src, "expected a binding name here")
				}
				binding = ast.Identifier(*bound)
			}
			fields = append(fields, syntax.PObjectField{
				Location:  loc(src, fieldCursor),
				FieldName: ast.Identifier(*fieldName),
				Binding:   binding,
			})
			readExact(src, SeqComma)
		}
		return &syntax.PObject{Location: loc(src, cursor), Fields: fields}, nil
	}

	if readExact(src, SeqBracketsOpen) {
		var items []syntax.Pattern
		for !readExact(src, SeqBracketsClose) {
			if !isOk(src) {
				return nil, newError(*src, "destructuring is not closed before the end of file")
			}
			item, err := parsePattern(src)
			if err != nil {
				return nil, err
			}
			if item == nil {
				return nil, newError(*src, "expected a binding here")
			}
			items = append(items, item)
			readExact(src, SeqComma)
		}
		return &syntax.PArray{Location: loc(src, cursor), Items: items}, nil
	}

	return nil, nil
}

func expectType(src *source) (syntax.Type, error) {
	typ, err := parseType(src)
	if err != nil {
		return nil, err
	}
	if typ == nil {
		return nil, newError(*src, "expected a type here")
	}
	return typ, nil
}

func parseType(src *source) (syntax.Type, error) {
	cursor := src.cursor
	readExact(src, SeqBar)
	item, err := parseTypePostfix(src)
	if err != nil {
		return nil, err
	}
	if item == nil {
		src.cursor = cursor
		return nil, nil
	}
	items := []syntax.Type{item}
	for readExact(src, SeqBar) {
		next, err := parseTypePostfix(src)
		if err != nil {
			return nil, err
		}
		if next == nil {
			return nil, newError(*src, "expected a union member here")
		}
		items = append(items, next)
	}
	if len(items) == 1 {
		return item, nil
	}
	return &syntax.TUnion{Location: loc(src, cursor), Items: items}, nil
}

func parseTypePostfix(src *source) (syntax.Type, error) {
	cursor := src.cursor
	typ, err := parseTypePrimary(src)
	if err != nil || typ == nil {
		return typ, err
	}
	for nil != readSequence(src, SeqBrackets) {
		skipComment(src)
		typ = &syntax.TArray{Location: loc(src, cursor), Element: typ}
	}
	return typ, nil
}

func parseTypePrimary(src *source) (syntax.Type, error) {
	cursor := src.cursor

	if typ, ok, err := parseFunctionType(src, cursor); err != nil || ok {
		return typ, err
	}

	if readExact(src, SeqParenthesisOpen) {
		typ, err := expectType(src)
		if err != nil {
			return nil, err
		}
		if !readExact(src, SeqParenthesisClose) {
			return nil, newError(*src, "expected `)` here")
		}
		return typ, nil
	}

	if readExact(src, SeqBracketsOpen) {
		var items []syntax.Type
		for !readExact(src, SeqBracketsClose) {
			if !isOk(src) {
				return nil, newError(*src, "tuple type is not closed before the end of file")
			}
			item, err := expectType(src)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
			readExact(src, SeqComma)
		}
		return &syntax.TTuple{Location: loc(src, cursor), Items: items}, nil
	}

	if readExact(src, SeqBracesOpen) {
		return parseObjectType(src, cursor)
	}

	value, err := parseString(src)
	if err != nil {
		return nil, err
	}
	if value != nil {
		return &syntax.TStringLit{Location: loc(src, cursor), Value: *value}, nil
	}

	if readKeyword(src, KwTypeof) {
		name := readIdentifier(src, true)
		if name == nil {
			return nil, newError(*src, "expected a name after `typeof`")
		}
		return &syntax.TTypeOf{Location: loc(src, cursor), Name: *name}, nil
	}

	if readKeyword(src, KwThis) {
		return &syntax.TThis{Location: loc(src, cursor)}, nil
	}

	if name := readIdentifier(src, true); name != nil {
		named := &syntax.TNamed{Location: loc(src, cursor), Name: *name}
		if readExact(src, SeqAngleOpen) {
			for {
				arg, err := expectType(src)
				if err != nil {
					return nil, err
				}
				named.Args = append(named.Args, arg)
				if readExact(src, SeqComma) {
					continue
				}
				if readExact(src, SeqAngleClose) {
					break
				}
				return nil, newError(*src, "expected `,` or `>` here")
			}
		}
		return named, nil
	}

	return nil, nil
}

func parseFunctionType(src *source, cursor uint32) (syntax.Type, bool, error) {
	start := src.cursor

	var typeParams []ast.Identifier
	if peekSequence(src, SeqAngleOpen) {
		params, err := parseTypeParams(src)
		if err != nil {
			src.cursor = start
			return nil, false, nil
		}
		typeParams = params
	}

	params, ok := parseParamsOpt(src)
	if !ok || !readExact(src, SeqArrow) {
		src.cursor = start
		return nil, false, nil
	}
	ret, err := expectType(src)
	if err != nil {
		return nil, false, err
	}
	return &syntax.TFunc{
		Location:   loc(src, cursor),
		TypeParams: typeParams,
		Params:     params,
		Return:     ret,
	}, true, nil
}

// parseParamsOpt reads a parenthesized parameter list without
// committing: any shape that is not a parameter list restores the cursor.
func parseParamsOpt(src *source) ([]syntax.Param, bool) {
	start := src.cursor
	if !readExact(src, SeqParenthesisOpen) {
		return nil, false
	}
	params := []syntax.Param{}
	if readExact(src, SeqParenthesisClose) {
		return params, true
	}
	for {
		cursor := src.cursor
		name := readIdentifier(src, false)
		if name == nil {
			src.cursor = start
			return nil, false
		}
		param := syntax.Param{Location: loc(src, cursor), Name: ast.Identifier(*name)}
		readExact(src, SeqQuestion)
		if readExact(src, SeqColon) {
			typ, err := parseType(src)
			if err != nil || typ == nil {
				src.cursor = start
				return nil, false
			}
			param.Type = typ
		}
		params = append(params, param)
		if readExact(src, SeqComma) {
			continue
		}
		if readExact(src, SeqParenthesisClose) {
			return params, true
		}
		src.cursor = start
		return nil, false
	}
}

func parseObjectType(src *source, cursor uint32) (syntax.Type, error) {
	object := &syntax.TObject{Location: loc(src, cursor)}
	for !readExact(src, SeqBracesClose) {
		if !isOk(src) {
			return nil, newError(*src, "object type is not closed before the end of file")
		}
		fieldCursor := src.cursor
		name := readIdentifier(src, false)
		if name == nil {
			return nil, newError(*src, "expected a field name here")
		}
		readExact(src, SeqQuestion)
		if !readExact(src, SeqColon) {
			return nil, newError(*src, "expected `:` here")
		}
		typ, err := expectType(src)
		if err != nil {
			return nil, err
		}
		object.Fields = append(object.Fields, syntax.ObjectField{
			Location: loc(src, fieldCursor),
			Name:     ast.Identifier(*name),
			Type:     typ,
		})
		if !readExact(src, SeqSemicolon) {
			readExact(src, SeqComma)
		}
	}
	return object, nil
}

func expectExpression(src *source) (syntax.Expression, error) {
	expression, err := parseExpression(src)
	if err != nil {
		return nil, err
	}
	if expression == nil {
		return nil, newError(*src, "expected an expression here")
	}
	return expression, nil
}

func parseExpression(src *source) (syntax.Expression, error) {
	cursor := src.cursor
	condition, err := parseBinary(src, 0)
	if err != nil || condition == nil {
		return condition, err
	}
	if readExact(src, SeqQuestion) {
		thenBranch, err := expectExpression(src)
		if err != nil {
			return nil, err
		}
		if !readExact(src, SeqColon) {
			return nil, newError(*src, "expected `:` here")
		}
		elseBranch, err := expectExpression(src)
		if err != nil {
			return nil, err
		}
		return &syntax.ECond{
			Location:  loc(src, cursor),
			Condition: condition,
			Then:      thenBranch,
			Else:      elseBranch,
		}, nil
	}
	return condition, nil
}

var binaryOps = []struct {
	op         string
	precedence int
}{
	{"||", 1},
	{"&&", 2},
	{"===", 3}, {"!==", 3}, {"==", 3}, {"!=", 3},
	{"<=", 4}, {">=", 4}, {"<", 4}, {">", 4},
	{"+", 5}, {"-", 5},
	{"*", 6}, {"/", 6}, {"%", 6},
}

func readBinaryOp(src *source, minPrecedence int) (string, int) {
	for _, candidate := range binaryOps {
		if candidate.precedence < minPrecedence {
			continue
		}
		if nil != readSequence(src, candidate.op) {
			skipComment(src)
			return candidate.op, candidate.precedence
		}
	}
	return "", 0
}

func parseBinary(src *source, minPrecedence int) (syntax.Expression, error) {
	cursor := src.cursor
	left, err := parseCastOperand(src)
	if err != nil || left == nil {
		return left, err
	}
	for {
		op, precedence := readBinaryOp(src, minPrecedence)
		if op == "" {
			break
		}
		right, err := parseBinary(src, precedence+1)
		if err != nil {
			return nil, err
		}
		if right == nil {
			return nil, newError(*src, "expected an expression after `"+op+"`")
		}
		left = &syntax.EBinary{Location: loc(src, cursor), Op: op, Left: left, Right: right}
	}
	return left, nil
}

func parseCastOperand(src *source) (syntax.Expression, error) {
	cursor := src.cursor
	operand, err := parseUnary(src)
	if err != nil || operand == nil {
		return operand, err
	}
	for readKeyword(src, KwAs) {
		typ, err := expectType(src)
		if err != nil {
			return nil, err
		}
		operand = &syntax.ECast{Location: loc(src, cursor), Expression: operand, Type: typ}
	}
	return operand, nil
}

var unaryOps = []string{"!", "-", "+"}

func parseUnary(src *source) (syntax.Expression, error) {
	cursor := src.cursor
	for _, op := range unaryOps {
		if nil != readSequence(src, op) {
			skipComment(src)
			operand, err := parseUnary(src)
			if err != nil {
				return nil, err
			}
			if operand == nil {
				return nil, newError(*src, "expected an expression after `"+op+"`")
			}
			return &syntax.EUnary{Location: loc(src, cursor), Op: op, Operand: operand}, nil
		}
	}
	return parsePostfix(src)
}

func parsePostfix(src *source) (syntax.Expression, error) {
	cursor := src.cursor
	expression, err := parsePrimary(src)
	if err != nil || expression == nil {
		return expression, err
	}
	for {
		if readExact(src, SeqDot) {
			name := readIdentifier(src, false)
			if name == nil {
				return nil, newError(*src, "expected a field name here")
			}
			expression = &syntax.EAccess{
				Location:  loc(src, cursor),
				Record:    expression,
				FieldName: ast.Identifier(*name),
			}
			continue
		}
		if readExact(src, SeqParenthesisOpen) {
			call := &syntax.ECall{Location: loc(src, cursor), Func: expression}
			for {
				if readExact(src, SeqParenthesisClose) {
					break
				}
				arg, err := expectExpression(src)
				if err != nil {
					return nil, err
				}
				call.Args = append(call.Args, arg)
				if readExact(src, SeqComma) {
					continue
				}
				if readExact(src, SeqParenthesisClose) {
					break
				}
				return nil, newError(*src, "expected `,` or `)` here")
			}
			call.Location = loc(src, cursor)
			expression = call
			continue
		}
		if readExact(src, SeqBracketsOpen) {
			index, err := expectExpression(src)
			if err != nil {
				return nil, err
			}
			if !readExact(src, SeqBracketsClose) {
				return nil, newError(*src, "expected `]` here")
			}
			expression = &syntax.EIndex{Location: loc(src, cursor), Record: expression, Index: index}
			continue
		}
		break
	}
	return expression, nil
}

func parsePrimary(src *source) (syntax.Expression, error) {
	cursor := src.cursor

	if readKeyword(src, KwTrue) {
		return &syntax.EConst{Location: loc(src, cursor), Value: ast.CBool{Value: true}}, nil
	}
	if readKeyword(src, KwFalse) {
		return &syntax.EConst{Location: loc(src, cursor), Value: ast.CBool{Value: false}}, nil
	}
	if readKeyword(src, KwNull) || readKeyword(src, KwUndefined) {
		return &syntax.EConst{Location: loc(src, cursor), Value: ast.CUnit{}}, nil
	}

	value, err := parseString(src)
	if err != nil {
		return nil, err
	}
	if value != nil {
		return &syntax.EConst{Location: loc(src, cursor), Value: ast.CString{Value: *value}}, nil
	}

	iValue, fValue, err := parseNumber(src)
	if err != nil {
		return nil, err
	}
	if fValue != nil {
		return &syntax.EConst{Location: loc(src, cursor), Value: ast.CFloat{Value: *fValue}}, nil
	}
	if iValue != nil {
		return &syntax.EConst{Location: loc(src, cursor), Value: ast.CInt{Value: *iValue}}, nil
	}

	if readKeyword(src, KwFunction) {
		return parseFunctionExpression(src, cursor)
	}

	if expression, ok, err := parseArrow(src, cursor); err != nil || ok {
		return expression, err
	}

	if readExact(src, SeqParenthesisOpen) {
		expression, err := expectExpression(src)
		if err != nil {
			return nil, err
		}
		if !readExact(src, SeqParenthesisClose) {
			return nil, newError(*src, "expected `)` here")
		}
		return expression, nil
	}

	if readExact(src, SeqBracketsOpen) {
		array := &syntax.EArray{Location: loc(src, cursor)}
		for {
			if readExact(src, SeqBracketsClose) {
				break
			}
			item, err := expectExpression(src)
			if err != nil {
				return nil, err
			}
			array.Items = append(array.Items, item)
			if readExact(src, SeqComma) {
				continue
			}
			if readExact(src, SeqBracketsClose) {
				break
			}
			return nil, newError(*src, "expected `,` or `]` here")
		}
		array.Location = loc(src, cursor)
		return array, nil
	}

	if readExact(src, SeqBracesOpen) {
		return parseObjectLiteral(src, cursor)
	}

	if peekSequence(src, SeqAngleOpen) {
		start := src.cursor
		readExact(src, SeqAngleOpen)
		typ, err := parseType(src)
		if err == nil && typ != nil && readExact(src, SeqAngleClose) {
			operand, err := parseUnary(src)
			if err != nil {
				return nil, err
			}
			if operand == nil {
				return nil, newError(*src, "expected an expression here")
			}
			return &syntax.ECast{Location: loc(src, cursor), Expression: operand, Type: typ}, nil
		}
		src.cursor = start
		return nil, nil
	}

	if name := readIdentifier(src, false); name != nil {
		if readExact(src, SeqArrow) {
			param := syntax.Param{Location: loc(src, cursor), Name: ast.Identifier(*name)}
			return parseArrowBody(src, cursor, nil, []syntax.Param{param}, nil)
		}
		return &syntax.EVar{Location: loc(src, cursor), Name: *name}, nil
	}

	return nil, nil
}

func parseFunctionExpression(src *source, cursor uint32) (syntax.Expression, error) {
	readIdentifier(src, false) // local function expressions lose their name
	typeParams, err := parseTypeParams(src)
	if err != nil {
		return nil, err
	}
	params, err := parseFunctionParams(src)
	if err != nil {
		return nil, err
	}
	var ret syntax.Type
	if readExact(src, SeqColon) {
		ret, err = expectType(src)
		if err != nil {
			return nil, err
		}
	}
	body, err := parseBlock(src)
	if err != nil {
		return nil, err
	}
	return &syntax.EFunc{
		Location:   loc(src, cursor),
		TypeParams: typeParams,
		Params:     params,
		Return:     ret,
		Body:       body,
	}, nil
}

func parseArrow(src *source, cursor uint32) (syntax.Expression, bool, error) {
	start := src.cursor

	var typeParams []ast.Identifier
	if peekSequence(src, SeqAngleOpen) {
		params, err := parseTypeParams(src)
		if err != nil {
			src.cursor = start
			return nil, false, nil
		}
		typeParams = params
	}

	params, ok := parseParamsOpt(src)
	if !ok {
		src.cursor = start
		return nil, false, nil
	}
	var ret syntax.Type
	if readExact(src, SeqColon) {
		typ, err := parseType(src)
		if err != nil || typ == nil {
			src.cursor = start
			return nil, false, nil
		}
		ret = typ
	}
	if !readExact(src, SeqArrow) {
		src.cursor = start
		return nil, false, nil
	}
	expression, err := parseArrowBody(src, cursor, typeParams, params, ret)
	if err != nil {
		return nil, false, err
	}
	return expression, true, nil
}

// parseArrowBody desugars an expression body into a single return.
func parseArrowBody(src *source, cursor uint32, typeParams []ast.Identifier, params []syntax.Param, ret syntax.Type) (syntax.Expression, error) {
	if peekSequence(src, SeqBracesOpen) {
		body, err := parseBlock(src)
		if err != nil {
			return nil, err
		}
		return &syntax.EFunc{
			Location:   loc(src, cursor),
			TypeParams: typeParams,
			Params:     params,
			Return:     ret,
			Body:       body,
		}, nil
	}
	value, err := expectExpression(src)
	if err != nil {
		return nil, err
	}
	return &syntax.EFunc{
		Location:   loc(src, cursor),
		TypeParams: typeParams,
		Params:     params,
		Return:     ret,
		Body:       []syntax.Statement{&syntax.SReturn{Location: value.GetLocation(), Value: value}},
	}, nil
}

func parseObjectLiteral(src *source, cursor uint32) (syntax.Expression, error) {
	object := &syntax.EObject{Location: loc(src, cursor)}
	for {
		if readExact(src, SeqBracesClose) {
			break
		}
		if !isOk(src) {
			return nil, newError(*src, "object literal is not closed before the end of file")
		}
		fieldCursor := src.cursor

		if readExact(src, SeqSpread) {
			spread, err := expectExpression(src)
			if err != nil {
				return nil, err
			}
			object.Fields = append(object.Fields, &syntax.FieldSpread{
				Location: loc(src, fieldCursor),
				Value:    spread,
			})
		} else if readExact(src, SeqBracketsOpen) {
			key, err := expectExpression(src)
			if err != nil {
				return nil, err
			}
			if !readExact(src, SeqBracketsClose) {
				return nil, newError(*src, "expected `]` here")
			}
			if !readExact(src, SeqColon) {
				return nil, newError(*src, "expected `:` here")
			}
			keyValue, err := expectExpression(src)
			if err != nil {
				return nil, err
			}
			object.Fields = append(object.Fields, &syntax.FieldComputed{
				Location: loc(src, fieldCursor),
				Key:      key,
				Value:    keyValue,
			})
		} else {
			var name string
			if ident := readIdentifier(src, false); ident != nil {
				name = string(*ident)
			} else if str, err := parseString(src); err != nil {
				return nil, err
			} else if str != nil {
				name = *str
			} else {
				return nil, newError(*src, "expected a field here")
			}
			if readExact(src, SeqColon) {
				fieldValue, err := expectExpression(src)
				if err != nil {
					return nil, err
				}
				object.Fields = append(object.Fields, &syntax.FieldValue{
					Location: loc(src, fieldCursor),
					Name:     ast.Identifier(name),
					Value:    fieldValue,
				})
			} else {
				object.Fields = append(object.Fields, &syntax.FieldValue{
					Location: loc(src, fieldCursor),
					Name:     ast.Identifier(name),
					Value:    &syntax.EVar{Location: loc(src, fieldCursor), Name: ast.QualifiedIdentifier(name)},
				})
			}
		}

		if readExact(src, SeqComma) {
			continue
		}
		if readExact(src, SeqBracesClose) {
			break
		}
		return nil, newError(*src, "expected `,` or `}` here")
	}
	object.Location = loc(src, cursor)
	return object, nil
}
