package doc

import (
	"strings"
)

type frame struct {
	indent int
	flat   bool
	doc    Doc
}

// Render lays the document out against the given line width, indenting each
// nesting level by indentSize spaces.
func Render(d Doc, lineWidth int, indentSize int) string {
	sb := strings.Builder{}
	column := 0

	stack := []frame{{indent: 0, flat: false, doc: d}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch doc := f.doc.(type) {
		case Text:
			sb.WriteString(string(doc))
			column += StringWidth(string(doc))
		case Line:
			if f.flat {
				sb.WriteByte(' ')
				column++
			} else {
				column = breakLine(&sb, f.indent, indentSize)
			}
		case HardLine:
			column = breakLine(&sb, f.indent, indentSize)
		case Concat:
			for i := len(doc) - 1; i >= 0; i-- {
				stack = append(stack, frame{indent: f.indent, flat: f.flat, doc: doc[i]})
			}
		case Indent:
			stack = append(stack, frame{indent: f.indent + 1, flat: f.flat, doc: doc.Nested})
		case Group:
			flat := f.flat
			if !flat {
				if w, ok := flatWidth(doc.Nested); ok && column+w <= lineWidth {
					flat = true
				}
			}
			stack = append(stack, frame{indent: f.indent, flat: flat, doc: doc.Nested})
		}
	}

	return sb.String()
}

func breakLine(sb *strings.Builder, indent int, indentSize int) int {
	sb.WriteByte('\n')
	spaces := indent * indentSize
	for i := 0; i < spaces; i++ {
		sb.WriteByte(' ')
	}
	return spaces
}

// flatWidth measures the document on a single line; it fails on documents
// that contain a hard line break.
func flatWidth(d Doc) (int, bool) {
	switch doc := d.(type) {
	case Text:
		return StringWidth(string(doc)), true
	case Line:
		return 1, true
	case HardLine:
		return 0, false
	case Concat:
		total := 0
		for _, item := range doc {
			w, ok := flatWidth(item)
			if !ok {
				return 0, false
			}
			total += w
		}
		return total, true
	case Indent:
		return flatWidth(doc.Nested)
	case Group:
		return flatWidth(doc.Nested)
	}
	return 0, true
}
