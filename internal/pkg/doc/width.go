package doc

import (
	xwidth "golang.org/x/text/width"
)

// StringWidth counts display columns, not runes: East Asian wide and
// fullwidth characters occupy two columns.
func StringWidth(s string) int {
	w := 0
	for _, r := range s {
		switch xwidth.LookupRune(r).Kind() {
		case xwidth.EastAsianWide, xwidth.EastAsianFullwidth:
			w += 2
		default:
			w++
		}
	}
	return w
}
