// Package doc implements the layout tree the renderer emits and its
// width-constrained conversion to text. Documents are built from five
// primitives: literal text, a soft line break, a hard line break, an
// indentation step and a group. A group renders on one line when it fits
// into the remaining width and breaks at its soft line breaks otherwise.
package doc

type Doc interface {
	_doc()
}

type Text string

func (Text) _doc() {}

// Line renders as a single space while its group fits on one line, and as
// a line break otherwise.
type Line struct {
}

func (Line) _doc() {}

// HardLine always renders as a line break; a group containing one never
// fits.
type HardLine struct {
}

func (HardLine) _doc() {}

type Concat []Doc

func (Concat) _doc() {}

type Indent struct {
	Nested Doc
}

func (Indent) _doc() {}

type Group struct {
	Nested Doc
}

func (Group) _doc() {}
