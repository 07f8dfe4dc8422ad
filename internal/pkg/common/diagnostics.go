package common

import (
	"fmt"
	"gallus-compiler/internal/pkg/ast"
)

// Diagnostics accumulates everything a translation run had to approximate.
// One instance is threaded through a whole run; compilation steps report
// into it and carry on with a caller-chosen default, so a run never aborts.
type Diagnostics struct {
	list []Error
}

func (d *Diagnostics) Report(loc ast.Location, format string, args ...any) {
	d.list = append(d.list, Error{Location: loc, Message: fmt.Sprintf(format, args...)})
}

func (d *Diagnostics) Err(errs ...error) {
	for _, err := range errs {
		if err == nil {
			continue
		}
		if e, ok := err.(Error); ok {
			d.list = append(d.list, e)
		} else {
			d.list = append(d.list, Error{Message: err.Error()})
		}
	}
}

func (d *Diagnostics) List() []Error {
	return d.list
}

func (d *Diagnostics) Empty() bool {
	return len(d.list) == 0
}
