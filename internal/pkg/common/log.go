package common

import (
	"fmt"
	"io"
)

// LogWriter collects errors and trace lines at the CLI boundary and flushes
// them once, after the generated output, so the two never interleave.
type LogWriter struct {
	errors []error
	trace  []string
}

// Err appends the given errors and reports whether any error has been
// collected so far.
func (log *LogWriter) Err(errs ...error) bool {
	for _, err := range errs {
		if err != nil {
			log.errors = append(log.errors, err)
		}
	}
	return len(log.errors) > 0
}

func (log *LogWriter) HasErrors() bool {
	return len(log.errors) > 0
}

func (log *LogWriter) Errors() []error {
	return log.errors
}

func (log *LogWriter) Trace(message string) {
	if message != "" {
		log.trace = append(log.trace, message)
	}
}

func (log *LogWriter) Flush(w io.Writer) {
	for _, t := range log.trace {
		_, _ = fmt.Fprintln(w, t)
	}
	for _, e := range log.errors {
		_, _ = fmt.Fprintln(w, e.Error())
	}
	log.trace = nil
	log.errors = nil
}
