package common

import (
	"fmt"
	"gallus-compiler/internal/pkg/ast"
	"strings"
)

const CompilerVersion uint32 = 100

type Error struct {
	Location ast.Location
	Message  string
}

func (e Error) Error() string {
	sb := strings.Builder{}
	cursorString := e.Location.CursorString()
	if cursorString != "" {
		sb.WriteString(fmt.Sprintf("%s %s", cursorString, e.Message))
	} else {
		sb.WriteString(e.Message)
	}
	return sb.String()
}

func NewSystemError(err error) error {
	return systemError{inner: err}
}

type systemError struct {
	inner error
}

func (e systemError) Error() string {
	return fmt.Sprintf("system error: %v", e.inner)
}
