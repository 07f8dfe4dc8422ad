package ast

import (
	"fmt"
	"strconv"
)

type ConstValue interface {
	fmt.Stringer
	_constValue()
}

type CBool struct {
	Value bool
}

func (CBool) _constValue() {}

func (c CBool) String() string {
	return fmt.Sprintf("CBool(%v)", c.Value)
}

type CInt struct {
	Value int64
}

func (CInt) _constValue() {}

func (c CInt) String() string {
	return fmt.Sprintf("CInt(%v)", c.Value)
}

type CFloat struct {
	Value float64
}

func (CFloat) _constValue() {}

func (c CFloat) String() string {
	return fmt.Sprintf("CFloat(%v)", strconv.FormatFloat(c.Value, 'g', -1, 64))
}

type CString struct {
	Value string
}

func (CString) _constValue() {}

func (c CString) String() string {
	return fmt.Sprintf("CString(%q)", c.Value)
}

type CUnit struct {
}

func (CUnit) _constValue() {}

func (c CUnit) String() string {
	return "CUnit()"
}
