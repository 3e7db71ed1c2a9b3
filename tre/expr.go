// seehuhn.de/go/nitf - a library for reading and writing NITF files
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package tre

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"seehuhn.de/go/nitf/field"
)

// evalPostfix evaluates a length expression.  The expression is either a
// single operand, or two operands followed by one of the operators
// + - * / and %.  Operands are non-negative integer literals or field
// references.
func (c *Cursor) evalPostfix(expr string) (int, error) {
	tokens := strings.Fields(expr)
	var v int64
	switch {
	case len(tokens) == 1 && !isOperator(tokens[0]):
		var err error
		v, err = c.operand(tokens[0])
		if err != nil {
			return 0, &ExprError{Expr: expr, Err: err}
		}
	case len(tokens) == 3 && !isOperator(tokens[0]) && !isOperator(tokens[1]) && isOperator(tokens[2]):
		op1, err := c.operand(tokens[0])
		if err != nil {
			return 0, &ExprError{Expr: expr, Err: err}
		}
		op2, err := c.operand(tokens[1])
		if err != nil {
			return 0, &ExprError{Expr: expr, Err: err}
		}
		v, err = apply(tokens[2][0], op1, op2)
		if err != nil {
			return 0, &ExprError{Expr: expr, Err: err}
		}
	default:
		return 0, &ExprError{Expr: expr, Err: errExprForm}
	}

	if v < 0 || v > maxFieldLength {
		return 0, &ExprError{Expr: expr, Err: fmt.Errorf("invalid length %d", v)}
	}
	return int(v), nil
}

func isOperator(tok string) bool {
	return len(tok) == 1 && strings.ContainsRune("+-*/%", rune(tok[0]))
}

// operand returns the value of an integer literal or a field reference.
func (c *Cursor) operand(tok string) (int64, error) {
	if isNumeric(tok) {
		return strconv.ParseInt(tok, 10, 32)
	}
	return c.fieldInt(tok)
}

// maxFieldLength bounds the length of a computed field.  TRE lengths are
// limited to five decimal digits.
const maxFieldLength = 99999

func apply(op byte, a, b int64) (int64, error) {
	switch op {
	case '+':
		return a + b, nil
	case '-':
		return a - b, nil
	case '*':
		return a * b, nil
	case '/':
		if b == 0 {
			return 0, errDivideByZero
		}
		return a / b, nil
	case '%':
		if b == 0 {
			return 0, errDivideByZero
		}
		return a % b, nil
	}
	return 0, fmt.Errorf("invalid operator %q", op)
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// fieldInt returns the integer value of a referenced field.
func (c *Cursor) fieldInt(tag string) (int64, error) {
	f, ok := c.lookup(tag)
	if !ok {
		return 0, &DescriptionError{Index: c.index, Msg: "reference to unknown field " + tag}
	}
	v, err := f.Int()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", tag, err)
	}
	return v, nil
}

// evalLoopCount returns the number of iterations of a loop.  Negative
// counts are treated as zero.
func (c *Cursor) evalLoopCount(e *Entry) (int, error) {
	if e.Label == Constant {
		n, err := strconv.Atoi(strings.TrimSpace(e.Tag))
		if err != nil {
			return 0, &DescriptionError{Index: c.index, Msg: "invalid constant loop count"}
		}
		return max(n, 0), nil
	}

	count, err := c.fieldInt(e.Tag)
	if err != nil {
		return 0, err
	}

	label := strings.TrimSpace(e.Label)
	if label != "" {
		op := label[0]
		if !strings.ContainsRune("+-*/%", rune(op)) {
			return 0, &DescriptionError{Index: c.index, Msg: "invalid loop operator " + label}
		}
		arg, err := strconv.ParseInt(strings.TrimSpace(label[1:]), 10, 32)
		if err != nil {
			return 0, &DescriptionError{Index: c.index, Msg: "invalid loop operand " + label}
		}
		count, err = apply(op, count, arg)
		if err != nil {
			return 0, err
		}
	}
	if count < 0 {
		return 0, nil
	}
	if count > maxFieldLength {
		return 0, fmt.Errorf("%s: loop count %d too large", e.Tag, count)
	}
	return int(count), nil
}

// evalIf evaluates the condition of an If entry.
//
// The label has the form "op value".  The string comparisons "eq" and
// "ne" apply to text and binary fields and ignore trailing spaces, so that
// "ne  " tests whether a field is blank; the integer comparisons
// < > <= >= == != apply to BCS-N fields, and "&" tests bits of a binary
// field.
func (c *Cursor) evalIf(e *Entry) (bool, error) {
	f, ok := c.lookup(e.Tag)
	if !ok {
		return false, &DescriptionError{Index: c.index, Msg: "reference to unknown field " + e.Tag}
	}

	label := strings.TrimLeft(e.Label, " ")
	op, val, ok := strings.Cut(label, " ")
	if !ok {
		return false, &DescriptionError{Index: c.index, Msg: "invalid condition " + e.Label}
	}

	switch op {
	case "eq", "ne":
		if f.Kind() == field.BCSN {
			return false, &DescriptionError{Index: c.index, Msg: "eq/ne cannot compare numbers"}
		}
		eq := strings.TrimRight(f.String(), " ") == strings.TrimRight(val, " ")
		return eq == (op == "eq"), nil

	case "<", ">", "<=", ">=", "==", "!=":
		if f.Kind() != field.BCSN {
			return false, &DescriptionError{Index: c.index, Msg: "numeric comparison of a non-numeric field"}
		}
		want, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
		if err != nil {
			return false, &DescriptionError{Index: c.index, Msg: "invalid condition " + e.Label}
		}
		have, err := f.Int()
		if err != nil {
			return false, fmt.Errorf("%s: %w", e.Tag, err)
		}
		switch op {
		case "<":
			return have < want, nil
		case ">":
			return have > want, nil
		case "<=":
			return have <= want, nil
		case ">=":
			return have >= want, nil
		case "==":
			return have == want, nil
		default:
			return have != want, nil
		}

	case "&":
		if f.Kind() != field.Binary {
			return false, &DescriptionError{Index: c.index, Msg: "bit test of a non-binary field"}
		}
		mask, err := strconv.ParseUint(strings.TrimSpace(val), 0, 64)
		if err != nil {
			return false, &DescriptionError{Index: c.index, Msg: "invalid condition " + e.Label}
		}
		have, err := f.Uint()
		if err != nil {
			return false, fmt.Errorf("%s: %w", e.Tag, err)
		}
		return have&mask != 0, nil
	}
	return false, &DescriptionError{Index: c.index, Msg: "invalid comparison operator " + op}
}

// ExprError indicates that a length expression could not be evaluated.
type ExprError struct {
	Expr string
	Err  error
}

func (err *ExprError) Error() string {
	return fmt.Sprintf("length expression %q: %v", err.Expr, err.Err)
}

func (err *ExprError) Unwrap() error {
	return err.Err
}

var (
	errExprForm     = errors.New("expected an operand, or two operands and an operator")
	errDivideByZero = errors.New("division by zero")
)
