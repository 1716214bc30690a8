// Copyright (c) 2025 The boho-calc-flow Authors.
// Licensed under the MIT License. See LICENSE.

package calc

import (
	"errors"
	"fmt"
	"strings"
)

// Operator symbols as they appear in displayed expressions
const (
	OpAdd      = "+"
	OpSubtract = "-"
	OpMultiply = "×"
	OpDivide   = "÷"
)

var ErrUnknownKey = errors.New("unknown key")

// Accumulator is the four-state keypad calculator: display, pending
// operand, pending operator and the wait-for-next-digit flag. Operators
// apply strictly left to right, there is no precedence.
//
// The zero value is not ready for use; call New.
type Accumulator struct {
	display  string
	previous *float64
	operator string
	waiting  bool

	// tape holds the operands and operators typed since the last
	// Clear or Equals, used to render the full expression.
	tape []string

	lastExpression string
	lastResult     string
}

// New returns an accumulator showing "0".
func New() *Accumulator {
	a := &Accumulator{}
	a.Clear()
	return a
}

// Display returns the text currently on the display.
func (a *Accumulator) Display() string { return a.display }

// PendingOperator returns the operator waiting for its right operand, or "".
func (a *Accumulator) PendingOperator() string { return a.operator }

// Waiting reports whether the next digit starts a new operand.
func (a *Accumulator) Waiting() bool { return a.waiting }

// Previous returns the stored left operand, if any.
func (a *Accumulator) Previous() (float64, bool) {
	if a.previous == nil {
		return 0, false
	}
	return *a.previous, true
}

// LastExpression returns the expression completed by the most recent Equals.
func (a *Accumulator) LastExpression() string { return a.lastExpression }

// LastResult returns the result of the most recent Equals.
func (a *Accumulator) LastResult() string { return a.lastResult }

// Digit enters a single digit 0-9.
func (a *Accumulator) Digit(d byte) {
	if d < '0' || d > '9' {
		return
	}
	if a.waiting {
		a.display = string(d)
		a.waiting = false
		return
	}
	if a.display == "0" {
		a.display = string(d)
	} else {
		a.display += string(d)
	}
}

// Decimal enters a decimal point. A display that already contains a point
// is left alone.
func (a *Accumulator) Decimal() {
	if a.waiting {
		a.display = "0."
		a.waiting = false
		return
	}
	if !strings.Contains(a.display, ".") {
		a.display += "."
	}
}

// Operator sets the pending operator, first folding any pending operation
// into the running value.
func (a *Accumulator) Operator(op string) {
	value := ParseNumber(a.display)

	switch {
	case a.previous == nil:
		a.previous = &value
		a.tape = append(a.tape, FormatNumber(value))
	case a.operator != "":
		// Pressed right after another operator, the display is still the
		// left operand and is applied to itself: 2 + + gives 4.
		result := apply(*a.previous, value, a.operator)
		a.tape = append(a.tape, FormatNumber(value))
		a.display = FormatNumber(result)
		a.previous = &result
	}

	a.tape = append(a.tape, op)
	a.operator = op
	a.waiting = true
}

// Equals completes the pending operation. Without a pending operator it
// does nothing.
func (a *Accumulator) Equals() {
	if a.previous == nil || a.operator == "" {
		return
	}

	value := ParseNumber(a.display)
	result := apply(*a.previous, value, a.operator)

	a.tape = append(a.tape, FormatNumber(value))
	a.display = FormatNumber(result)
	a.lastExpression = strings.Join(a.tape, " ")
	a.lastResult = a.display

	a.tape = nil
	a.previous = nil
	a.operator = ""
	a.waiting = true
}

// Clear resets every piece of state, including the last expression.
func (a *Accumulator) Clear() {
	a.display = "0"
	a.previous = nil
	a.operator = ""
	a.waiting = false
	a.tape = nil
	a.lastExpression = ""
	a.lastResult = ""
}

// Backspace removes the last display character.
func (a *Accumulator) Backspace() {
	if len(a.display) <= 1 {
		a.display = "0"
		return
	}
	a.display = a.display[:len(a.display)-1]
}

// Press dispatches one key token.
func (a *Accumulator) Press(key string) error {
	if len(key) == 1 && key[0] >= '0' && key[0] <= '9' {
		a.Digit(key[0])
		return nil
	}

	switch strings.ToLower(key) {
	case ".", ",":
		a.Decimal()
	case "+":
		a.Operator(OpAdd)
	case "-", "−":
		a.Operator(OpSubtract)
	case "*", "x", "×":
		a.Operator(OpMultiply)
	case "/", "÷":
		a.Operator(OpDivide)
	case "=", "enter":
		a.Equals()
	case "c", "clear", "esc":
		a.Clear()
	case "⌫", "backspace", "del":
		a.Backspace()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return nil
}

// Feed presses each key in order and stops at the first unknown key.
func (a *Accumulator) Feed(keys []string) error {
	for _, k := range keys {
		if err := a.Press(k); err != nil {
			return err
		}
	}
	return nil
}

// SplitKeys breaks a compact key string such as "12.5+3=" into key tokens.
// Whitespace is ignored.
func SplitKeys(s string) []string {
	keys := make([]string, 0, len(s))
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' {
			continue
		}
		keys = append(keys, string(r))
	}
	return keys
}

func apply(left, right float64, op string) float64 {
	switch op {
	case OpAdd:
		return left + right
	case OpSubtract:
		return left - right
	case OpMultiply:
		return left * right
	case OpDivide:
		return left / right
	default:
		return right
	}
}
