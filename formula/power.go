// Copyright (c) 2025 The boho-calc-flow Authors.
// Licensed under the MIT License. See LICENSE.

package formula

import (
	"errors"
	"strings"
)

var ErrMalformedPower = errors.New(`"^" is missing an operand`)

// rewritePowers turns every "a ^ b" into pow(a, b). Chains group from the
// right (2^3^2 is 2^9) and a leading minus stays outside the power, so
// -2^2 is -4.
func rewritePowers(expr string) (string, error) {
	for {
		op := strings.LastIndexByte(expr, '^')
		if op < 0 {
			return expr, nil
		}

		start, ok := operandStart(expr, op)
		if !ok {
			return "", ErrMalformedPower
		}
		end, ok := operandEnd(expr, op+1)
		if !ok {
			return "", ErrMalformedPower
		}

		base := strings.TrimSpace(expr[start:op])
		exponent := strings.TrimSpace(expr[op+1 : end])
		expr = expr[:start] + "pow(" + base + ", " + exponent + ")" + expr[end:]
	}
}

// operandStart finds the start of the operand ending just before op: a
// number, a name, a parenthesised group or a function call.
func operandStart(expr string, op int) (int, bool) {
	i := op - 1
	for i >= 0 && expr[i] == ' ' {
		i--
	}
	if i < 0 {
		return 0, false
	}

	if expr[i] == ')' {
		depth := 0
		for ; i >= 0; i-- {
			switch expr[i] {
			case ')':
				depth++
			case '(':
				depth--
			}
			if depth == 0 {
				break
			}
		}
		if i < 0 {
			return 0, false
		}
		for i > 0 && isWordByte(expr[i-1]) {
			i--
		}
		return i, true
	}

	if !isWordByte(expr[i]) {
		return 0, false
	}
	for i > 0 && isWordByte(expr[i-1]) {
		i--
	}
	return i, true
}

// operandEnd finds the end of the exponent starting at from. The exponent
// keeps its own sign: 2^-1 is 0.5.
func operandEnd(expr string, from int) (int, bool) {
	i := from
	for i < len(expr) && (expr[i] == ' ' || expr[i] == '-' || expr[i] == '+') {
		i++
	}
	if i >= len(expr) {
		return 0, false
	}

	if isWordByte(expr[i]) {
		word := i
		for i < len(expr) && isWordByte(expr[i]) {
			i++
		}
		if i >= len(expr) || expr[i] != '(' || !isLetter(expr[word]) {
			return i, true
		}
	}

	if expr[i] != '(' {
		return 0, false
	}
	depth := 0
	for ; i < len(expr); i++ {
		switch expr[i] {
		case '(':
			depth++
		case ')':
			depth--
		}
		if depth == 0 {
			return i + 1, true
		}
	}
	return 0, false
}

func isWordByte(c byte) bool {
	return isLetter(c) || c == '_' || c == '.' || (c >= '0' && c <= '9')
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
