// Copyright (c) 2025 The boho-calc-flow Authors.
// Licensed under the MIT License. See LICENSE.

package calc

import (
	"math"
	"strconv"
	"strings"
)

// FormatNumber renders a float the way browsers stringify numbers:
// shortest round-trip digits, exponent form below 1e-6 and from 1e21 up.
func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		return "0"
	}

	abs := math.Abs(v)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(v, 'e', -1, 64)
		// Go pads the exponent to two digits ("1e-07"), browsers don't.
		mantissa, exp, _ := strings.Cut(s, "e")
		sign := exp[0]
		exp = strings.TrimLeft(exp[1:], "0")
		return mantissa + "e" + string(sign) + exp
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ParseNumber is the lenient inverse of FormatNumber used on display text.
// Unparseable text yields NaN.
func ParseNumber(s string) float64 {
	switch s {
	case "Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
