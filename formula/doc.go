// Copyright (c) 2025 The boho-calc-flow Authors.
// Licensed under the MIT License. See LICENSE.

/*
Package formula evaluates parametric calculator definitions.

A definition's formula is an expression over named variables. Running it
substitutes each whole-word variable occurrence with its numeric value
(inputs first, then the variable's default) and evaluates the result with
govaluate:

	res, err := formula.Run(def, map[string]float64{"principal": 2000})

Substitution never touches a name embedded in a longer identifier, so a
variable "rate" leaves "rate2" and "interest_rate" alone.

The evaluator accepts "^" as power (right-grouping, tighter than a
leading minus, as in math.js), the functions sqrt, abs, exp, log, ln,
log10, sin, cos, tan, floor, ceil, round, pow, min and max, and the
constants pi and e. Results that are not finite numbers are errors.
*/
package formula
