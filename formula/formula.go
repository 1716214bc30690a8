// Copyright (c) 2025 The boho-calc-flow Authors.
// Licensed under the MIT License. See LICENSE.

package formula

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/Knetic/govaluate"

	"github.com/Ridhi-Vadlamudi/boho-calc-flow/calc"
	"github.com/Ridhi-Vadlamudi/boho-calc-flow/models"
)

var (
	ErrEmptyFormula        = errors.New("formula is required")
	ErrEmptyName           = errors.New("name is required")
	ErrInvalidVariableName = errors.New("invalid variable name")
	ErrDuplicateVariable   = errors.New("duplicate variable")
	ErrInvalidVariableType = errors.New("invalid variable type")
	ErrInvalidInput        = errors.New("invalid input value")
	ErrNotNumeric          = errors.New("formula did not produce a number")
	ErrNonFiniteResult     = errors.New("formula result is not finite")
)

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Result of running a calculator definition
type Result struct {
	Value float64
	// Text is Value rendered for display and storage.
	Text string
	// Evaluated is the formula after variable substitution.
	Evaluated string
}

// ValidateDefinition checks the parts of a definition needed to run it.
func ValidateDefinition(def models.CalculatorDefinition) error {
	if strings.TrimSpace(def.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(def.Formula) == "" {
		return ErrEmptyFormula
	}

	seen := make(map[string]bool, len(def.Variables))
	for _, v := range def.Variables {
		if !identifier.MatchString(v.Name) {
			return fmt.Errorf("%w: %q", ErrInvalidVariableName, v.Name)
		}
		if seen[v.Name] {
			return fmt.Errorf("%w: %q", ErrDuplicateVariable, v.Name)
		}
		seen[v.Name] = true

		switch v.Type {
		case "", models.VariableNumber, models.VariableInteger:
		default:
			return fmt.Errorf("%w: %q", ErrInvalidVariableType, v.Type)
		}
	}
	return nil
}

// Substitute replaces every whole-word occurrence of each variable with its
// value. A variable missing from inputs takes its default value.
func Substitute(formula string, variables []models.Variable, inputs map[string]float64) (string, error) {
	out := formula
	for _, v := range variables {
		if !identifier.MatchString(v.Name) {
			return "", fmt.Errorf("%w: %q", ErrInvalidVariableName, v.Name)
		}

		value, ok := inputs[v.Name]
		if !ok {
			value = v.DefaultValue
		}
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return "", fmt.Errorf("%w: %s", ErrInvalidInput, v.Name)
		}
		if v.Type == models.VariableInteger && value != math.Trunc(value) {
			return "", fmt.Errorf("%w: %s must be a whole number", ErrInvalidInput, v.Name)
		}

		re := regexp.MustCompile(`\b` + regexp.QuoteMeta(v.Name) + `\b`)
		out = re.ReplaceAllLiteralString(out, literal(value))
	}
	return out, nil
}

// literal renders a value as an expression literal. The evaluator has no
// exponent notation, and negatives are wrapped so "x^2" squares -3 whole.
func literal(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if v < 0 {
		return "(" + s + ")"
	}
	return s
}

// Evaluate computes a substituted expression. "^" is power, grouping from
// the right and binding tighter than a leading minus.
func Evaluate(expression string) (float64, error) {
	expression, err := rewritePowers(expression)
	if err != nil {
		return 0, fmt.Errorf("failed to parse formula: %w", err)
	}

	expr, err := govaluate.NewEvaluableExpressionWithFunctions(expression, functions)
	if err != nil {
		return 0, fmt.Errorf("failed to parse formula: %w", err)
	}

	raw, err := expr.Evaluate(constants)
	if err != nil {
		return 0, fmt.Errorf("failed to evaluate formula: %w", err)
	}

	value, ok := raw.(float64)
	if !ok {
		return 0, fmt.Errorf("%w: got %T", ErrNotNumeric, raw)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, ErrNonFiniteResult
	}
	return value, nil
}

// Run substitutes inputs into the definition's formula and evaluates it.
func Run(def models.CalculatorDefinition, inputs map[string]float64) (Result, error) {
	if err := ValidateDefinition(def); err != nil {
		return Result{}, err
	}

	evaluated, err := Substitute(def.Formula, def.Variables, inputs)
	if err != nil {
		return Result{}, err
	}

	value, err := Evaluate(evaluated)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Value:     value,
		Text:      calc.FormatNumber(value),
		Evaluated: evaluated,
	}, nil
}

// DescribeRun renders the inputs of a run as "Name: Label=value, ...",
// the expression stored in history.
func DescribeRun(def models.CalculatorDefinition, inputs map[string]float64) string {
	parts := make([]string, 0, len(def.Variables))
	for _, v := range def.Variables {
		value, ok := inputs[v.Name]
		if !ok {
			value = v.DefaultValue
		}
		label := v.Label
		if label == "" {
			label = v.Name
		}
		parts = append(parts, label+"="+calc.FormatNumber(value))
	}
	return def.Name + ": " + strings.Join(parts, ", ")
}
