// Copyright (c) 2025 The boho-calc-flow Authors.
// Licensed under the MIT License. See LICENSE.

package formula

import (
	"fmt"
	"math"

	"github.com/Knetic/govaluate"
)

// constants are passed as evaluation parameters, not substituted
var constants = map[string]interface{}{
	"pi": math.Pi,
	"PI": math.Pi,
	"e":  math.E,
	"E":  math.E,
}

var functions = map[string]govaluate.ExpressionFunction{
	"sqrt":  unary("sqrt", math.Sqrt),
	"abs":   unary("abs", math.Abs),
	"exp":   unary("exp", math.Exp),
	"log":   unary("log", math.Log),
	"ln":    unary("ln", math.Log),
	"log10": unary("log10", math.Log10),
	"sin":   unary("sin", math.Sin),
	"cos":   unary("cos", math.Cos),
	"tan":   unary("tan", math.Tan),
	"floor": unary("floor", math.Floor),
	"ceil":  unary("ceil", math.Ceil),
	"round": unary("round", math.Round),
	"pow":   binary("pow", math.Pow),
	"min":   variadic("min", math.Min),
	"max":   variadic("max", math.Max),
}

func unary(name string, fn func(float64) float64) govaluate.ExpressionFunction {
	return func(args ...interface{}) (interface{}, error) {
		nums, err := numbers(name, args)
		if err != nil {
			return nil, err
		}
		if len(nums) != 1 {
			return nil, fmt.Errorf("%s expects 1 argument, got %d", name, len(nums))
		}
		return fn(nums[0]), nil
	}
}

func binary(name string, fn func(float64, float64) float64) govaluate.ExpressionFunction {
	return func(args ...interface{}) (interface{}, error) {
		nums, err := numbers(name, args)
		if err != nil {
			return nil, err
		}
		if len(nums) != 2 {
			return nil, fmt.Errorf("%s expects 2 arguments, got %d", name, len(nums))
		}
		return fn(nums[0], nums[1]), nil
	}
}

func variadic(name string, fn func(float64, float64) float64) govaluate.ExpressionFunction {
	return func(args ...interface{}) (interface{}, error) {
		nums, err := numbers(name, args)
		if err != nil {
			return nil, err
		}
		if len(nums) == 0 {
			return nil, fmt.Errorf("%s expects at least 1 argument", name)
		}
		acc := nums[0]
		for _, n := range nums[1:] {
			acc = fn(acc, n)
		}
		return acc, nil
	}
}

func numbers(name string, args []interface{}) ([]float64, error) {
	nums := make([]float64, len(args))
	for i, a := range args {
		f, ok := a.(float64)
		if !ok {
			return nil, fmt.Errorf("%s: argument %d is not a number", name, i+1)
		}
		nums[i] = f
	}
	return nums, nil
}
