// Copyright (c) 2025 The boho-calc-flow Authors.
// Licensed under the MIT License. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreateHistoryRequest: expression, result, tags, notes, context
  - UpdateHistoryRequest: tags, notes (both optional)
  - CreateCalculatorRequest: name, description, formula, variables, category, flags
  - RunCalculatorRequest: inputs (map[string]float64), save, notes
  - RateCalculatorRequest: rating (1-5)
  - KeypadRequest: keys, save
  - GenerateCalculatorRequest: prompt, userInput

# Response Types

  - CreatedResponse: id
  - RunCalculatorResponse: result, value, expression, evaluated, history_id
  - RateCalculatorResponse: rating, rating_avg, rating_count
  - KeypadResponse: display, pending_operator, expression, result
  - GenerateCalculatorResponse: success, calculatorData
  - ErrorResponse: error, message
  - FunctionErrorResponse: error, details, rawContent

# Domain Types

  - User: profile row keyed by the identity provider's subject
  - HistoryEntry: one saved calculation
  - Calculator: marketplace calculator with usage and rating aggregates
  - CalculatorDefinition: the evaluable part of a calculator
  - Variable: typed formula slot with label, default and unit

Variable and CalculatorDefinition use camelCase keys (defaultValue,
calculatorData) because that is the format exchanged with the language
model; everything else is snake_case.
*/
package models
