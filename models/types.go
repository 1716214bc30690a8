// Copyright (c) 2025 The boho-calc-flow Authors.
// Licensed under the MIT License. See LICENSE.

package models

import "time"

// Variable type constants
const (
	VariableNumber  = "number"
	VariableInteger = "integer"
)

// Marketplace sort orders
const (
	SortRecent  = "recent"
	SortPopular = "popular"
	SortRating  = "rating"
)

// CategoryOther is used when a calculator has no category
const CategoryOther = "Other"

// Categories offered by the marketplace filter
var Categories = []string{"Finance", "Physics", "Math", "Health", "Engineering", "Science", "Business", CategoryOther}

// Variable and CalculatorDefinition keep camelCase JSON keys: that is the
// shape the generator's language model is asked to produce and the shape
// stored in the variables column.

type Variable struct {
	Name         string  `json:"name" yaml:"name"`
	Label        string  `json:"label" yaml:"label"`
	Type         string  `json:"type" yaml:"type"`
	DefaultValue float64 `json:"defaultValue" yaml:"defaultValue"`
	Unit         string  `json:"unit,omitempty" yaml:"unit,omitempty"`
}

type CalculatorDefinition struct {
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description" yaml:"description"`
	Formula     string     `json:"formula" yaml:"formula"`
	Variables   []Variable `json:"variables" yaml:"variables"`
	Category    string     `json:"category" yaml:"category"`
}

// Request types

type CreateHistoryRequest struct {
	Expression string   `json:"expression"`
	Result     string   `json:"result"`
	Tags       []string `json:"tags"`
	Notes      string   `json:"notes"`
	Context    string   `json:"context"`
}

// nil fields are left unchanged
type UpdateHistoryRequest struct {
	Tags  *[]string `json:"tags"`
	Notes *string   `json:"notes"`
}

type CreateCalculatorRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Formula     string     `json:"formula"`
	Variables   []Variable `json:"variables"`
	Category    string     `json:"category"`
	IsPublic    *bool      `json:"is_public"`
	IsAnonymous bool       `json:"is_anonymous"`
}

// variable name -> value; missing variables use their default
type RunCalculatorRequest struct {
	Inputs map[string]float64 `json:"inputs"`
	Save   bool               `json:"save"`
	Notes  string             `json:"notes"`
}

type RateCalculatorRequest struct {
	Rating int `json:"rating"`
}

type KeypadRequest struct {
	Keys []string `json:"keys"`
	Save bool     `json:"save"`
}

type GenerateCalculatorRequest struct {
	Prompt    string `json:"prompt"`
	UserInput string `json:"userInput"`
}

// Response types

type CreatedResponse struct {
	ID string `json:"id"`
}

type RunCalculatorResponse struct {
	Result     string  `json:"result"`
	Value      float64 `json:"value"`
	Expression string  `json:"expression"`
	Evaluated  string  `json:"evaluated"`
	HistoryID  string  `json:"history_id,omitempty"`
}

type RateCalculatorResponse struct {
	Rating      int     `json:"rating"`
	RatingAvg   float64 `json:"rating_avg"`
	RatingCount int     `json:"rating_count"`
}

type KeypadResponse struct {
	Display         string `json:"display"`
	PendingOperator string `json:"pending_operator,omitempty"`
	Expression      string `json:"expression,omitempty"`
	Result          string `json:"result,omitempty"`
	HistoryID       string `json:"history_id,omitempty"`
}

type GenerateCalculatorResponse struct {
	Success        bool                 `json:"success"`
	CalculatorData CalculatorDefinition `json:"calculatorData"`
}

// Domain types

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email,omitempty"`
	Username  string    `json:"username,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type HistoryEntry struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Expression string    `json:"expression"`
	Result     string    `json:"result"`
	Tags       []string  `json:"tags"`
	Notes      *string   `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type Calculator struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Formula     string     `json:"formula"`
	Variables   []Variable `json:"variables"`
	Category    string     `json:"category"`
	IsPublic    bool       `json:"is_public"`
	IsAnonymous bool       `json:"is_anonymous"`
	UsageCount  int        `json:"usage_count"`
	RatingAvg   float64    `json:"rating_avg"`
	RatingCount int        `json:"rating_count"`
	CreatorID   *string    `json:"creator_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Definition returns the parts of the calculator needed to evaluate it.
func (c Calculator) Definition() CalculatorDefinition {
	return CalculatorDefinition{
		Name:        c.Name,
		Description: c.Description,
		Formula:     c.Formula,
		Variables:   c.Variables,
		Category:    c.Category,
	}
}

type CalculatorList struct {
	Calculators []Calculator `json:"calculators"`
}

type HistoryList struct {
	Entries []HistoryEntry `json:"entries"`
}

// Error responses

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// FunctionErrorResponse is returned by the create-calculator function,
// which reports diagnostic detail to its caller.
type FunctionErrorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	RawContent string `json:"rawContent,omitempty"`
}
