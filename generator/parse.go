// Copyright (c) 2025 The boho-calc-flow Authors.
// Licensed under the MIT License. See LICENSE.

package generator

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/Ridhi-Vadlamudi/boho-calc-flow/formula"
	"github.com/Ridhi-Vadlamudi/boho-calc-flow/models"
)

// replySchema constrains what the model may hand back. Unknown fields are
// tolerated; missing or empty required fields are not.
const replySchema = `
#Variable: {
	name:          =~"^[A-Za-z_][A-Za-z0-9_]*$"
	label?:        string
	type?:         "number" | "integer"
	defaultValue?: number
	unit?:         string | null
	...
}

#Calculator: {
	name:        string & !=""
	description: string & !=""
	formula:     string & !=""
	variables:   [...#Variable]
	category?:   string | null
	...
}
`

var fences = regexp.MustCompile("```(?:json)?\\n?|\\n?```")

// ParseReply turns the model's reply into a calculator definition. Code
// fences are stripped, a non-array "variables" becomes empty, and the
// result must satisfy the reply schema.
func ParseReply(content string) (*models.CalculatorDefinition, error) {
	cleaned := strings.TrimSpace(fences.ReplaceAllString(content, ""))

	// Tolerate chatter around the object.
	if start, end := strings.Index(cleaned, "{"), strings.LastIndex(cleaned, "}"); start >= 0 && end > start {
		cleaned = cleaned[start : end+1]
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(cleaned), &obj); err != nil {
		return nil, &ParseError{Detail: err.Error(), Raw: content}
	}
	if obj == nil {
		return nil, &ParseError{Detail: "reply is not a JSON object", Raw: content}
	}
	if _, ok := obj["variables"].([]any); !ok {
		obj["variables"] = []any{}
	}

	normalized, err := json.Marshal(obj)
	if err != nil {
		return nil, &ParseError{Detail: err.Error(), Raw: content}
	}

	if err := validateReply(normalized); err != nil {
		return nil, &ParseError{Detail: err.Error(), Raw: content}
	}

	var def models.CalculatorDefinition
	if err := json.Unmarshal(normalized, &def); err != nil {
		return nil, &ParseError{Detail: err.Error(), Raw: content}
	}
	def.Category = formula.NormalizeCategory(def.Category)
	for i := range def.Variables {
		if def.Variables[i].Type == "" {
			def.Variables[i].Type = models.VariableNumber
		}
		if def.Variables[i].Label == "" {
			def.Variables[i].Label = def.Variables[i].Name
		}
	}

	if err := formula.ValidateDefinition(def); err != nil {
		return nil, &ParseError{Detail: err.Error(), Raw: content}
	}
	return &def, nil
}

func validateReply(data []byte) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(replySchema)
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compiling reply schema: %w", err)
	}

	value := ctx.CompileBytes(data)
	if err := value.Err(); err != nil {
		return fmt.Errorf("reading reply: %w", err)
	}

	unified := schema.LookupPath(cue.ParsePath("#Calculator")).Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("missing required fields in calculator data: %w", err)
	}
	return nil
}
