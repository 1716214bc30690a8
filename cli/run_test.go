// Copyright (c) 2025 The boho-calc-flow Authors.
// Licensed under the MIT License. See LICENSE.

package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/Ridhi-Vadlamudi/boho-calc-flow/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const interestYAML = `name: Simple Interest Calculator
description: Calculate simple interest
formula: principal * rate * time / 100
category: Finance
variables:
  - name: principal
    label: Principal Amount
    defaultValue: 1000
    unit: $
  - name: rate
    label: Interest Rate
    defaultValue: 5
  - name: time
    label: Time Period
    defaultValue: 1
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runRun(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewRunCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{}, args...))
	err := cmd.Execute()
	return buf.String(), err
}

func TestRunCommandFlags(t *testing.T) {
	cmd := NewRunCommand(&RootOptions{})

	fileFlag := cmd.Flags().Lookup("file")
	require.NotNil(t, fileFlag)
	assert.Equal(t, "f", fileFlag.Shorthand)
	require.NotNil(t, cmd.Flags().Lookup("set"))
}

func TestRunDefaults(t *testing.T) {
	path := writeFile(t, "interest.yaml", interestYAML)

	output, err := runRun(t, "text", "-f", path)
	require.NoError(t, err)
	assert.Equal(t, "Simple Interest Calculator: Principal Amount=1000, Interest Rate=5, Time Period=1\n"+
		"  = 1000 * 5 * 1 / 100\n"+
		"  = 50\n", output)
}

func TestRunWithInputs(t *testing.T) {
	path := writeFile(t, "interest.yaml", interestYAML)

	output, err := runRun(t, "json", "-f", path, "--set", "principal=2000", "--set", "rate=3.5", "--set", "time=2")
	require.NoError(t, err)

	var resp struct {
		Status string                       `json:"status"`
		Data   models.RunCalculatorResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "140", resp.Data.Result)
	assert.Equal(t, 140.0, resp.Data.Value)
	assert.Equal(t, "2000 * 3.5 * 2 / 100", resp.Data.Evaluated)
}

func TestRunLargeResultIsGrouped(t *testing.T) {
	path := writeFile(t, "interest.yaml", interestYAML)

	output, err := runRun(t, "text", "-f", path, "--set", "principal=1234567", "--set", "rate=100")
	require.NoError(t, err)
	assert.Contains(t, output, "  = 1234567 (1,234,567)\n")
}

func TestRunJSONDefinition(t *testing.T) {
	path := writeFile(t, "area.json", `{
  "name": "Circle Area",
  "description": "Area of a circle",
  "formula": "pi * r ^ 2",
  "variables": [{"name": "r", "label": "Radius", "type": "number", "defaultValue": 1}],
  "category": "Math"
}`)

	output, err := runRun(t, "text", "-f", path, "--set", "r=2")
	require.NoError(t, err)
	assert.Contains(t, output, "Circle Area: Radius=2\n")
	assert.Contains(t, output, "  = 12.566370614359172\n")
}

func TestRunErrors(t *testing.T) {
	path := writeFile(t, "interest.yaml", interestYAML)
	broken := writeFile(t, "broken.yaml", "name: Broken\nformula: principal * \nvariables:\n  - name: principal\n")

	testCases := []struct {
		name     string
		args     []string
		exitCode int
		contains string
	}{
		{"missing file flag", []string{}, ExitFailure, "required flag"},
		{"unreadable file", []string{"-f", "/nonexistent/def.yaml"}, ExitCommandError, "failed to read definition"},
		{"bad set syntax", []string{"-f", path, "--set", "principal"}, ExitCommandError, "want name=value"},
		{"bad set value", []string{"-f", path, "--set", "rate=abc"}, ExitCommandError, "invalid value for rate"},
		{"formula error", []string{"-f", broken}, ExitFailure, "calculation failed"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := runRun(t, "text", tc.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.contains)
			assert.Equal(t, tc.exitCode, GetExitCode(err))
		})
	}
}

func TestParseSets(t *testing.T) {
	inputs, err := parseSets([]string{"a=1", " b = 2.5 ", "c=-3"})
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"a": 1, "b": 2.5, "c": -3}, inputs)

	_, err = parseSets([]string{"=1"})
	require.Error(t, err)
}
