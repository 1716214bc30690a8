// Copyright (c) 2025 The boho-calc-flow Authors.
// Licensed under the MIT License. See LICENSE.

package cli

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/Ridhi-Vadlamudi/boho-calc-flow/formula"
	"github.com/Ridhi-Vadlamudi/boho-calc-flow/models"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	File string
	Sets []string
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Evaluate a calculator definition",
		Long: `Evaluate a calculator definition read from a YAML or JSON file.
Variables not given with --set use their default values.

Example:
  calcctl run -f interest.yaml --set principal=2000 --set rate=3.5`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newFormatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			return runDefinition(opts, out)
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "calculator definition (YAML or JSON)")
	cmd.Flags().StringArrayVar(&opts.Sets, "set", nil, "input value as name=value (repeatable)")
	cmd.MarkFlagRequired("file")

	return cmd
}

func runDefinition(opts *RunOptions, out *OutputFormatter) error {
	def, err := loadDefinition(opts.File)
	if err != nil {
		return out.Fail(err)
	}

	inputs, err := parseSets(opts.Sets)
	if err != nil {
		return out.Fail(err)
	}
	for name := range inputs {
		if !hasVariable(def, name) {
			out.VerboseLog("ignoring %q: not a variable of %s", name, def.Name)
		}
	}

	result, err := formula.Run(def, inputs)
	if err != nil {
		return out.Fail(WrapExitError(ExitFailure, "calculation failed", err))
	}

	resp := models.RunCalculatorResponse{
		Result:     result.Text,
		Value:      result.Value,
		Expression: formula.DescribeRun(def, inputs),
		Evaluated:  result.Evaluated,
	}

	return out.Success(resp, func(w io.Writer) {
		fmt.Fprintln(w, resp.Expression)
		fmt.Fprintf(w, "  = %s\n", resp.Evaluated)
		fmt.Fprintf(w, "  = %s\n", readable(resp.Value, resp.Result))
	})
}

// loadDefinition reads a calculator definition. YAML is a superset of
// JSON, so the generator's JSON output loads as well.
func loadDefinition(path string) (models.CalculatorDefinition, error) {
	var def models.CalculatorDefinition

	data, err := os.ReadFile(path)
	if err != nil {
		return def, WrapExitError(ExitCommandError, "failed to read definition", err)
	}
	if err := yaml.Unmarshal(data, &def); err != nil {
		return def, WrapExitError(ExitCommandError, "failed to parse definition", err)
	}

	for i := range def.Variables {
		if def.Variables[i].Type == "" {
			def.Variables[i].Type = models.VariableNumber
		}
		if def.Variables[i].Label == "" {
			def.Variables[i].Label = def.Variables[i].Name
		}
	}
	return def, nil
}

func parseSets(sets []string) (map[string]float64, error) {
	inputs := make(map[string]float64, len(sets))
	for _, s := range sets {
		name, raw, ok := strings.Cut(s, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, NewExitError(ExitCommandError, fmt.Sprintf("invalid --set %q: want name=value", s))
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, fmt.Sprintf("invalid value for %s", name), err)
		}
		inputs[name] = v
	}
	return inputs, nil
}

func hasVariable(def models.CalculatorDefinition, name string) bool {
	for _, v := range def.Variables {
		if v.Name == name {
			return true
		}
	}
	return false
}

// readable appends a digit-grouped form to large results.
func readable(value float64, text string) string {
	if math.Abs(value) < 10000 || math.Abs(value) >= 1e21 {
		return text
	}
	return fmt.Sprintf("%s (%s)", text, humanize.CommafWithDigits(value, 2))
}
