// Copyright (c) 2025 The boho-calc-flow Authors.
// Licensed under the MIT License. See LICENSE.

package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/Ridhi-Vadlamudi/boho-calc-flow/generator"
	"github.com/Ridhi-Vadlamudi/boho-calc-flow/models"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
	Input   string
	Output  string
	Model   string
	Timeout time.Duration
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "generate <prompt>...",
		Short: "Draft a calculator definition with the language model",
		Long: `Draft a calculator definition with the language model and print it as
YAML, ready for "calcctl run -f".

Reads OPENAI_API_KEY, OPENAI_BASE_URL and OPENAI_MODEL from the
environment or the .env file.

Example:
  calcctl generate "body mass index" --input "metric units" -o bmi.yaml`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newFormatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			return generateDefinition(cmd.Context(), opts, out, strings.Join(args, " "))
		},
	}

	cmd.Flags().StringVar(&opts.Input, "input", "", "additional details for the model")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the definition to this file instead of stdout")
	cmd.Flags().StringVar(&opts.Model, "model", "", "model name (default $OPENAI_MODEL or "+generator.DefaultModel+")")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 60*time.Second, "request timeout")

	return cmd
}

func generateDefinition(ctx context.Context, opts *GenerateOptions, out *OutputFormatter, prompt string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	model := opts.Model
	if model == "" {
		model = os.Getenv("OPENAI_MODEL")
	}
	client := generator.New(generator.Config{
		APIKey:  os.Getenv("OPENAI_API_KEY"),
		BaseURL: os.Getenv("OPENAI_BASE_URL"),
		Model:   model,
	})

	out.VerboseLog("asking model for %q", generator.UserMessage(prompt, opts.Input))
	def, err := client.Generate(ctx, prompt, opts.Input)
	if err != nil {
		return out.Fail(generateError(out, err))
	}

	encoded, err := encodeDefinition(def)
	if err != nil {
		return out.Fail(WrapExitError(ExitFailure, "failed to encode definition", err))
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, encoded, 0o644); err != nil {
			return out.Fail(WrapExitError(ExitCommandError, "failed to write definition", err))
		}
	}

	return out.Success(def, func(w io.Writer) {
		if opts.Output != "" {
			fmt.Fprintf(w, "✓ %s written to %s\n", def.Name, opts.Output)
			return
		}
		w.Write(encoded)
	})
}

func generateError(out *OutputFormatter, err error) error {
	var parseErr *generator.ParseError
	switch {
	case errors.Is(err, generator.ErrMissingAPIKey):
		return NewExitError(ExitCommandError, "OPENAI_API_KEY is not set")
	case errors.Is(err, generator.ErrEmptyPrompt):
		return NewExitError(ExitCommandError, "prompt is required")
	case errors.As(err, &parseErr):
		out.VerboseLog("model reply:\n%s", parseErr.Raw)
	}
	return WrapExitError(ExitFailure, "generation failed", err)
}

func encodeDefinition(def *models.CalculatorDefinition) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(def); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
