// Copyright (c) 2025 The boho-calc-flow Authors.
// Licensed under the MIT License. See LICENSE.

package cli

import (
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/Ridhi-Vadlamudi/boho-calc-flow/calc"
	"github.com/Ridhi-Vadlamudi/boho-calc-flow/models"
	"github.com/spf13/cobra"
)

// NewKeysCommand creates the keys command.
func NewKeysCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys <key>...",
		Short: "Replay keypad presses on a fresh calculator",
		Long: `Replay keypad presses on a fresh calculator and print the display.

Each argument is either a single key name (7, +, x, =, clear, backspace)
or a compact run of one-character keys that is split up.

Example:
  calcctl keys 12.5+3=
  calcctl keys 2 + 3 x 4 =`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newFormatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			return pressKeys(out, args)
		},
	}

	return cmd
}

func pressKeys(out *OutputFormatter, args []string) error {
	acc := calc.New()
	for _, arg := range args {
		err := acc.Press(arg)
		if err == nil {
			continue
		}
		if !errors.Is(err, calc.ErrUnknownKey) || utf8.RuneCountInString(arg) < 2 {
			return out.Fail(WrapExitError(ExitCommandError, "invalid key sequence", err))
		}
		if err := acc.Feed(calc.SplitKeys(arg)); err != nil {
			return out.Fail(WrapExitError(ExitCommandError, "invalid key sequence", err))
		}
		out.VerboseLog("split %q into single keys", arg)
	}

	resp := models.KeypadResponse{
		Display:         acc.Display(),
		PendingOperator: acc.PendingOperator(),
		Expression:      acc.LastExpression(),
		Result:          acc.LastResult(),
	}

	return out.Success(resp, func(w io.Writer) {
		fmt.Fprintln(w, resp.Display)
		if resp.Expression != "" {
			fmt.Fprintf(w, "last: %s = %s\n", resp.Expression, resp.Result)
		}
		if resp.PendingOperator != "" {
			fmt.Fprintf(w, "pending: %s\n", resp.PendingOperator)
		}
	})
}
