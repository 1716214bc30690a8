package main

import (
	"fmt"
	"os"

	"github.com/Ridhi-Vadlamudi/boho-calc-flow/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
