package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/fortuna/courtside/internal/repl"
)

func runREPL(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	terminal := repl.NewTerminal()
	defer terminal.Close()

	return repl.New(terminal, os.Stdout, a.queries).Run(ctx)
}
