package main

import (
	"github.com/scala-steward/diesel-core/lsp"
	"github.com/spf13/cobra"
)

func newLSPCmd() *cobra.Command {
	var axiom string
	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server over stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := newEngine()
			if err != nil {
				return err
			}
			server := lsp.NewServer(engine, axiom, "0.1.0")
			return server.RunStdio()
		},
	}
	cmd.Flags().StringVar(&axiom, "axiom", "", "axiom name prefix (default: grammar's first axiom)")
	return cmd
}
