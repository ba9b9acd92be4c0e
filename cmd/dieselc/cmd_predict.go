package main

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newPredictCmd() *cobra.Command {
	var axiom string
	cmd := &cobra.Command{
		Use:   "predict <input> <offset>",
		Short: "List the completion proposals admissible at offset within input",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			offset, err := strconv.ParseUint(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("predict: invalid offset %q: %w", args[1], err)
			}
			engine, err := newEngine()
			if err != nil {
				return err
			}
			res, err := engine.Predict(args[0], offset, axiom)
			if err != nil {
				return fmt.Errorf("predict: %w", err)
			}
			if len(res.Proposals) == 0 {
				pterm.Info.Println("no proposals")
				return nil
			}
			for _, p := range res.Proposals {
				pterm.Println(fmt.Sprintf("%q  replace=%v  element=%s", p.Text, p.Replace, p.Element))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&axiom, "axiom", "", "axiom name prefix (default: grammar's first axiom)")
	return cmd
}
