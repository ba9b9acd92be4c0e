package main

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/scala-steward/diesel-core/forest"
	"github.com/spf13/cobra"
)

func newParseCmd() *cobra.Command {
	var axiom string
	cmd := &cobra.Command{
		Use:   "parse <input>",
		Short: "Parse input against the calculator grammar and print the resolved tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := newEngine()
			if err != nil {
				return err
			}
			res, err := engine.Parse(args[0], axiom)
			if err != nil {
				return fmt.Errorf("parse: %w", err)
			}
			for _, m := range res.Markers {
				printMarker(m)
			}
			if res.Tree == nil {
				pterm.Error.Println("no tree produced")
				return nil
			}
			printTree(res.Tree.Root, 0)
			return nil
		},
	}
	cmd.Flags().StringVar(&axiom, "axiom", "", "axiom name prefix (default: grammar's first axiom)")
	return cmd
}

func printTree(n *forest.GenericNode, depth int) {
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}
	label := n.Symbol
	if n.Element != "" {
		label += " #" + n.Element
	}
	line := fmt.Sprintf("%s%s %v", indent, label, n.Span)
	if n.IsTerminal || len(n.Children) == 0 {
		line += fmt.Sprintf(" = %v", n.Value)
	}
	if n.Ambiguous {
		line += " (ambiguous)"
	}
	pterm.Println(line)
	for _, c := range n.Children {
		printTree(c, depth+1)
	}
}
