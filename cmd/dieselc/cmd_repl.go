package main

import (
	"fmt"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"
	"github.com/scala-steward/diesel-core/facade"
	"github.com/spf13/cobra"
)

func newReplCmd() *cobra.Command {
	var axiom string
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive read-eval-print loop over the calculator grammar",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := newEngine()
			if err != nil {
				return err
			}
			return runREPL(engine, axiom)
		},
	}
	cmd.Flags().StringVar(&axiom, "axiom", "", "axiom name prefix (default: grammar's first axiom)")
	return cmd
}

func runREPL(engine *facade.Engine, axiom string) error {
	pterm.Info.Println("Welcome to dieselc")
	rl, err := readline.New("diesel> ")
	if err != nil {
		return fmt.Errorf("repl: %w", err)
	}
	defer rl.Close()

	tracer().Infof("Quit with <ctrl>D")
	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF on <ctrl>D
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		evalLine(engine, axiom, line)
	}
	pterm.Println("Good bye!")
	return nil
}

func evalLine(engine *facade.Engine, axiom, line string) {
	res, err := engine.Parse(line, axiom)
	if err != nil {
		pterm.Error.Println(err.Error())
		return
	}
	for _, m := range res.Markers {
		printMarker(m)
	}
	if res.Tree == nil {
		pterm.Error.Println("no tree produced")
		return
	}
	pterm.Info.Println(fmt.Sprintf("= %v", res.Tree.Root.Value))
}
