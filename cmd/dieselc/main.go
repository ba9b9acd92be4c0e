/*
Command dieselc is the reference driver for the calculator demo grammar
(internal/calcgrammar): parse, predict and repl subcommands exercise
facade.Engine directly from text given on the command line or read
interactively, and lsp starts the same engine as a Language Server
Protocol server over stdio.

Grounded on dhamidi/sai's cmd/javalyzer/main.go for the cobra root-command
layout (one rootCmd, flag-bound subcommands, RunE returning a wrapped
error) and cmd/sai/cmd_lsp.go for the lsp subcommand shape; the repl
subcommand follows gorgo's terex/terexlang/trepl/repl.go (readline +
pterm, Welcome banner, Eval-per-line loop).

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package main

import (
	"os"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/scala-steward/diesel-core/facade"
	"github.com/scala-steward/diesel-core/internal/calcgrammar"
	"github.com/scala-steward/diesel-core/lex"
	"github.com/spf13/cobra"
)

func tracer() tracing.Trace {
	return tracing.Select("diesel.cmd")
}

// lexerKind selects which internal/calcgrammar Tokenizer newEngine wires
// up, bound to the root command's --lexer flag.
var lexerKind string

func newEngine() (*facade.Engine, error) {
	g, err := calcgrammar.New()
	if err != nil {
		return nil, err
	}
	switch lexerKind {
	case "lexmachine":
		return facade.New(g, func(src string) lex.Tokenizer {
			lx, err := calcgrammar.NewLexMachineLexer(src)
			if err != nil {
				tracer().Errorf("lexmachine: %v", err)
				return calcgrammar.NewLexer(src)
			}
			return lx
		}), nil
	default:
		return facade.New(g, func(src string) lex.Tokenizer { return calcgrammar.NewLexer(src) }), nil
	}
}

func main() {
	gtrace.SyntaxTracer = gologadapter.New()
	tracer().SetTraceLevel(tracing.LevelError)

	rootCmd := &cobra.Command{
		Use:   "dieselc",
		Short: "Driver for the diesel parsing engine's calculator demo grammar",
	}

	var traceLevel string
	rootCmd.PersistentFlags().StringVar(&traceLevel, "trace", "Error", "trace level [Debug|Info|Error]")
	rootCmd.PersistentFlags().StringVar(&lexerKind, "lexer", "scanner", "tokenizer backend [scanner|lexmachine]")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		tracer().SetTraceLevel(tracing.TraceLevelFromString(traceLevel))
	}

	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newPredictCmd())
	rootCmd.AddCommand(newReplCmd())
	rootCmd.AddCommand(newLSPCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
