/*
Package calcgrammar is a small arithmetic grammar used by tests across the
module and by the cmd/dieselc demo, grounded on the expression grammar
gorgo's terex/terexlang/trepl/repl.go builds for its REPL sandbox
(makeExprGrammar), extended with a "pi" constant:

	Expr   ➞ Expr + Term  |  Term
	Term   ➞ number  |  pi  |  ( Expr )

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package calcgrammar

import (
	"math"

	diesel "github.com/scala-steward/diesel-core"
	"github.com/scala-steward/diesel-core/bnf"
)

// Token types recognized by this grammar's lexers.
const (
	TokNumber diesel.TokType = iota + 1
	TokPlus
	TokLParen
	TokRParen
	TokPi
)

// New builds the calculator grammar, with "Expr" as its sole axiom.
// Reduction actions produce float64 values; Term leaves carry the parsed
// number (or math.Pi) directly as their value.
func New() (*bnf.Grammar, error) {
	b := bnf.NewBuilder("calc")

	b.LHS("Expr").Axiom().N("Expr").T("+", int(TokPlus)).N("Term").Element("Add").
		Action(func(ctx bnf.ActionContext, rhs []interface{}) (interface{}, error) {
			return rhs[0].(float64) + rhs[2].(float64), nil
		}).End()

	b.LHS("Expr").N("Term").
		Action(func(ctx bnf.ActionContext, rhs []interface{}) (interface{}, error) {
			return rhs[0], nil
		}).End()

	b.LHS("Term").T("0", int(TokNumber)).Element("Number").
		Action(func(ctx bnf.ActionContext, rhs []interface{}) (interface{}, error) {
			// A number inserted or substituted by error recovery carries no
			// parsed value; it stands for the terminal's default text "0".
			if v, ok := rhs[0].(float64); ok {
				return v, nil
			}
			return 0.0, nil
		}).End()

	b.LHS("Term").T("pi", int(TokPi)).Element("Pi").
		Action(func(bnf.ActionContext, []interface{}) (interface{}, error) {
			return math.Pi, nil
		}).End()

	b.LHS("Term").T("(", int(TokLParen)).N("Expr").T(")", int(TokRParen)).
		Action(func(ctx bnf.ActionContext, rhs []interface{}) (interface{}, error) {
			return rhs[1], nil
		}).End()

	return b.Grammar()
}
