package earley

import (
	"fmt"

	diesel "github.com/scala-steward/diesel-core"
	"github.com/scala-steward/diesel-core/marker"
)

// recover implements spec.md §4.1's two-phase repair: whenever a chart
// still has states stuck on a terminal after ordinary scan/predict/
// complete has reached closure, it considers up to three repairs per
// stuck state. Repairs are registered as ordinary States with Kind
// ErrorRecovery; the recognizer's addState bookkeeping (minimal
// SyntacticErrors cost, deduplicated BackPtrs) ensures only the cheapest
// repairs survive into the final Result.
func (r *Recognizer) recover(res *Result, i uint64, tok diesel.Token) {
	chart := res.Charts[i]
	known := tok != nil && res.Grammar.Terminal(int(tok.TokType())) != nil
	if tok != nil && !known {
		res.ErrorTokens = append(res.ErrorTokens, LexicalError{At: i, Tok: tok})
		res.addMarker(marker.New(tok.Span(), marker.UnknownToken,
			fmt.Sprintf("unrecognized token %q", tok.Lexeme())))
	}

	stuck := chart.stuckOn(tok)
	for _, st := range stuck {
		expected := st.NextSymbol()

		if tok == nil || known {
			// Repair 1: insertion — pretend the expected terminal
			// appeared with zero width; the advanced state stays at the
			// same chart so it can still scan tok (if any) on the next
			// symbol. At end-of-input (tok == nil) this is the only
			// repair available, since there is no token left to mutate
			// or delete.
			ins := st.Advance()
			res.addState(i, ins, ErrorRecovery, BackPtr{
				Predecessor: st,
				Causal:      InsertedTokenValue{At: i, Sym: expected},
			})
		}

		if tok == nil {
			continue
		}

		if known {
			// Repair 3: mutation — consume tok as if it had been the
			// expected terminal.
			mut := st.Advance()
			mut.End = i + 1
			res.addState(i+1, mut, ErrorRecovery, BackPtr{
				Predecessor: st,
				Causal:      MutationTokenValue{At: i, Tok: tok, Expected: expected},
			})
		}

		// Repair 2: deletion — skip tok, dot unchanged. Also the only
		// repair considered for a token matching no terminal at all.
		del := st
		del.End = i + 1
		res.addState(i+1, del, ErrorRecovery, BackPtr{
			Predecessor: st,
			Causal:      DeletedTokenValue{At: i, Tok: tok},
		})
	}
}

// stuckOn returns every incomplete state in c expecting a terminal that
// tok does not satisfy.
func (c *Chart) stuckOn(tok diesel.Token) []State {
	var out []State
	for _, st := range c.States() {
		if st.IsCompleted() {
			continue
		}
		sym := st.NextSymbol()
		if !sym.IsTerminal() {
			continue
		}
		if tok != nil && int(tok.TokType()) == sym.TokenID() {
			continue
		}
		out = append(out, st)
	}
	return out
}
