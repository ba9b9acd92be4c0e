package earley

import (
	"github.com/google/uuid"
	diesel "github.com/scala-steward/diesel-core"
	"github.com/scala-steward/diesel-core/bnf"
	"github.com/scala-steward/diesel-core/lex"
	"github.com/scala-steward/diesel-core/marker"
)

// LexicalError records an input token whose type matches no terminal
// declared anywhere in the grammar (spec.md §7, "UnknownToken").
type LexicalError struct {
	At  uint64
	Tok diesel.Token
}

// Result is the persistent record of one recognition run: every chart,
// the token stream that produced them, whether the axiom was accepted,
// and the markers/lexical errors collected along the way (spec.md §3).
type Result struct {
	ID      string
	Grammar *bnf.Grammar
	Axiom   *bnf.NonTerminal
	Tokens  []diesel.Token
	Charts  []*Chart
	Success bool

	ErrorTokens []LexicalError
	Markers     []marker.Marker
}

func (res *Result) addMarker(m marker.Marker) { res.Markers = append(res.Markers, m) }

func (res *Result) costOf(st State) int {
	ctx := res.Charts[st.End].ctx[st]
	if ctx == nil {
		return 0
	}
	return ctx.SyntacticErrors
}

func (res *Result) bpCost(bp BackPtr) int {
	cost := 0
	if bp.Predecessor != (State{}) {
		cost += res.costOf(bp.Predecessor)
	}
	switch c := bp.Causal.(type) {
	case State:
		cost += res.costOf(c)
	case TokenValue:
		// no extra cost: an ordinary scan
	case InsertedTokenValue, DeletedTokenValue, MutationTokenValue:
		cost++
	}
	return cost
}

// addState idempotently inserts st into chart[chartIdx], updating its
// StateContext per spec.md §3: Kind only ever improves, and BackPtrs are
// kept only for the minimal known SyntacticErrors cost. It returns true
// if st was new to the chart.
func (res *Result) addState(chartIdx uint64, st State, kind Kind, bp BackPtr) bool {
	chart := res.Charts[chartIdx]
	ctx, existed := chart.ctx[st]
	isNew := !existed
	if isNew {
		initial := infiniteCost
		if st.Dot == 0 {
			initial = 0
		}
		ctx = &StateContext{Kind: kind, SyntacticErrors: initial}
		chart.ctx[st] = ctx
		chart.queue.Add(st)
		if !st.IsCompleted() {
			if nt := st.NextSymbol().NonTerminal(); nt != nil {
				chart.byNextNonTerminal[nt.Name] = append(chart.byNextNonTerminal[nt.Name], st)
			}
		}
	}
	if kind < ctx.Kind {
		ctx.Kind = kind
	}
	if !bp.isZero() {
		cost := res.bpCost(bp)
		switch {
		case cost < ctx.SyntacticErrors:
			ctx.SyntacticErrors = cost
			ctx.BackPtrs = []BackPtr{bp}
		case cost == ctx.SyntacticErrors:
			dup := false
			for _, have := range ctx.BackPtrs {
				if have == bp {
					dup = true
					break
				}
			}
			if !dup {
				ctx.BackPtrs = append(ctx.BackPtrs, bp)
			}
		}
	}
	return isNew
}

// checkAccept reports whether some completed production of axiom spans
// the whole input in a non-Incompatible state.
func (res *Result) checkAccept(axiom *bnf.NonTerminal) bool {
	last := res.Charts[len(res.Charts)-1]
	for _, p := range axiom.Productions {
		for candidate, ctx := range last.ctx {
			if candidate.Prod == p && candidate.Begin == 0 && candidate.Dot == p.Len() && ctx.Kind != Incompatible {
				return true
			}
		}
	}
	return false
}

// AcceptingStates returns every completed, non-Incompatible axiom state
// spanning the whole input — the forest package's entry points for
// building a parse forest from this Result.
func (res *Result) AcceptingStates() []State {
	last := res.Charts[len(res.Charts)-1]
	var out []State
	for _, p := range res.Axiom.Productions {
		for candidate, ctx := range last.ctx {
			if candidate.Prod == p && candidate.Begin == 0 && candidate.Dot == p.Len() && ctx.Kind != Incompatible {
				out = append(out, candidate)
			}
		}
	}
	return out
}

// Context exposes the StateContext recorded for st (st must live in one
// of res.Charts), or nil if st was never derived.
func (res *Result) Context(st State) *StateContext {
	return res.Charts[st.End].Context(st)
}

// Options configures a Recognizer.
type Options struct {
	// Recover enables error recovery (insertion/deletion/mutation). When
	// false, a stuck chart simply fails to progress and Parse returns a
	// Result with Success == false and no recovered derivation.
	Recover bool
	// MaxErrors bounds how many recovered terminals a single derivation
	// may carry; 0 means unlimited. Not consulted by the recognizer
	// itself — forest.ReducersWithErrorBudget reads the same value to
	// configure FewerErrorPossible, so recovery and reduction agree on
	// one budget (see facade.WithConfig).
	MaxErrors int
}

// DefaultOptions returns the Options a Recognizer uses when none are
// given: recovery on, no error budget.
func DefaultOptions() Options { return Options{Recover: true} }

// Recognizer runs the Earley algorithm against a fixed Grammar.
type Recognizer struct {
	g    *bnf.Grammar
	opts Options
}

// New creates a Recognizer for grammar g.
func New(g *bnf.Grammar, opts ...Options) *Recognizer {
	o := DefaultOptions()
	if len(opts) > 0 {
		o = opts[0]
	}
	return &Recognizer{g: g, opts: o}
}

// Parse runs the recognizer over every token lx produces (read eagerly up
// to and including the end-of-stream token), attempting to derive axiom
// from position 0. It always returns a Result; Result.Success reports
// whether a derivation without unrecovered errors was found. A non-nil
// error is only returned for configuration problems (unknown axiom).
func (r *Recognizer) Parse(lx lex.Tokenizer, axiomName string) (*Result, error) {
	axiom, err := r.g.Axiom(axiomName)
	if err != nil {
		return nil, err
	}
	id := uuid.NewString()
	tracer().Debugf("parse[%s] starting, axiom=%s", id, axiom.Name)

	var tokens []diesel.Token
	for {
		tok := lx.NextToken()
		if tok.TokType() == diesel.EOS {
			break
		}
		tokens = append(tokens, tok)
	}
	n := uint64(len(tokens))
	tracer().Debugf("parse[%s]: %d tokens", id, n)

	res := &Result{ID: id, Grammar: r.g, Axiom: axiom, Tokens: tokens, Charts: make([]*Chart, n+1)}
	for i := range res.Charts {
		res.Charts[i] = newChart(uint64(i))
	}
	for _, p := range axiom.Productions {
		res.addState(0, State{Prod: p, Begin: 0, End: 0, Dot: 0, Feature: p.Feat}, Kernel, BackPtr{})
	}

	for i := uint64(0); i < n; i++ {
		res.Charts[i+1].Tok = tokens[i]
		r.processChart(res, i, tokens[i])
	}
	r.processChart(res, n, nil)

	res.Success = res.checkAccept(axiom)
	tracer().Infof("parse[%s] done: success=%v, %d charts", id, res.Success, len(res.Charts))
	return res, nil
}

// processChart drains chart i to closure (predict/scan/complete over the
// growing work queue), then, if recovery is enabled, always gives recover
// a chance to run — including at end-of-input, where tok is nil and only
// the Insertion repair applies (spec.md §4.1/§8 Scenario S4) — and
// re-drains so the newly inserted repair states themselves get
// predicted/completed (an insertion repair may immediately complete a
// production, or expect a non-terminal next; without a second drain those
// consequences would never reach the chart). recover itself is a no-op
// when chart i has no state actually stuck.
func (r *Recognizer) processChart(res *Result, i uint64, tok diesel.Token) {
	r.drainChart(res, i, tok)
	if r.opts.Recover {
		before := res.Charts[i].queue.Size()
		r.recover(res, i, tok)
		if res.Charts[i].queue.Size() > before {
			r.drainChart(res, i, tok)
		}
	}
}

// drainChart runs predict/scan/complete over chart i's work queue until it
// drains, i.e. until no dispatch adds a new state.
func (r *Recognizer) drainChart(res *Result, i uint64, tok diesel.Token) {
	chart := res.Charts[i]
	chart.queue.IterateOnce()
	for chart.queue.Next() {
		st := chart.queue.Item().(State)
		r.scan(res, i, st, tok)
		r.predict(res, i, st)
		r.complete(res, i, st)
	}
}

func (r *Recognizer) predict(res *Result, i uint64, st State) {
	if st.IsCompleted() {
		return
	}
	sym := st.NextSymbol()
	if sym.IsTerminal() {
		return
	}
	nt := sym.NonTerminal()
	for _, p := range nt.Productions {
		// An epsilon production (Len() == 0) is, by definition, already
		// completed the instant it's added: addState enqueues it
		// regardless, so complete() dispatches it in this same drain and
		// merges/advances every state (including st) waiting on nt —
		// there is no need (and no sound way, without duplicating
		// complete()'s own Feature-merge/Incompatible bookkeeping) to
		// eagerly advance st here. A non-terminal that is nullable only
		// through a longer chain (A -> B, B -> ε, …) reaches the same
		// outcome transitively: each link completes in turn and
		// complete() propagates the merge up to st.
		res.addState(i, State{Prod: p, Begin: i, End: i, Dot: 0, Feature: p.Feat}, Kernel, BackPtr{})
	}
}

func (r *Recognizer) scan(res *Result, i uint64, st State, tok diesel.Token) {
	if st.IsCompleted() || tok == nil {
		return
	}
	sym := st.NextSymbol()
	if !sym.IsTerminal() || int(tok.TokType()) != sym.TokenID() {
		return
	}
	adv := st.Advance()
	adv.End = i + 1
	bp := BackPtr{Predecessor: st, Causal: TokenValue{At: i, Tok: tok}}
	res.addState(i+1, adv, Kernel, bp)
}

func (r *Recognizer) complete(res *Result, i uint64, st State) {
	if !st.IsCompleted() {
		return
	}
	nt := st.Prod.Rule
	begin := res.Charts[st.Begin]
	for _, waiting := range begin.statesExpecting(nt.Name) {
		merged, ok := waiting.Feature.Merge(waiting.Dot, st.Feature)
		adv := waiting.Advance()
		adv.End = st.End
		bp := BackPtr{Predecessor: waiting, Causal: st}
		if !ok || bnf.IsIncompatible(merged) {
			adv.Feature = bnf.Incompatible
			res.addState(i, adv, Incompatible, bp)
			continue
		}
		adv.Feature = merged
		res.addState(i, adv, Kernel, bp)
	}
}
