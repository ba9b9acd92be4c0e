/*
Package facade is the thin cross-language surface spec.md §1 names as an
external collaborator whose interface only is specified (§6): it wires a
Grammar and a lexer factory to the recognizer, forest navigator and
completion processor behind two calls, Parse and Predict, so a CLI or
language server never has to touch bnf/earley/forest/completion
directly.

Grounded on gorgo's terex/terexlang/trepl/repl.go Parse() helper and its
makeExprGrammar-and-friends wiring (grammar → scanner → parser → tree in
one call); this package generalizes that pattern from one hard-coded
demo grammar to any *bnf.Grammar plus lexer factory a caller supplies.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package facade

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/npillmayer/schuko/tracing"
	"github.com/scala-steward/diesel-core/bnf"
	"github.com/scala-steward/diesel-core/completion"
	"github.com/scala-steward/diesel-core/config"
	"github.com/scala-steward/diesel-core/earley"
	"github.com/scala-steward/diesel-core/forest"
	"github.com/scala-steward/diesel-core/lex"
	"github.com/scala-steward/diesel-core/marker"
)

func tracer() tracing.Trace {
	return tracing.Select("diesel.facade")
}

// NewLexer creates a Tokenizer over src. Engine calls this once per
// Parse/Predict so every call gets an independent token stream, matching
// spec.md §5's "concurrent parses require independent Result instances".
type NewLexer func(src string) lex.Tokenizer

// Engine binds an immutable Grammar and a lexer factory together with
// the options (recovery behavior, reducer chain, completion registry)
// every Parse/Predict call on it shares.
type Engine struct {
	grammar    *bnf.Grammar
	newLexer   NewLexer
	recOpts    earley.Options
	reducers   []forest.Reducer
	completion *completion.Processor
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithRecognizerOptions overrides the default recognizer Options (error
// recovery on, no error budget).
func WithRecognizerOptions(o earley.Options) Option {
	return func(e *Engine) { e.recOpts = o }
}

// WithReducers overrides the default reducer chain (forest.DefaultReducers).
func WithReducers(r ...forest.Reducer) Option {
	return func(e *Engine) { e.reducers = r }
}

// WithCompletionProcessor overrides the default completion.Processor
// (DefaultDelimiters, empty registry) — use this to register
// per-DslElement CompletionProviders/Filters (spec.md §4.3).
func WithCompletionProcessor(p *completion.Processor) Option {
	return func(e *Engine) { e.completion = p }
}

// WithConfig applies a loaded config.Config's recovery/completion
// budgets and delimiter set, building the recognizer Options and
// completion.Processor from it. Later options still override individual
// pieces this sets, since Option application order is the call order.
func WithConfig(cfg config.Config) Option {
	return func(e *Engine) {
		e.recOpts = earley.Options{Recover: true, MaxErrors: cfg.MaxRecoveryErrors}
		e.reducers = forest.ReducersWithErrorBudget(cfg.MaxRecoveryErrors)
		delims := cfg.Delimiters
		if delims == "" {
			delims = completion.DefaultDelimiters
		}
		e.completion = completion.NewProcessor(
			completion.WithDelimiters(delims),
			completion.WithMaxDepth(cfg.MaxCompletionDepth),
		)
	}
}

// New creates an Engine over a finished Grammar, using newLexer to
// tokenize each Parse/Predict call's input text.
func New(g *bnf.Grammar, newLexer NewLexer, opts ...Option) *Engine {
	e := &Engine{
		grammar:    g,
		newLexer:   newLexer,
		recOpts:    earley.DefaultOptions(),
		completion: completion.NewProcessor(),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// resolveAxiom implements spec.md §6's axiom lookup: an empty name
// resolves to the grammar's first declared axiom (deferred to
// bnf.Grammar.Axiom's own default), a non-empty name is matched as a
// prefix against the declared axiom names, and no match is a facade
// error (spec.md §7, "MissingAxiom").
func (e *Engine) resolveAxiom(name string) (string, error) {
	if name == "" {
		return "", nil
	}
	for _, n := range e.grammar.AxiomNames() {
		if strings.HasPrefix(n, name) {
			return n, nil
		}
	}
	return "", fmt.Errorf("facade: no axiom starts with %q", name)
}

// ParseResult is the facade's parse outcome: spec.md §6's
// `ParseResult { success, error?, markers, styles }`, plus the resolved
// tree for callers (the CLI, the LSP server) that need more than
// diagnostics.
type ParseResult struct {
	Success bool
	Error   error
	Markers []marker.Marker
	Styles  []marker.Style
	Tree    *forest.GenericTree
}

// Parse runs a full parse of text against axiomName (or the grammar's
// first axiom if empty) and resolves the result into a single tree.
//
// A non-nil returned error is reserved for configuration problems
// (spec.md §7: MissingAxiom, NoAST) and for errors raised by reduction
// Actions; syntactic problems never produce one — they surface as markers
// on the ParseResult. Success reports whether the recognizer accepted the
// input, which includes inputs it accepted after error recovery.
func (e *Engine) Parse(text string, axiomName string) (ParseResult, error) {
	axiom, err := e.resolveAxiom(axiomName)
	if err != nil {
		return ParseResult{}, err
	}
	rec := earley.New(e.grammar, e.recOpts)
	res, err := rec.Parse(e.newLexer(text), axiom)
	if err != nil {
		return ParseResult{}, err
	}
	out := ParseResult{Success: res.Success, Markers: res.Markers}
	f, err := forest.Build(res)
	if err == forest.ErrRejected {
		tracer().Infof("parse[%s]: no accepting derivation, %d lexical errors", res.ID, len(res.ErrorTokens))
		return out, nil
	}
	if err != nil {
		return ParseResult{}, err
	}
	nav := forest.NewNavigator(f, e.reducers...)
	tree, err := nav.Navigate()
	if err != nil {
		return ParseResult{}, fmt.Errorf("facade: %w", err)
	}
	if tree == nil {
		return ParseResult{}, fmt.Errorf("facade: parse succeeded but produced no tree (NoAST)")
	}
	out.Tree = tree
	out.Markers = mergeMarkers(res.Markers, tree.Markers)
	out.Styles = tree.Styles
	return out, nil
}

// PredictResult is spec.md §6's `PredictResult { success, error?,
// proposals }`.
type PredictResult struct {
	Success   bool
	Error     error
	Proposals []completion.Proposal
}

// Predict runs a parse of text and asks the completion processor for
// every proposal admissible at offset (spec.md §4.3), against axiomName
// (or the grammar's first axiom if empty).
func (e *Engine) Predict(text string, offset uint64, axiomName string) (PredictResult, error) {
	axiom, err := e.resolveAxiom(axiomName)
	if err != nil {
		return PredictResult{}, err
	}
	id := uuid.NewString()
	tracer().Debugf("predict[%s]: offset=%d axiom=%q", id, offset, axiom)
	rec := earley.New(e.grammar, e.recOpts)
	res, err := rec.Parse(e.newLexer(text), axiom)
	if err != nil {
		return PredictResult{}, err
	}
	proposals, err := e.completion.Complete(res, offset)
	if err != nil {
		return PredictResult{}, fmt.Errorf("facade: %w", err)
	}
	return PredictResult{Success: true, Proposals: proposals}, nil
}

// mergeMarkers appends tree markers (raised during navigation: ambiguity,
// semantic action errors, recovered-token markers re-derived per leaf)
// after the recognizer's own lexical-error markers, dropping any marker
// equal (same Span, Kind, Message and Severity) to one already kept.
func mergeMarkers(recognizerMarkers, treeMarkers []marker.Marker) []marker.Marker {
	seen := make(map[marker.Marker]bool, len(recognizerMarkers))
	out := make([]marker.Marker, 0, len(recognizerMarkers)+len(treeMarkers))
	for _, m := range recognizerMarkers {
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	for _, m := range treeMarkers {
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}
