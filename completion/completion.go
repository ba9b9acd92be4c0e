/*
Package completion walks the incomplete Earley states of a Result to
enumerate the grammar symbols admissible at a cursor offset (spec.md
§4.3): a cursor lands in some Chart; every non-ErrorRecovery state in
that chart whose dot has moved past its first symbol, or whose rule is the
axiom, is a prediction seed, and the continuations of the incomplete ones
are expanded recursively, terminal leaves becoming proposals.

Grounded on the `other_examples` pq-autocomplete-earley package's
GetSuggestedTokenType/GetValidTerminalTypesAtStateSet technique (re-walk
incomplete chart items rather than keep a separate automaton), and on
gorgo's lr/earley predict step for how a NonTerminal expands into its
per-production start items — reused here as a visited-guarded recursive
expansion instead of chart insertion, since completion only enumerates
reachable symbols and never needs to materialize new chart states.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package completion

import (
	"strings"

	"github.com/cnf/structhash"
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/npillmayer/schuko/tracing"
	diesel "github.com/scala-steward/diesel-core"
	"github.com/scala-steward/diesel-core/bnf"
	"github.com/scala-steward/diesel-core/earley"
)

func tracer() tracing.Trace {
	return tracing.Select("diesel.completion")
}

// DefaultDelimiters is the delimiter set spec.md §4.3 uses to decide
// whether the cursor sits "inside" or "just after" a token.
const DefaultDelimiters = ":(){}.,+-*/[];"

// DefaultMaxDepth bounds how many non-terminals a single walk may visit
// before giving up, guarding against a pathological left-recursive
// grammar the visited-set doesn't otherwise catch (0 disables the
// guard).
const DefaultMaxDepth = 0

// Proposal is one completion suggestion.
type Proposal struct {
	Element       string // the production's DslElement tag, if any
	Text          string
	Replace       diesel.Span
	UserData      interface{}
	Documentation string
}

// Context is passed to a registered Provider.
type Context struct {
	Grammar *bnf.Grammar
	Offset  uint64
	Prefix  string
	Replace diesel.Span
}

// Provider supplies proposals directly for a production's DslElement,
// bypassing the default terminal-walk (spec.md §4.3).
type Provider interface {
	Provide(ctx *Context) []Proposal
}

// Filter can veto recursing into a production's DslElement. It does not
// see or alter the final proposal list.
type Filter interface {
	ContinueVisit(element string) bool
}

// Registry holds the DslElement-keyed Providers and the Filter chain a
// Processor consults during its continuation walk.
type Registry struct {
	providers map[string]Provider
	filters   []Filter
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

// RegisterProvider attaches p to every production tagged with element.
func (r *Registry) RegisterProvider(element string, p Provider) {
	r.providers[element] = p
}

// RegisterFilter appends f to the filter chain.
func (r *Registry) RegisterFilter(f Filter) {
	r.filters = append(r.filters, f)
}

func (r *Registry) continueVisit(element string) bool {
	if element == "" {
		return true
	}
	for _, f := range r.filters {
		if !f.ContinueVisit(element) {
			return false
		}
	}
	return true
}

// Processor answers completion queries against a finished Result.
type Processor struct {
	delimiters map[rune]bool
	registry   *Registry
	maxDepth   int
}

// Option configures a Processor.
type Option func(*Processor)

// WithDelimiters overrides DefaultDelimiters.
func WithDelimiters(delims string) Option {
	return func(p *Processor) {
		p.delimiters = delimiterSet(delims)
	}
}

// WithRegistry attaches a Registry of per-element Providers/Filters.
func WithRegistry(r *Registry) Option {
	return func(p *Processor) { p.registry = r }
}

// WithMaxDepth overrides DefaultMaxDepth.
func WithMaxDepth(depth int) Option {
	return func(p *Processor) { p.maxDepth = depth }
}

func delimiterSet(s string) map[rune]bool {
	set := make(map[rune]bool, len(s))
	for _, r := range s {
		set[r] = true
	}
	return set
}

// NewProcessor creates a Processor. With no options, it uses
// DefaultDelimiters and an empty Registry.
func NewProcessor(opts ...Option) *Processor {
	p := &Processor{delimiters: delimiterSet(DefaultDelimiters), registry: NewRegistry(), maxDepth: DefaultMaxDepth}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Complete returns every proposal admissible at offset, deduplicated by
// exact Text (spec.md §4.3, property 6). Where several proposals share a
// Text, the first one discovered is kept and the Element, Replace and
// UserData of the later ones are dropped; CompleteAll returns them all.
func (p *Processor) Complete(res *earley.Result, offset uint64) ([]Proposal, error) {
	all, err := p.CompleteAll(res, offset)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(all))
	out := make([]Proposal, 0, len(all))
	for _, prop := range all {
		key, herr := dedupKey(prop.Text)
		if herr != nil {
			key = prop.Text
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, prop)
	}
	return out, nil
}

func dedupKey(text string) (string, error) {
	return structhash.Hash(struct{ Text string }{Text: text}, 1)
}

// CompleteAll returns every proposal admissible at offset without
// deduplication, preserving the order candidates were discovered in.
func (p *Processor) CompleteAll(res *earley.Result, offset uint64) ([]Proposal, error) {
	chartIdx, prefix, replace := p.locate(res, offset)
	tracer().Debugf("complete[%s]: offset=%d -> chart %d, prefix=%q", res.ID, offset, chartIdx, prefix)

	w := &walker{res: res, registry: p.registry, replace: replace, maxDepth: p.maxDepth}
	chart := res.Charts[chartIdx]
	for _, st := range chart.States() {
		if ctx := chart.Context(st); ctx != nil && ctx.Kind == earley.ErrorRecovery {
			continue
		}
		isPredictionState := st.Dot > 0 || st.Prod.Rule == res.Axiom
		if !isPredictionState {
			continue
		}
		w.walk(st, treeset.NewWithStringComparator())
	}
	return w.proposals, nil
}

// locate implements spec.md §4.3's chart-selection rule: if the
// character immediately before offset is a configured delimiter, select
// the chart strictly after offset; otherwise select the chart containing
// offset (or the next one if none does).
func (p *Processor) locate(res *earley.Result, offset uint64) (chartIdx uint64, prefix string, replace diesel.Span) {
	var before rune
	for i, tok := range res.Tokens {
		sp := tok.Span()
		if sp.To() == offset && i+1 < len(res.Tokens) {
			if txt := tok.Lexeme(); txt != "" {
				before = rune(txt[len(txt)-1])
			}
		}
		if sp.From() <= offset && offset < sp.To() {
			if p.delimiters[before] || offset == sp.From() {
				return uint64(i), "", diesel.Span{offset, offset}
			}
			prefixLen := offset - sp.From()
			pfx := tok.Lexeme()
			if int(prefixLen) <= len(pfx) {
				pfx = pfx[:prefixLen]
			}
			return uint64(i), pfx, diesel.Span{sp.From(), offset}
		}
		if sp.From() >= offset {
			return uint64(i), "", diesel.Span{offset, offset}
		}
	}
	return uint64(len(res.Charts) - 1), "", diesel.Span{offset, offset}
}

// walker carries the accumulated proposals and visited-set guard for one
// CompleteAll call.
type walker struct {
	res       *earley.Result
	registry  *Registry
	replace   diesel.Span
	proposals []Proposal
	maxDepth  int
}

// walk explores every continuation reachable from prediction state st,
// tracking visited non-terminals to stop left-recursive expansion
// (spec.md §4.3). maxDepth, when positive, additionally bounds how many
// distinct non-terminals a single top-level walk may visit.
func (w *walker) walk(st earley.State, visited *treeset.Set) {
	if st.IsCompleted() {
		return
	}
	sym := st.NextSymbol()
	if sym.IsTerminal() {
		w.proposals = append(w.proposals, Proposal{
			Element: st.Prod.Element,
			Text:    terminalText(st),
			Replace: w.replace,
		})
		return
	}
	nt := sym.NonTerminal()
	if visited.Contains(nt.Name) {
		return
	}
	if w.maxDepth > 0 && visited.Size() >= w.maxDepth {
		tracer().Debugf("complete[%s]: max completion depth %d reached, truncating at %s", w.res.ID, w.maxDepth, nt.Name)
		return
	}
	visited.Add(nt.Name)
	feat := st.Feature
	if feat == nil {
		feat = bnf.NoFeature{}
	}
	for _, prod := range nt.Productions {
		merged, ok := feat.Merge(st.Dot, prod.Feat)
		if !ok {
			continue
		}
		if prod.Element != "" {
			if provider, ok := w.registry.providers[prod.Element]; ok {
				w.proposals = append(w.proposals, provider.Provide(&Context{
					Grammar: w.res.Grammar,
					Replace: w.replace,
				})...)
				continue
			}
			if !w.registry.continueVisit(prod.Element) {
				continue
			}
		}
		if prod.Len() == 0 {
			continue
		}
		seed := earley.State{Prod: prod, Dot: 0, Feature: merged}
		w.walk(seed, visited)
	}
}

// terminalText concatenates the default text of the terminal at st's dot
// and any immediately following terminals in the same production, up to
// the first non-terminal or the end of the production (spec.md §4.3).
func terminalText(st earley.State) string {
	var parts []string
	prod := st.Prod
	for i := st.Dot; i < prod.Len(); i++ {
		sym := prod.RHS[i]
		if !sym.IsTerminal() {
			break
		}
		parts = append(parts, sym.DefaultText())
	}
	return strings.Join(parts, " ")
}
