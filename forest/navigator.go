package forest

import (
	"fmt"

	diesel "github.com/scala-steward/diesel-core"
	"github.com/scala-steward/diesel-core/bnf"
	"github.com/scala-steward/diesel-core/config"
	"github.com/scala-steward/diesel-core/marker"
)

// GenericNode is one resolved node of a parse tree: either a terminal
// leaf or the application of one grammar production, after ambiguity has
// been resolved by a Reducer chain and, for non-terminals, after running
// the production's reduction Action.
type GenericNode struct {
	Symbol     string // LHS rule name, or the terminal's grammar name
	Element    string // production's Element tag; "" for terminals and untagged productions
	Span       diesel.Span
	IsTerminal bool
	Value      interface{}
	Children   []*GenericNode
	Ambiguous  bool // true if more than one candidate derivation existed here

	markers    []marker.Marker
	styles     []marker.Style
	errorCount int
	abortCount int
	serial     int // production.Serial; 0 for terminals, used only as a deterministic tie-break
}

// Markers returns every marker attached at or below this node.
func (n *GenericNode) Markers() []marker.Marker { return n.markers }

// Styles returns every style hint attached at or below this node.
func (n *GenericNode) Styles() []marker.Style { return n.styles }

// GenericTree is the finished, resolved parse tree for one recognition
// Result.
type GenericTree struct {
	Root    *GenericNode
	Markers []marker.Marker
	Styles  []marker.Style
}

// ErrTooManyTrees is returned by Navigate when the forest's ambiguity
// could not be narrowed to a single winner by the supplied Reducer chain
// — i.e. the last reducer still reports two candidates as Same. Rather
// than silently picking an arbitrary candidate, Navigate surfaces this so
// callers can add a more decisive reducer (spec.md §9 open question:
// "what should happen when more than one tree remains after reduction").
type ErrTooManyTrees struct {
	Symbol string
	Span   diesel.Span
	Count  int
}

func (e *ErrTooManyTrees) Error() string {
	return fmt.Sprintf("forest: %d candidate trees remain for %s%s after reduction", e.Count, e.Symbol, e.Span)
}

// ctx is the concrete ActionContext implementation passed to reduction
// Actions; it accumulates markers and styles into the enclosing
// candidate node under construction.
type ctx struct {
	node    *GenericNode
	aborted string
}

func (c *ctx) AddMarker(offset, length uint64, kind, message string) {
	m := marker.New(diesel.Span{offset, offset + length}, kind, message)
	c.node.markers = append(c.node.markers, m)
	if m.Severity == marker.SeverityError {
		c.node.errorCount++
	}
}

func (c *ctx) SetStyle(offset, length uint64, style string) {
	c.node.styles = append(c.node.styles, marker.Style{Span: diesel.Span{offset, offset + length}, Class: style})
}

func (c *ctx) Abort(reason string) { c.aborted = reason }

var _ bnf.ActionContext = (*ctx)(nil)

// Navigator walks a Forest, resolving every ambiguous symbol node through
// reducers (in order; the first reducer reporting Better/Worse decides,
// ties fall through to the next) and running reduction actions
// bottom-up.
type Navigator struct {
	f        *Forest
	reducers []Reducer
	resolved map[symKey]*GenericNode
}

// NewNavigator creates a Navigator over f. With no reducers given, the
// default chain is used: FewerErrorPossible, NoAbortAsMuchAsPossible,
// SelectOne (spec.md §4.2 and DESIGN.md's Open Question decision).
func NewNavigator(f *Forest, reducers ...Reducer) *Navigator {
	if len(reducers) == 0 {
		reducers = DefaultReducers()
	}
	return &Navigator{f: f, reducers: reducers, resolved: make(map[symKey]*GenericNode)}
}

// Navigate resolves the whole forest into a GenericTree.
func (nav *Navigator) Navigate() (*GenericTree, error) {
	root, err := nav.resolve(nav.f.root)
	if err != nil {
		return nil, err
	}
	return &GenericTree{Root: root, Markers: root.markers, Styles: marker.Flatten(root.styles)}, nil
}

func (nav *Navigator) resolve(key symKey) (*GenericNode, error) {
	if n, ok := nav.resolved[key]; ok {
		return n, nil
	}
	if key.Terminal {
		n := nav.resolveLeaf(key)
		nav.resolved[key] = n
		return n, nil
	}
	candidates, err := nav.buildCandidates(key)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, stuck(fmt.Sprintf("forest: %s%s has no derivation", key.Name, nav.spanOf(key)))
	}
	winner := candidates[0]
	ambiguous := len(candidates) > 1
	for _, c := range candidates[1:] {
		switch nav.compare(c, winner) {
		case Better:
			winner = c
		case Same:
			return nil, &ErrTooManyTrees{Symbol: key.Name, Span: nav.spanOf(key), Count: len(candidates)}
		}
	}
	if ambiguous {
		winner.Ambiguous = true
		winner.markers = append(winner.markers, marker.New(nav.spanOf(key), marker.Ambiguous,
			fmt.Sprintf("%d derivations of %s resolved by reducer", len(candidates), key.Name)))
	}
	nav.resolved[key] = winner
	return winner, nil
}

func (nav *Navigator) resolveLeaf(key symKey) *GenericNode {
	lf := nav.f.leaves[key]
	n := &GenericNode{Symbol: key.Name, Span: nav.spanOf(key), IsTerminal: true}
	if lf.tok != nil {
		n.Value = lf.tok.Value()
		if style := lf.tok.Style(); style != "" {
			n.styles = append(n.styles, marker.Style{Span: n.Span, Class: style})
		}
	}
	switch lf.recovered {
	case marker.InsertedToken:
		n.markers = append(n.markers, marker.New(n.Span, marker.InsertedToken,
			fmt.Sprintf("inserted missing %q", lf.expected)))
		n.errorCount++
	case marker.MissingToken:
		n.markers = append(n.markers, marker.New(n.Span, marker.MissingToken,
			fmt.Sprintf("skipped unexpected token %q", lf.tok.Lexeme())))
		n.errorCount++
	case marker.TokenMutation:
		n.markers = append(n.markers, marker.New(n.Span, marker.TokenMutation,
			fmt.Sprintf("treated %q as %q", lf.tok.Lexeme(), lf.expected)))
		n.errorCount++
	}
	return n
}

// buildCandidates materializes every (rhsKey, child-sequence) alternative
// for key as a fully-built candidate GenericNode. A production whose
// Action calls Abort is not discarded outright (its callers may have no
// other candidate at all): it is kept, tagged with an abort marker and a
// raised abortCount, and left for the Reducer chain's NoAbortAsMuchAsPossible
// stage to rank below any sibling candidate that didn't abort.
func (nav *Navigator) buildCandidates(key symKey) ([]*GenericNode, error) {
	var candidates []*GenericNode
	for _, rk := range nav.f.orEdges[key] {
		for _, seq := range nav.f.andEdges[rk] {
			node, err := nav.buildCandidate(rk, seq)
			if err != nil {
				return nil, err
			}
			candidates = append(candidates, node)
		}
	}
	return candidates, nil
}

// callAction invokes a production's reduction Action, recovering a panic
// and re-signalling it as a returned error (spec.md §7: "reduction
// actions may throw; such throws propagate, aborting the current
// parse") rather than letting it unwind through the Navigator.
func callAction(act bnf.Action, c bnf.ActionContext, values []interface{}) (v interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("forest: reduction action panicked: %v", r)
		}
	}()
	return act(c, values)
}

func (nav *Navigator) buildCandidate(rk rhsKey, seq []symKey) (*GenericNode, error) {
	children := make([]*GenericNode, len(seq))
	values := make([]interface{}, len(seq))
	for i, childKey := range seq {
		child, err := nav.resolve(childKey)
		if err != nil {
			return nil, err
		}
		children[i] = child
		values[i] = child.Value
	}
	node := &GenericNode{
		Symbol:   rk.Prod.Rule.Name,
		Element:  rk.Prod.Element,
		Span:     nav.f.byteSpan(rk.Begin, rk.End),
		Children: children,
		serial:   rk.Prod.Serial,
	}
	for _, c := range children {
		node.markers = append(node.markers, c.markers...)
		node.styles = append(node.styles, c.styles...)
		node.errorCount += c.errorCount
		node.abortCount += c.abortCount
	}
	c := &ctx{node: node}
	if rk.Prod.Act != nil {
		// A returned error (or recovered panic, via callAction) is the
		// "throw" spec.md §7 describes: it propagates and aborts the
		// whole parse, unlike ctx.Abort(), which only flags this
		// subtree as semantically rejected for the Reducer chain to
		// rank below a cleaner sibling.
		v, err := callAction(rk.Prod.Act, c, values)
		if err != nil {
			return nil, fmt.Errorf("forest: action for %s%s: %w", node.Symbol, node.Span, err)
		}
		node.Value = v
	}
	if c.aborted != "" {
		node.markers = append(node.markers, marker.New(node.Span, marker.Semantic, c.aborted))
		node.abortCount++
		node.errorCount++
	}
	return node, nil
}

// compare runs a through b against nav's reducer chain in order, returning
// the first non-Same verdict.
func (nav *Navigator) compare(a, b *GenericNode) Verdict {
	for _, r := range nav.reducers {
		if v := r.Compare(a, b); v != Same {
			return v
		}
	}
	return Same
}

func (nav *Navigator) spanOf(key symKey) diesel.Span { return nav.f.byteSpan(key.Begin, key.End) }

// stuck reports a Navigator invariant violation (a symbol the forest
// claims to have built but cannot actually expand into any candidate,
// which should be unreachable given a Forest built from an accepting
// Result). Mirrors gorgo's lr/earley stuck() helper: logs and returns an
// error normally, but panics instead when config.PanicOnParserStuck is
// set, to support post-mortem debugging of a misbehaving grammar.
func stuck(msg string) error {
	tracer().Errorf("%s", msg)
	if config.PanicOnParserStuck() {
		panic("forest: navigator is stuck: " + msg)
	}
	return fmt.Errorf("%s", msg)
}
