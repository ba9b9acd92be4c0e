/*
Package forest builds a shared packed parse forest (SPPF) from an
earley.Result and navigates it into a concrete GenericTree, resolving
ambiguity through a pluggable chain of Reducers and running grammar
reduction Actions bottom-up.

Storage is ported from gorgo's lr/sppf package (symbol-nodes, rhs-nodes,
or-edges for ambiguity, and-edges for composition). Construction differs
from gorgo's: instead of gorgo's parsetree.go, which re-searches live
state sets during a single heuristic-guided walk ("longest rule first,
then lowest rule number"), this package expands the recognizer's explicit
BackPtr graph (spec.md §3-4.2) into every candidate decomposition and
lets the Navigator's Reducer chain choose among them, memoized per
earley.State so shared sub-derivations are only built once.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package forest

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
	diesel "github.com/scala-steward/diesel-core"
	"github.com/scala-steward/diesel-core/bnf"
	"github.com/scala-steward/diesel-core/earley"
	"github.com/scala-steward/diesel-core/marker"
)

func tracer() tracing.Trace {
	return tracing.Select("diesel.forest")
}

// symKey identifies a symbol-node: a grammar symbol spanning a specific
// range of input positions.
type symKey struct {
	Name     string
	Begin    uint64
	End      uint64
	Terminal bool
}

// rhsKey identifies an rhs-node: one specific production matching one
// specific span. Multiple rhsKeys for the same symKey are an or-edge
// (ambiguity between alternative productions); multiple child-sequences
// recorded for the same rhsKey are also an or-edge (ambiguity between
// alternative splits of the same production over the same span) — see
// the package doc comment.
type rhsKey struct {
	Prod  *bnf.Production
	Begin uint64
	End   uint64
}

// leaf carries the information needed to build a terminal GenericNode.
type leaf struct {
	tok       diesel.Token
	recovered string // "" or one of marker.InsertedToken/MissingToken/TokenMutation
	expected  string
}

// Forest is the shared packed parse forest built from one earley.Result.
type Forest struct {
	res  *earley.Result
	root symKey

	orEdges  map[symKey][]rhsKey
	andEdges map[rhsKey][][]symKey
	leaves   map[symKey]leaf

	memo map[earley.State][][]symKey
}

// ErrRejected is returned by Build when the Result never accepted the
// axiom (earley.Result.Success is false and no accepting derivation
// exists, clean or recovered).
var ErrRejected = fmt.Errorf("forest: input was not accepted")

// Build constructs a Forest from a finished recognition Result.
func Build(res *earley.Result) (*Forest, error) {
	accepting := res.AcceptingStates()
	if len(accepting) == 0 {
		return nil, ErrRejected
	}
	f := &Forest{
		res:      res,
		orEdges:  make(map[symKey][]rhsKey),
		andEdges: make(map[rhsKey][][]symKey),
		leaves:   make(map[symKey]leaf),
		memo:     make(map[earley.State][][]symKey),
	}
	f.root = symKey{Name: res.Axiom.Name, Begin: 0, End: uint64(len(res.Charts)) - 1}
	for _, st := range accepting {
		f.registerCompletion(st)
	}
	tracer().Debugf("forest[%s]: %d symbol-nodes, %d rhs-nodes", res.ID, len(f.orEdges), len(f.andEdges))
	return f, nil
}

// registerCompletion records every decomposition of completed state st as
// an rhsKey under st's symKey, expanding st's BackPtr graph as needed.
func (f *Forest) registerCompletion(st earley.State) symKey {
	key := symKey{Name: st.Prod.Rule.Name, Begin: st.Begin, End: st.End}
	rk := rhsKey{Prod: st.Prod, Begin: st.Begin, End: st.End}
	if _, done := f.andEdges[rk]; !done {
		sequences := f.expand(st)
		f.andEdges[rk] = sequences
	}
	f.addOrEdge(key, rk)
	return key
}

func (f *Forest) addOrEdge(key symKey, rk rhsKey) {
	for _, have := range f.orEdges[key] {
		if have == rk {
			return
		}
	}
	f.orEdges[key] = append(f.orEdges[key], rk)
}

// expand returns every candidate RHS-symbol sequence that derives st
// (which may be a partial state, Dot < Len, representing a prefix of its
// production). Results are memoized per State so shared prefixes are
// only expanded once, preserving the forest's packing.
func (f *Forest) expand(st earley.State) [][]symKey {
	if cached, ok := f.memo[st]; ok {
		return cached
	}
	if st.Dot == 0 {
		seqs := [][]symKey{{}}
		f.memo[st] = seqs
		return seqs
	}
	ctx := f.res.Context(st)
	var sequences [][]symKey
	if ctx != nil {
		for _, bp := range ctx.BackPtrs {
			childKey, ok := f.causalSymKey(bp.Causal)
			if !ok {
				continue
			}
			for _, prefix := range f.expand(bp.Predecessor) {
				seq := make([]symKey, 0, len(prefix)+1)
				seq = append(seq, prefix...)
				seq = append(seq, childKey)
				sequences = append(sequences, seq)
			}
		}
	}
	f.memo[st] = sequences
	return sequences
}

// causalSymKey turns a BackPtr's Causal value into the symKey covering
// the RHS position it completed.
func (f *Forest) causalSymKey(causal interface{}) (symKey, bool) {
	switch c := causal.(type) {
	case earley.State:
		return f.registerCompletion(c), true
	case earley.TokenValue:
		key := symKey{Name: leafName(c.Tok), Begin: c.At, End: c.At + 1, Terminal: true}
		f.leaves[key] = leaf{tok: c.Tok}
		return key, true
	case earley.InsertedTokenValue:
		key := symKey{Name: c.Sym.Name, Begin: c.At, End: c.At, Terminal: true}
		f.leaves[key] = leaf{recovered: marker.InsertedToken, expected: c.Sym.Name}
		return key, true
	case earley.DeletedTokenValue:
		key := symKey{Name: leafName(c.Tok), Begin: c.At, End: c.At + 1, Terminal: true}
		f.leaves[key] = leaf{tok: c.Tok, recovered: marker.MissingToken}
		return key, true
	case earley.MutationTokenValue:
		key := symKey{Name: c.Expected.Name, Begin: c.At, End: c.At + 1, Terminal: true}
		f.leaves[key] = leaf{tok: c.Tok, recovered: marker.TokenMutation, expected: c.Expected.Name}
		return key, true
	}
	return symKey{}, false
}

func leafName(tok diesel.Token) string {
	if tok == nil {
		return "?"
	}
	return tok.Lexeme()
}

// byteSpan projects a [begin,end) range of token-stream positions (as
// carried by symKey/rhsKey, inherited from earley.State.Begin/End) into
// the byte-offset Span spec.md §3's node-offset invariant requires:
// node.offset == token[begin].offset, node.length ==
// token[end-1].endOffset - node.offset, with length 0 at begin==end.
func (f *Forest) byteSpan(begin, end uint64) diesel.Span {
	if begin == end {
		off := f.tokenOffset(begin)
		return diesel.Span{off, off}
	}
	from := f.res.Tokens[begin].Span().From()
	to := f.res.Tokens[end-1].Span().To()
	return diesel.Span{from, to}
}

// tokenOffset returns the byte offset at which token-stream position pos
// begins, or — for pos at or past the end of the token stream — the byte
// offset immediately after the last token (0 if there were none at all).
func (f *Forest) tokenOffset(pos uint64) uint64 {
	if pos < uint64(len(f.res.Tokens)) {
		return f.res.Tokens[pos].Span().From()
	}
	if len(f.res.Tokens) == 0 {
		return 0
	}
	return f.res.Tokens[len(f.res.Tokens)-1].Span().To()
}
