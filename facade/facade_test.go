package facade_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	diesel "github.com/scala-steward/diesel-core"
	"github.com/scala-steward/diesel-core/bnf"
	"github.com/scala-steward/diesel-core/facade"
	"github.com/scala-steward/diesel-core/internal/calcgrammar"
	"github.com/scala-steward/diesel-core/lex"
	"github.com/scala-steward/diesel-core/marker"
)

func newEngine(t *testing.T) *facade.Engine {
	t.Helper()
	g, err := calcgrammar.New()
	if err != nil {
		t.Fatalf("building calc grammar: %v", err)
	}
	return facade.New(g, func(src string) lex.Tokenizer { return calcgrammar.NewLexer(src) })
}

// S1 — Calculator parse of "1 + pi": success, zero markers, three
// non-overlapping styles.
func TestParseS1(t *testing.T) {
	e := newEngine(t)
	res, err := e.Parse("1 + pi", "Expr")
	require.NoError(t, err)
	require.True(t, res.Success, "markers=%v", res.Markers)
	assert.Empty(t, res.Markers)
	want := []marker.Style{
		{Span: [2]uint64{0, 1}, Class: "string"},
		{Span: [2]uint64{2, 3}, Class: "keyword"},
		{Span: [2]uint64{4, 6}, Class: "constant"},
	}
	assert.ElementsMatch(t, want, res.Styles)
	got, ok := res.Tree.Root.Value.(float64)
	require.True(t, ok, "expected a float64 root value, got %T", res.Tree.Root.Value)
	assert.InDelta(t, 1+3.141592653589793, got, 1e-9)
}

// S2 — Calculator predict of "1 + " at offset 3: proposals include "0"
// and "pi", both with an empty replace span (the cursor sits on
// whitespace, so there is no prefix to replace).
func TestPredictS2(t *testing.T) {
	e := newEngine(t)
	res, err := e.Predict("1 + ", 3, "Expr")
	require.NoError(t, err)
	require.True(t, res.Success)
	texts := map[string]bool{}
	for _, p := range res.Proposals {
		texts[p.Text] = true
		assert.Zero(t, p.Replace.Len(), "expected an empty replace span for %q, got %v", p.Text, p.Replace)
	}
	assert.True(t, texts["0"] && texts["pi"], "expected proposals for \"0\" and \"pi\", got %v", texts)
}

// S4 — Missing token "1 +": error recovery inserts the missing operand
// and the tree carries exactly one InsertedToken marker.
func TestParseS4(t *testing.T) {
	e := newEngine(t)
	res, err := e.Parse("1 +", "Expr")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if res.Tree == nil {
		t.Fatalf("expected a tree despite the missing operand")
	}
	inserted := 0
	for _, m := range res.Markers {
		if m.Kind == marker.InsertedToken {
			inserted++
			if m.Span.From() != 3 {
				t.Fatalf("expected the InsertedToken marker at offset 3, got %v", m.Span)
			}
		}
	}
	if inserted != 1 {
		t.Fatalf("expected exactly one InsertedToken marker, got %d (markers=%v)", inserted, res.Markers)
	}
}

// S6 — Unknown token "1 @ 2": exactly one UnknownToken marker at the '@'
// offset, and parsing still yields a best-effort tree.
func TestParseS6(t *testing.T) {
	e := newEngine(t)
	res, err := e.Parse("1 @ 2", "Expr")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	unknown := 0
	for _, m := range res.Markers {
		if m.Kind == marker.UnknownToken {
			unknown++
			if m.Span.From() != 2 {
				t.Fatalf("expected the UnknownToken marker at offset 2, got %v", m.Span)
			}
		}
	}
	if unknown != 1 {
		t.Fatalf("expected exactly one UnknownToken marker, got %d (markers=%v)", unknown, res.Markers)
	}
}

// An unknown axiom prefix is a facade-level configuration error, not a
// marker (spec.md §7, MissingAxiom).
func TestParseUnknownAxiomPrefix(t *testing.T) {
	e := newEngine(t)
	if _, err := e.Parse("1", "NoSuch"); err == nil {
		t.Fatalf("expected an error for an unresolvable axiom prefix")
	}
}

// S3 — Hierarchical add "12 + 12.34": a single tree whose root Action
// ran only after its Term children's own Actions had already resolved,
// so the root value is the float sum of the two parsed literals.
func TestParseS3(t *testing.T) {
	e := newEngine(t)
	res, err := e.Parse("12 + 12.34", "Expr")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !res.Success || res.Tree == nil {
		t.Fatalf("expected success with a tree, markers=%v", res.Markers)
	}
	got, ok := res.Tree.Root.Value.(float64)
	if !ok {
		t.Fatalf("expected a float64 root value, got %T", res.Tree.Root.Value)
	}
	want := 12 + 12.34
	if got < want-1e-9 || got > want+1e-9 {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if len(res.Tree.Root.Children) != 3 {
		t.Fatalf("expected the Add production's 3 RHS children, got %d", len(res.Tree.Root.Children))
	}
}

// S5 — an ambiguous grammar ("S -> A | B", both A and B deriving the
// single terminal "x") still collapses to exactly one tree, tagged
// Ambiguous, carrying exactly one Ambiguous marker at the ambiguous
// span.
func TestParseS5(t *testing.T) {
	const tokX diesel.TokType = 1
	b := bnf.NewBuilder("ambiguous")
	b.LHS("S").Axiom().N("A").End()
	b.LHS("S").N("B").End()
	b.LHS("A").T("x", int(tokX)).Element("AltA").End()
	b.LHS("B").T("x", int(tokX)).Element("AltB").End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatalf("building grammar: %v", err)
	}
	e := facade.New(g, func(src string) lex.Tokenizer {
		return &singleXLexer{src: src}
	})
	res, err := e.Parse("x", "S")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !res.Success || res.Tree == nil {
		t.Fatalf("expected success with a tree, markers=%v", res.Markers)
	}
	if !res.Tree.Root.Ambiguous {
		t.Fatalf("expected the root node to be tagged Ambiguous")
	}
	ambiguous := 0
	for _, m := range res.Markers {
		if m.Kind == marker.Ambiguous {
			ambiguous++
		}
	}
	if ambiguous != 1 {
		t.Fatalf("expected exactly one Ambiguous marker, got %d (markers=%v)", ambiguous, res.Markers)
	}
}

// singleXLexer tokenizes a single "x" terminal followed by EOS; it
// exists only to drive TestParseS5's minimal ambiguous grammar.
type singleXLexer struct {
	src  string
	done bool
}

func (l *singleXLexer) SetErrorHandler(func(error)) {}

func (l *singleXLexer) NextToken() diesel.Token {
	if l.done {
		return lex.MakeToken(diesel.EOS, "", diesel.Span{uint64(len(l.src)), uint64(len(l.src))})
	}
	l.done = true
	return lex.MakeToken(1, l.src, diesel.Span{0, uint64(len(l.src))})
}
