package bnf_test

import (
	"testing"

	"github.com/scala-steward/diesel-core/bnf"
)

func TestBuilderRejectsGrammarWithNoAxiom(t *testing.T) {
	b := bnf.NewBuilder("noaxiom")
	b.LHS("A").T("x", 1).End()
	if _, err := b.Grammar(); err == nil {
		t.Fatalf("expected an error for a grammar declaring no axiom")
	}
}

func TestBuilderRejectsUnclosedProduction(t *testing.T) {
	b := bnf.NewBuilder("unclosed")
	b.LHS("A").Axiom().T("x", 1)
	if _, err := b.Grammar(); err == nil {
		t.Fatalf("expected an error for an unclosed production")
	}
}

func TestNullableFixedPoint(t *testing.T) {
	// S -> A B ; A -> ε ; B -> ε  — S, A and B are all nullable.
	b := bnf.NewBuilder("nullable")
	b.LHS("S").Axiom().N("A").N("B").End()
	b.LHS("A").Epsilon()
	b.LHS("B").Epsilon()
	g, err := b.Grammar()
	if err != nil {
		t.Fatalf("building grammar: %v", err)
	}
	s, ok := g.Rule("S")
	if !ok {
		t.Fatalf("rule S not found")
	}
	if !g.IsNullable(s) {
		t.Fatalf("expected S to be nullable")
	}
}

func TestNonNullableRuleWithATerminal(t *testing.T) {
	b := bnf.NewBuilder("nonnullable")
	b.LHS("S").Axiom().T("x", 1).End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatalf("building grammar: %v", err)
	}
	s, _ := g.Rule("S")
	if g.IsNullable(s) {
		t.Fatalf("expected S not to be nullable")
	}
}

func TestAxiomLookupIsExactMatchOnly(t *testing.T) {
	b := bnf.NewBuilder("axioms")
	b.LHS("Start").Axiom().T("x", 1).End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatalf("building grammar: %v", err)
	}
	if _, err := g.Axiom("Start"); err != nil {
		t.Fatalf("exact axiom name should resolve: %v", err)
	}
	if _, err := g.Axiom("Sta"); err == nil {
		t.Fatalf("expected a prefix to be rejected by exact-match Axiom lookup")
	}
	if _, err := g.Axiom(""); err != nil {
		t.Fatalf("empty name should resolve to the first declared axiom: %v", err)
	}
}

// incompatibleAfterFirst merges to bnf.Incompatible on every call after
// the first, modeling a grammar-author Feature that rejects all but one
// agreement.
type incompatibleAfterFirst struct{ merged bool }

func (f *incompatibleAfterFirst) Merge(_ int, other bnf.Feature) (bnf.Feature, bool) {
	if f.merged {
		return bnf.Incompatible, false
	}
	f.merged = true
	return f, true
}

func TestFeatureMergeIsTotalAndIncompatibleIsAbsorbing(t *testing.T) {
	f := &incompatibleAfterFirst{}
	merged, ok := f.Merge(0, bnf.NoFeature{})
	if !ok {
		t.Fatalf("expected the first merge to succeed")
	}
	merged, ok = merged.(*incompatibleAfterFirst).Merge(0, bnf.NoFeature{})
	if ok {
		t.Fatalf("expected the second merge to report Incompatible")
	}
	if !bnf.IsIncompatible(merged) {
		t.Fatalf("expected IsIncompatible(merged) to be true")
	}
	again, ok := merged.Merge(0, bnf.NoFeature{})
	if ok || !bnf.IsIncompatible(again) {
		t.Fatalf("expected Incompatible to be absorbing")
	}
}

func TestNoFeatureMergesWithAnything(t *testing.T) {
	nf := bnf.NoFeature{}
	merged, ok := nf.Merge(0, bnf.Incompatible)
	if !ok {
		t.Fatalf("NoFeature.Merge must never fail")
	}
	if !bnf.IsIncompatible(merged) {
		t.Fatalf("merging NoFeature with Incompatible should yield Incompatible")
	}
}
