package earley_test

import (
	"testing"

	"github.com/scala-steward/diesel-core/earley"
	"github.com/scala-steward/diesel-core/internal/calcgrammar"
)

func TestParseAcceptsSimpleSum(t *testing.T) {
	g, err := calcgrammar.New()
	if err != nil {
		t.Fatalf("building calc grammar: %v", err)
	}
	r := earley.New(g)
	res, err := r.Parse(calcgrammar.NewLexer("1+2+3"), "Expr")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !res.Success {
		t.Fatalf("expected success, markers=%v", res.Markers)
	}
	if len(res.Charts) != 6 {
		// tokens: 1 + 2 + 3 -> 5 tokens -> 6 charts (Property: chart count = token count + 1)
		t.Fatalf("expected 6 charts, got %d", len(res.Charts))
	}
}

func TestParseAcceptsParensAndPi(t *testing.T) {
	g, err := calcgrammar.New()
	if err != nil {
		t.Fatalf("building calc grammar: %v", err)
	}
	r := earley.New(g)
	res, err := r.Parse(calcgrammar.NewLexer("(1+pi)+2"), "Expr")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !res.Success {
		t.Fatalf("expected success, markers=%v", res.Markers)
	}
}

func TestParseRecoversMissingOperator(t *testing.T) {
	g, err := calcgrammar.New()
	if err != nil {
		t.Fatalf("building calc grammar: %v", err)
	}
	r := earley.New(g)
	// "1 2" is missing a '+' between the two terms; recovery should insert
	// one and still accept, recording exactly one recovered error.
	res, err := r.Parse(calcgrammar.NewLexer("1 2"), "Expr")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !res.Success {
		t.Fatalf("expected recovered success, markers=%v", res.Markers)
	}
}

func TestParseRejectsWithoutRecovery(t *testing.T) {
	g, err := calcgrammar.New()
	if err != nil {
		t.Fatalf("building calc grammar: %v", err)
	}
	r := earley.New(g, earley.Options{Recover: false})
	res, err := r.Parse(calcgrammar.NewLexer("1 2"), "Expr")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if res.Success {
		t.Fatalf("expected failure with recovery disabled")
	}
}

func TestParseUnknownAxiom(t *testing.T) {
	g, err := calcgrammar.New()
	if err != nil {
		t.Fatalf("building calc grammar: %v", err)
	}
	r := earley.New(g)
	if _, err := r.Parse(calcgrammar.NewLexer("1"), "NoSuchAxiom"); err == nil {
		t.Fatal("expected an error for an unknown axiom")
	}
}
