package calcgrammar

import (
	"testing"

	diesel "github.com/scala-steward/diesel-core"
)

func TestLexMachineLexerMatchesScannerLexer(t *testing.T) {
	const src = "1 + pi"

	want := NewLexer(src)
	got, err := NewLexMachineLexer(src)
	if err != nil {
		t.Fatalf("NewLexMachineLexer: %v", err)
	}

	for {
		w := want.NextToken()
		g := got.NextToken()
		if w.TokType() != g.TokType() {
			t.Fatalf("token type mismatch: scanner=%v lexmachine=%v", w.TokType(), g.TokType())
		}
		if w.Value() != g.Value() {
			t.Fatalf("token value mismatch for %v: scanner=%v lexmachine=%v", w.TokType(), w.Value(), g.Value())
		}
		if w.TokType() == diesel.EOS {
			break
		}
	}
}
