package forest_test

import (
	"strings"
	"testing"

	"github.com/scala-steward/diesel-core/earley"
	"github.com/scala-steward/diesel-core/forest"
	"github.com/scala-steward/diesel-core/internal/calcgrammar"
)

func parseCalc(t *testing.T, src string, opts ...earley.Options) *earley.Result {
	t.Helper()
	g, err := calcgrammar.New()
	if err != nil {
		t.Fatalf("building calc grammar: %v", err)
	}
	r := earley.New(g, opts...)
	res, err := r.Parse(calcgrammar.NewLexer(src), "Expr")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return res
}

func TestBuildRejectsUnsuccessfulParse(t *testing.T) {
	res := parseCalc(t, "1 2", earley.Options{Recover: false})
	if res.Success {
		t.Fatalf("expected parse to fail without recovery")
	}
	if _, err := forest.Build(res); err != forest.ErrRejected {
		t.Fatalf("expected ErrRejected, got %v", err)
	}
}

func TestNavigateEvaluatesSimpleSum(t *testing.T) {
	res := parseCalc(t, "1+2+3")
	f, err := forest.Build(res)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	tree, err := forest.NewNavigator(f).Navigate()
	if err != nil {
		t.Fatalf("Navigate: %v", err)
	}
	got, ok := tree.Root.Value.(float64)
	if !ok || got != 6 {
		t.Fatalf("expected 6, got %v", tree.Root.Value)
	}
	if tree.Root.Ambiguous {
		t.Fatalf("expected an unambiguous left-recursive sum")
	}
}

func TestNavigateEvaluatesParensAndPi(t *testing.T) {
	res := parseCalc(t, "(1+pi)+2")
	f, err := forest.Build(res)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	tree, err := forest.NewNavigator(f).Navigate()
	if err != nil {
		t.Fatalf("Navigate: %v", err)
	}
	got, ok := tree.Root.Value.(float64)
	if !ok {
		t.Fatalf("expected a float64 result, got %T", tree.Root.Value)
	}
	want := 1 + 3.141592653589793 + 2
	if got < want-1e-9 || got > want+1e-9 {
		t.Fatalf("expected approximately %v, got %v", want, got)
	}
}

func TestNavigateRecordsRecoveredInsertion(t *testing.T) {
	res := parseCalc(t, "1 2")
	if !res.Success {
		t.Fatalf("expected recovered success, markers=%v", res.Markers)
	}
	f, err := forest.Build(res)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	tree, err := forest.NewNavigator(f).Navigate()
	if err != nil {
		t.Fatalf("Navigate: %v", err)
	}
	if got, ok := tree.Root.Value.(float64); !ok || got != 3 {
		t.Fatalf("expected 3 despite the missing '+', got %v", tree.Root.Value)
	}
	found := false
	for _, m := range tree.Markers {
		if strings.Contains(m.Kind, "InsertedToken") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an InsertedToken marker, got %v", tree.Markers)
	}
}

func TestWriteDOTDoesNotPanic(t *testing.T) {
	res := parseCalc(t, "1+2")
	f, err := forest.Build(res)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	var buf strings.Builder
	forest.WriteDOT(f, &buf)
	if !strings.HasPrefix(buf.String(), "digraph G {") {
		t.Fatalf("expected a DOT digraph header, got %q", buf.String()[:20])
	}
}
