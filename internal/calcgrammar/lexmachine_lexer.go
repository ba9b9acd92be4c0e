package calcgrammar

import (
	"strconv"

	diesel "github.com/scala-steward/diesel-core"
	"github.com/scala-steward/diesel-core/lex"
	"github.com/timtadh/lexmachine"
)

// LMLexer adapts lex.LMAdapter's dynamic-DFA lexmachine scanner to
// calcgrammar's token-type ids, exercising the same dependency as Lexer
// does for text/scanner but through a compiled lexmachine.Lexer instead —
// the "dynamic lexer" alternative spec.md §6 names alongside the default
// tokenizer.
type LMLexer struct {
	inner *lex.LMScanner
}

var _ lex.Tokenizer = (*LMLexer)(nil)

var lmAdapter *lex.LMAdapter

// lexMachineAdapter compiles (once) and returns the lexmachine.Lexer for
// calcgrammar's vocabulary: numbers, "pi", "+", "(", ")", with whitespace
// skipped.
func lexMachineAdapter() (*lex.LMAdapter, error) {
	if lmAdapter != nil {
		return lmAdapter, nil
	}
	tokenIds := map[string]int{
		"+":  int(TokPlus),
		"(":  int(TokLParen),
		")":  int(TokRParen),
		"pi": int(TokPi),
	}
	adapter, err := lex.NewLMAdapter(func(lx *lexmachine.Lexer) {
		lx.Add([]byte(`( |\t|\n)+`), lex.Skip)
		lx.Add([]byte(`[0-9]+(\.[0-9]+)?`), lex.MakeAction("number", int(TokNumber)))
	}, []string{"+", "(", ")"}, []string{"pi"}, tokenIds)
	if err != nil {
		return nil, err
	}
	lmAdapter = adapter
	return adapter, nil
}

// NewLexMachineLexer creates an LMLexer over src. It returns an error if
// the shared DFA fails to compile or src contains input the scanner
// cannot build a fresh Scanner over.
func NewLexMachineLexer(src string) (*LMLexer, error) {
	adapter, err := lexMachineAdapter()
	if err != nil {
		return nil, err
	}
	scanner, err := adapter.Scanner(src)
	if err != nil {
		return nil, err
	}
	return &LMLexer{inner: scanner}, nil
}

// SetErrorHandler implements lex.Tokenizer.
func (l *LMLexer) SetErrorHandler(h func(error)) { l.inner.SetErrorHandler(h) }

// NextToken implements lex.Tokenizer.
func (l *LMLexer) NextToken() diesel.Token {
	raw := l.inner.NextToken()
	switch raw.TokType() {
	case TokNumber:
		v, _ := strconv.ParseFloat(raw.Lexeme(), 64)
		return numberToken{raw, v}
	case TokPi:
		return lex.Token{Kind: TokPi, Text: raw.Lexeme(), Sp: raw.Span(), Cls: "constant"}
	case TokPlus:
		return lex.Token{Kind: TokPlus, Text: raw.Lexeme(), Sp: raw.Span(), Cls: "keyword"}
	default:
		return raw
	}
}
