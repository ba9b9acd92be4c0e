package lex

import (
	"strings"

	diesel "github.com/scala-steward/diesel-core"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// LMAdapter wraps a github.com/timtadh/lexmachine lexer, letting grammars
// with dynamic or keyword-heavy lexical rules (spec.md §6's
// "Bnf.dynamicLexer") supply their own DFA instead of using
// DefaultTokenizer's fixed Go-like rules.
type LMAdapter struct {
	Lexer *lexmachine.Lexer
}

// NewLMAdapter builds an LMAdapter: init installs any custom patterns
// directly on the lexmachine.Lexer, literals and keywords are added
// automatically (mapped to token ids via tokenIds), and the resulting DFA
// is compiled. It returns an error if compilation fails.
func NewLMAdapter(init func(*lexmachine.Lexer), literals, keywords []string, tokenIds map[string]int) (*LMAdapter, error) {
	adapter := &LMAdapter{Lexer: lexmachine.NewLexer()}
	init(adapter.Lexer)
	for _, lit := range literals {
		pattern := "\\" + strings.Join(strings.Split(lit, ""), "\\")
		adapter.Lexer.Add([]byte(pattern), MakeAction(lit, tokenIds[lit]))
	}
	for _, name := range keywords {
		adapter.Lexer.Add([]byte(strings.ToLower(name)), MakeAction(name, tokenIds[name]))
	}
	if err := adapter.Lexer.Compile(); err != nil {
		gtrace.SyntaxTracer.Errorf("lex: error compiling DFA: %v", err)
		return nil, err
	}
	return adapter, nil
}

// Scanner creates a Tokenizer over input.
func (lm *LMAdapter) Scanner(input string) (*LMScanner, error) {
	s, err := lm.Lexer.Scanner([]byte(input))
	if err != nil {
		return nil, err
	}
	return &LMScanner{scanner: s, Error: logError}, nil
}

// LMScanner adapts a *lexmachine.Scanner to the Tokenizer interface.
type LMScanner struct {
	scanner *lexmachine.Scanner
	Error   func(error)
}

var _ Tokenizer = (*LMScanner)(nil)

// SetErrorHandler implements Tokenizer.
func (lms *LMScanner) SetErrorHandler(h func(error)) {
	if h == nil {
		lms.Error = logError
		return
	}
	lms.Error = h
}

// NextToken implements Tokenizer, retrying past any unconsumed-input
// errors lexmachine reports, exactly as gorgo's LMScanner does.
func (lms *LMScanner) NextToken() diesel.Token {
	tok, err, eof := lms.scanner.Next()
	for err != nil {
		lms.Error(err)
		if ui, is := err.(*machines.UnconsumedInput); is {
			lms.scanner.TC = ui.FailTC
		}
		tok, err, eof = lms.scanner.Next()
	}
	if eof {
		return Token{Kind: diesel.EOS}
	}
	t := tok.(*lexmachine.Token)
	return Token{
		Kind: diesel.TokType(t.Type),
		Text: string(t.Lexeme),
		Sp:   diesel.Span{uint64(t.StartColumn), uint64(t.EndColumn)},
	}
}

// Skip is a pre-defined lexmachine action that discards the match (for
// whitespace, comments, …).
func Skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

// MakeAction is a pre-defined lexmachine action that wraps a scanned
// match into a lexmachine.Token tagged with id.
func MakeAction(name string, id int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(id, string(m.Bytes), m), nil
	}
}
