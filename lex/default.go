package lex

import (
	"io"
	"text/scanner"

	diesel "github.com/scala-steward/diesel-core"
)

// Token types replicated from text/scanner for practical reasons, so
// callers of GoTokenizer don't need to import text/scanner themselves.
const (
	Ident     = diesel.TokType(scanner.Ident)
	Int       = diesel.TokType(scanner.Int)
	Float     = diesel.TokType(scanner.Float)
	Char      = diesel.TokType(scanner.Char)
	String    = diesel.TokType(scanner.String)
	RawString = diesel.TokType(scanner.RawString)
	Comment   = diesel.TokType(scanner.Comment)
)

// DefaultTokenizer adapts text/scanner.Scanner to the Tokenizer interface.
// Create one with GoTokenizer.
type DefaultTokenizer struct {
	scanner.Scanner
	Error        func(error)
	unifyStrings bool
}

var _ Tokenizer = (*DefaultTokenizer)(nil)

// GoTokenizer creates a tokenizer accepting tokens similar to the Go
// language, reading from input.
func GoTokenizer(sourceID string, input io.Reader, opts ...Option) *DefaultTokenizer {
	t := &DefaultTokenizer{Error: logError}
	t.Init(input)
	t.Filename = sourceID
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SetErrorHandler implements Tokenizer.
func (t *DefaultTokenizer) SetErrorHandler(h func(error)) {
	if h == nil {
		t.Error = logError
		return
	}
	t.Error = h
}

// NextToken implements Tokenizer. It always terminates the stream with a
// diesel.EOS token once the scanner reaches end of input.
func (t *DefaultTokenizer) NextToken() diesel.Token {
	r := t.Scan()
	if r == scanner.EOF {
		tracer().Debugf("DefaultTokenizer reached end of input")
		return Token{Kind: diesel.EOS, Sp: diesel.Span{uint64(t.Pos().Offset), uint64(t.Pos().Offset)}}
	}
	if t.unifyStrings && (r == scanner.RawString || r == scanner.Char) {
		r = scanner.String
	}
	return Token{
		Kind: diesel.TokType(r),
		Text: t.TokenText(),
		Sp:   diesel.Span{uint64(t.Position.Offset), uint64(t.Pos().Offset)},
	}
}

// Option configures a DefaultTokenizer.
type Option func(*DefaultTokenizer)

const (
	optionSkipComments uint = 1 << 1
	optionUnifyStrings uint = 1 << 2
)

// SkipComments sets or clears comment-skipping.
func SkipComments(b bool) Option {
	return func(t *DefaultTokenizer) {
		if b {
			t.Mode |= scanner.SkipComments
		} else {
			t.Mode &^= scanner.SkipComments
		}
	}
}

// UnifyStrings treats raw strings and single chars as regular strings.
func UnifyStrings(b bool) Option {
	return func(t *DefaultTokenizer) { t.unifyStrings = b }
}
