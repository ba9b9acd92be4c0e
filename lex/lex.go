/*
Package lex defines the Tokenizer interface the recognizer pulls tokens
from, plus two concrete implementations: a text/scanner-backed default
tokenizer and a github.com/timtadh/lexmachine-backed dynamic tokenizer.

Ported from gorgo's lr/scanner package (scanner.go, lexmachine.go),
generalized to diesel.Token's added Style() method and to always emit a
diesel.EOS token rather than a raw text/scanner.EOF rune.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package lex

import (
	diesel "github.com/scala-steward/diesel-core"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("diesel.lex")
}

// Tokenizer is the interface the recognizer consumes. Implementations
// pull one token at a time; the final call before input exhausts must
// return a token whose TokType() is diesel.EOS.
type Tokenizer interface {
	NextToken() diesel.Token
	SetErrorHandler(func(error))
}

// Token is a minimal, immutable diesel.Token implementation shared by
// both tokenizers in this package.
type Token struct {
	Kind diesel.TokType
	Text string
	Val  interface{}
	Sp   diesel.Span
	Cls  string
}

var _ diesel.Token = Token{}

// TokType implements diesel.Token.
func (t Token) TokType() diesel.TokType { return t.Kind }

// Lexeme implements diesel.Token.
func (t Token) Lexeme() string { return t.Text }

// Value implements diesel.Token.
func (t Token) Value() interface{} { return t.Val }

// Span implements diesel.Token.
func (t Token) Span() diesel.Span { return t.Sp }

// Style implements diesel.Token.
func (t Token) Style() string { return t.Cls }

// MakeToken constructs a Token with no style hint and no resolved value.
func MakeToken(kind diesel.TokType, text string, span diesel.Span) Token {
	return Token{Kind: kind, Text: text, Sp: span}
}

func logError(e error) { tracer().Errorf("scanner error: %s", e.Error()) }
