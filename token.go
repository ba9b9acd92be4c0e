/*
Package diesel is a general context-free parsing engine: an Earley
recognizer with error recovery, a parse-forest navigator with pluggable
ambiguity reducers, a feature constraint system, and a cursor-driven
completion engine. Package structure is as follows:

■ bnf: grammar description — rules, productions, features, nullability.

■ earley: the chart-based recognizer, including two-phase error recovery.

■ forest: shared packed parse forest, tree navigation and reducers.

■ completion: cursor-driven completion proposals.

■ marker, lex, config, facade, lsp: supporting subsystems and the
cross-language facade surface.

The base package (this one) contains data types used throughout all the
other packages.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package diesel

import "fmt"

// --- A general purpose interface for tokens --------------------------------

// TokType is a category type for a Token. We do not define any constants
// here, as it is up to a lexer to define them; the engine reserves only
// EOS (end of stream), which every Tokenizer implementation must emit as
// its final token.
type TokType int

// EOS is the reserved token type signalling end of input.
const EOS TokType = -1

// TokTypeStringer is a type to be provided by a lexer/grammar combination to
// be able to print out token categories.
type TokTypeStringer func(TokType) string

// Token represents an input token, usually produced by a lexer and
// reflecting a terminal in a grammar.
//
// An example would be a token for a floating point number:
//
//	TokType = Float
//	Lexeme  = "3.1416"
//	Value   = 3.1416
//	Span    = 67…73
//	Style   = "constant"
type Token interface {
	TokType() TokType
	Lexeme() string
	Value() interface{}
	Span() Span
	Style() string // style class hint from the lexer, "" if none
}

// TokenRetriever is a type for getting tokens at an input position.
type TokenRetriever func(uint64) Token

// --- Spans ------------------------------------------------------------

// Span captures an interval of input token positions [From, To). It is used
// for both chart-index spans (in units of token positions) and resolved
// byte-offset spans once positions are projected against the token stream.
type Span [2]uint64

// From returns the start value of a span.
func (s Span) From() uint64 { return s[0] }

// To returns the end value of a span.
func (s Span) To() uint64 { return s[1] }

// Len returns the length of (x…y).
func (s Span) Len() uint64 { return s[1] - s[0] }

// IsNull reports whether the span is the zero span.
func (s Span) IsNull() bool { return s == Span{} }

// Extend grows s to also cover other.
func (s Span) Extend(other Span) Span {
	if other[0] < s[0] {
		s[0] = other[0]
	}
	if other[1] > s[1] {
		s[1] = other[1]
	}
	return s
}

func (s Span) String() string {
	return fmt.Sprintf("(%d…%d)", s[0], s[1])
}
