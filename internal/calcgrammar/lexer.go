package calcgrammar

import (
	"strconv"
	"strings"

	diesel "github.com/scala-steward/diesel-core"
	"github.com/scala-steward/diesel-core/lex"
)

// Lexer adapts lex.DefaultTokenizer's Go-like token stream to calcgrammar's
// token-type ids, so the calculator grammar can be driven directly from a
// source string without requiring a caller to build its own lexer.
type Lexer struct {
	inner *lex.DefaultTokenizer
}

var _ lex.Tokenizer = (*Lexer)(nil)

// NewLexer creates a Lexer over src.
func NewLexer(src string) *Lexer {
	return &Lexer{inner: lex.GoTokenizer("calc", strings.NewReader(src))}
}

// SetErrorHandler implements lex.Tokenizer.
func (l *Lexer) SetErrorHandler(h func(error)) { l.inner.SetErrorHandler(h) }

// NextToken implements lex.Tokenizer.
func (l *Lexer) NextToken() diesel.Token {
	raw := l.inner.NextToken()
	switch raw.TokType() {
	case diesel.EOS:
		return raw
	case lex.Int, lex.Float:
		v, _ := strconv.ParseFloat(raw.Lexeme(), 64)
		return numberToken{raw, v}
	case lex.Ident:
		if raw.Lexeme() == "pi" {
			return lex.Token{Kind: TokPi, Text: "pi", Sp: raw.Span(), Cls: "constant"}
		}
		return raw
	case diesel.TokType('+'):
		return lex.Token{Kind: TokPlus, Text: "+", Sp: raw.Span(), Cls: "keyword"}
	case diesel.TokType('('):
		return lex.Token{Kind: TokLParen, Text: "(", Sp: raw.Span()}
	case diesel.TokType(')'):
		return lex.Token{Kind: TokRParen, Text: ")", Sp: raw.Span()}
	default:
		return raw
	}
}

// numberToken wraps a raw scanner token, remapping its type to TokNumber
// and attaching the parsed float64 value.
type numberToken struct {
	diesel.Token
	v float64
}

func (t numberToken) TokType() diesel.TokType { return TokNumber }
func (t numberToken) Value() interface{}      { return t.v }
func (t numberToken) Style() string           { return "string" }
