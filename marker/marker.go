/*
Package marker defines diagnostic and styling annotations produced while
recognizing and navigating parse results: Marker (errors, warnings,
informational notes tied to a span) and Style (semantic-highlighting
hints for editors), plus a visitor that flattens nested style ranges for
transport.

There is no direct teacher analogue (gorgo has no diagnostics subsystem);
the shape is modeled on LSP diagnostic/semantic-token payloads, the way
dhamidi/sai's java/codebase/lsp.go produces protocol.Diagnostic and
protocol.CompletionItem values, kept transport-agnostic here so package
lsp can translate it into glsp's wire types.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package marker

import diesel "github.com/scala-steward/diesel-core"

// Severity classifies a Marker.
type Severity int

// Severity levels, ordered from most to least severe.
const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	}
	return "?"
}

// Built-in marker kinds, one per spec.md §7 taxonomy entry plus
// "Semantic", the tag reduction actions use for user-raised markers.
const (
	UnknownToken  = "UnknownToken"
	InsertedToken = "InsertedToken"
	MissingToken  = "MissingToken"
	TokenMutation = "TokenMutation"
	Ambiguous     = "Ambiguous"
	Semantic      = "Semantic"
)

var defaultSeverity = map[string]Severity{
	UnknownToken:  SeverityError,
	InsertedToken: SeverityWarning,
	MissingToken:  SeverityWarning,
	TokenMutation: SeverityWarning,
	Ambiguous:     SeverityInfo,
	Semantic:      SeverityError,
}

// Marker annotates a span of input with a diagnostic message.
type Marker struct {
	Span     diesel.Span
	Kind     string
	Message  string
	Severity Severity
}

// New creates a Marker with the default severity for kind (SeverityError
// if kind isn't one of the built-ins).
func New(span diesel.Span, kind, message string) Marker {
	sev, ok := defaultSeverity[kind]
	if !ok {
		sev = SeverityError
	}
	return Marker{Span: span, Kind: kind, Message: message, Severity: sev}
}

// WithSeverity returns a copy of m with severity overridden.
func (m Marker) WithSeverity(sev Severity) Marker {
	m.Severity = sev
	return m
}
