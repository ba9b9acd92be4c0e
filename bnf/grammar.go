/*
Package bnf describes context-free grammars for the recognizer: symbols,
rules, productions and the Feature constraint system, plus a fluent
Builder modeled on gorgo's lr.NewGrammarBuilder (see lr/doc.go in the
teacher repository this package descends from).

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package bnf

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("diesel.bnf")
}

// SymbolKind distinguishes terminals from non-terminals within a Symbol.
type SymbolKind int

// The two kinds of grammar symbol.
const (
	TerminalKind SymbolKind = iota
	NonTerminalKind
)

// Symbol is a single vocabulary entry of a grammar: either a terminal,
// identified by a token-type id, or a non-terminal, identified by the
// NonTerminal it refers to. RHS slices of a Production hold Symbols.
//
// Symbol values handed out by a Grammar are canonical: the same
// NonTerminal always yields the identical *Symbol pointer, and the same
// terminal id always yields the identical *Symbol pointer, so Symbols may
// be compared by identity.
type Symbol struct {
	Name string
	Kind SymbolKind
	id   int          // valid iff Kind == TerminalKind
	rule *NonTerminal // valid iff Kind == NonTerminalKind
	dflt string       // default surface text for this terminal, used by completion
}

// IsTerminal reports whether sym is a terminal symbol.
func (sym *Symbol) IsTerminal() bool { return sym.Kind == TerminalKind }

// TokenID returns the token-type id a terminal symbol matches. It panics
// if sym is a non-terminal.
func (sym *Symbol) TokenID() int {
	if sym.Kind != TerminalKind {
		panic("bnf: TokenID() called on a non-terminal symbol")
	}
	return sym.id
}

// NonTerminal returns the rule a non-terminal symbol refers to. It returns
// nil if sym is a terminal.
func (sym *Symbol) NonTerminal() *NonTerminal {
	if sym.Kind != NonTerminalKind {
		return nil
	}
	return sym.rule
}

// DefaultText returns the surface text a completion engine should propose
// for this terminal if the grammar didn't supply a richer proposal. It is
// empty for non-terminals.
func (sym *Symbol) DefaultText() string { return sym.dflt }

func (sym *Symbol) String() string {
	if sym.IsTerminal() {
		return fmt.Sprintf("T(%s)", sym.Name)
	}
	return sym.Name
}

// Action is a reduction action attached to a Production. It receives the
// already-reduced values of the RHS (in left-to-right order, after
// disambiguation) and a restricted Context capability, and produces the
// value for the LHS symbol.
type Action func(ctx ActionContext, rhsValues []interface{}) (interface{}, error)

// ActionContext is the restricted capability view a reduction Action is
// given. Implementations live in package forest, which is the only
// producer of values satisfying this interface; bnf only declares the
// contract grammar authors write against.
type ActionContext interface {
	AddMarker(offset, length uint64, kind, message string)
	SetStyle(offset, length uint64, style string)
	Abort(reason string)
}

// Production is one alternative right-hand side of a NonTerminal.
type Production struct {
	Rule    *NonTerminal
	RHS     []*Symbol
	Serial  int // unique id within the owning Grammar
	Element string
	Feat    Feature
	Act     Action
}

// Len returns the number of RHS symbols (0 for an epsilon production).
func (p *Production) Len() int { return len(p.RHS) }

func (p *Production) String() string {
	s := p.Rule.Name + " ->"
	if len(p.RHS) == 0 {
		return s + " ε"
	}
	for _, sym := range p.RHS {
		s += " " + sym.Name
	}
	return s
}

// NonTerminal is a grammar rule: a name plus its alternative Productions.
type NonTerminal struct {
	Name        string
	Productions []*Production
	sym         *Symbol
	nullable    bool
}

// Symbol returns the canonical Symbol referring to nt.
func (nt *NonTerminal) Symbol() *Symbol { return nt.sym }

// IsNullable reports whether nt can derive the empty string. Valid only
// after Grammar construction has completed (Builder.Grammar()).
func (nt *NonTerminal) IsNullable() bool { return nt.nullable }

// Grammar is a finished, immutable context-free grammar: a set of rules,
// a terminal-id registry, and a named axiom (start-symbol) table.
type Grammar struct {
	Name        string
	rules       map[string]*NonTerminal
	terminals   map[int]*Symbol
	axioms      map[string]*NonTerminal
	axiomOrder  []string
	productions []*Production
}

// Rule looks up a non-terminal by name.
func (g *Grammar) Rule(name string) (*NonTerminal, bool) {
	nt, ok := g.rules[name]
	return nt, ok
}

// Terminal looks up the canonical Symbol for a token-type id, or nil if
// the grammar declares no terminal for that id.
func (g *Grammar) Terminal(id int) *Symbol { return g.terminals[id] }

// Production returns the production with the given serial number.
func (g *Grammar) Production(serial int) *Production { return g.productions[serial] }

// Axiom resolves an axiom (start symbol) by name. An empty name resolves
// to the first axiom declared by the Builder. A non-empty name must match
// an axiom exactly; spec.md §6 leaves "prefix lookup" to the facade layer,
// which calls Axiom once it has resolved a unique name.
func (g *Grammar) Axiom(name string) (*NonTerminal, error) {
	if name == "" {
		if len(g.axiomOrder) == 0 {
			return nil, fmt.Errorf("bnf: grammar %q declares no axiom", g.Name)
		}
		return g.axioms[g.axiomOrder[0]], nil
	}
	nt, ok := g.axioms[name]
	if !ok {
		return nil, fmt.Errorf("bnf: grammar %q has no axiom %q", g.Name, name)
	}
	return nt, nil
}

// AxiomNames returns the declared axiom names in declaration order.
func (g *Grammar) AxiomNames() []string {
	return append([]string(nil), g.axiomOrder...)
}

// EachNonTerminal calls f once for every rule of the grammar, in an
// unspecified order.
func (g *Grammar) EachNonTerminal(f func(*NonTerminal)) {
	for _, nt := range g.rules {
		f(nt)
	}
}

// FindNonTermRules returns the productions of nt — present for symmetry
// with gorgo's lr.Grammar.FindNonTermRules. The recognizer's predict step
// reads nt.Productions directly rather than calling it.
func (g *Grammar) FindNonTermRules(nt *NonTerminal) []*Production {
	return nt.Productions
}

// IsNullable reports whether nt derives the empty string.
func (g *Grammar) IsNullable(nt *NonTerminal) bool { return nt.nullable }
