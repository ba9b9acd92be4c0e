package bnf

import "fmt"

// Builder is a fluent grammar constructor, modeled on gorgo's
// lr.NewGrammarBuilder (lr/doc.go):
//
//	b := bnf.NewBuilder("expr")
//	b.LHS("Sum").N("Sum").T("plus", tokPlus).N("Product").End()
//	b.LHS("Sum").N("Product").End()
//	b.LHS("Sum").Axiom().Epsilon()
//	g, err := b.Grammar()
//
// Every LHS call opens a new production; End (or Epsilon) closes it and
// appends it to the named rule, creating the rule on first mention.
type Builder struct {
	g        *Grammar
	cur      *Production
	curName  string
	curAxiom bool
	err      error
}

// NewBuilder starts a new grammar builder named name (used only for
// diagnostics).
func NewBuilder(name string) *Builder {
	return &Builder{
		g: &Grammar{
			Name:      name,
			rules:     make(map[string]*NonTerminal),
			terminals: make(map[int]*Symbol),
			axioms:    make(map[string]*NonTerminal),
		},
	}
}

func (b *Builder) rule(name string) *NonTerminal {
	nt, ok := b.g.rules[name]
	if !ok {
		nt = &NonTerminal{Name: name}
		nt.sym = &Symbol{Name: name, Kind: NonTerminalKind, rule: nt}
		b.g.rules[name] = nt
	}
	return nt
}

// LHS starts a new production for non-terminal name.
func (b *Builder) LHS(name string) *Builder {
	if b.err != nil {
		return b
	}
	if b.cur != nil {
		b.err = fmt.Errorf("bnf: LHS(%q) called before closing production for %q (use End/Epsilon)", name, b.curName)
		return b
	}
	nt := b.rule(name)
	b.cur = &Production{Rule: nt, Feat: NoFeature{}}
	b.curName = name
	b.curAxiom = false
	return b
}

// N appends a non-terminal reference to the production under construction.
func (b *Builder) N(name string) *Builder {
	if b.err != nil || b.cur == nil {
		return b.needLHS("N")
	}
	nt := b.rule(name)
	b.cur.RHS = append(b.cur.RHS, nt.sym)
	return b
}

// T appends a terminal reference (token-type id) to the production under
// construction. text is the default surface form the completion engine
// proposes for this terminal.
func (b *Builder) T(text string, id int) *Builder {
	if b.err != nil || b.cur == nil {
		return b.needLHS("T")
	}
	sym, ok := b.g.terminals[id]
	if !ok {
		sym = &Symbol{Name: text, Kind: TerminalKind, id: id, dflt: text}
		b.g.terminals[id] = sym
	}
	b.cur.RHS = append(b.cur.RHS, sym)
	return b
}

func (b *Builder) needLHS(op string) *Builder {
	if b.err == nil {
		b.err = fmt.Errorf("bnf: %s() called with no open production (call LHS first)", op)
	}
	return b
}

// Element tags the production under construction with a user-facing
// construct name, surfaced on forest.GenericNode.Element.
func (b *Builder) Element(tag string) *Builder {
	if b.cur != nil {
		b.cur.Element = tag
	}
	return b
}

// Feature attaches a Feature to the production under construction.
func (b *Builder) Feature(f Feature) *Builder {
	if b.cur != nil {
		b.cur.Feat = f
	}
	return b
}

// Action attaches a reduction Action to the production under construction.
func (b *Builder) Action(a Action) *Builder {
	if b.cur != nil {
		b.cur.Act = a
	}
	return b
}

// Axiom marks the rule currently under construction as a start symbol.
// Call it between LHS and End/Epsilon.
func (b *Builder) Axiom() *Builder {
	b.curAxiom = true
	return b
}

// End closes the production under construction and appends it to its
// rule.
func (b *Builder) End() *Builder {
	if b.err != nil {
		return b
	}
	if b.cur == nil {
		return b.needLHS("End")
	}
	b.closeCurrent()
	return b
}

// Epsilon closes the production under construction as an empty (ε)
// production; any symbols already appended are discarded, mirroring
// gorgo's GrammarBuilder.Epsilon().
func (b *Builder) Epsilon() *Builder {
	if b.err != nil {
		return b
	}
	if b.cur == nil {
		return b.needLHS("Epsilon")
	}
	b.cur.RHS = nil
	b.closeCurrent()
	return b
}

func (b *Builder) closeCurrent() {
	nt := b.cur.Rule
	b.cur.Serial = len(b.g.productions)
	b.g.productions = append(b.g.productions, b.cur)
	nt.Productions = append(nt.Productions, b.cur)
	if b.curAxiom {
		if _, ok := b.g.axioms[nt.Name]; !ok {
			b.g.axiomOrder = append(b.g.axiomOrder, nt.Name)
		}
		b.g.axioms[nt.Name] = nt
	}
	b.cur, b.curName, b.curAxiom = nil, "", false
}

// Grammar finalizes the builder: it computes the nullable-rule fixed
// point (spec.md §3 "emptyRules") and returns the finished Grammar. An
// error is returned if a production is still open, if the grammar
// declares no axiom, or if an axiom rule has zero productions.
func (b *Builder) Grammar() (*Grammar, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.cur != nil {
		return nil, fmt.Errorf("bnf: unclosed production for %q (call End/Epsilon)", b.curName)
	}
	if len(b.g.axiomOrder) == 0 {
		return nil, fmt.Errorf("bnf: grammar %q declares no axiom (call Axiom() on a production)", b.g.Name)
	}
	for _, name := range b.g.axiomOrder {
		if len(b.g.axioms[name].Productions) == 0 {
			return nil, fmt.Errorf("bnf: axiom %q has no productions", name)
		}
	}
	computeNullable(b.g)
	tracer().Infof("grammar %q built: %d rules, %d productions, axioms=%v",
		b.g.Name, len(b.g.rules), len(b.g.productions), b.g.axiomOrder)
	return b.g, nil
}

// computeNullable runs the textbook fixed-point over productions: a rule
// is nullable if it has an epsilon production, or a production all of
// whose RHS symbols are themselves nullable non-terminals.
func computeNullable(g *Grammar) {
	changed := true
	for changed {
		changed = false
		for _, nt := range g.rules {
			if nt.nullable {
				continue
			}
			for _, p := range nt.Productions {
				if isNullableProduction(p) {
					nt.nullable = true
					changed = true
					break
				}
			}
		}
	}
}

func isNullableProduction(p *Production) bool {
	for _, sym := range p.RHS {
		if sym.IsTerminal() || !sym.NonTerminal().nullable {
			return false
		}
	}
	return true
}
