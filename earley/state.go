/*
Package earley implements a chart-based Earley recognizer over grammars
described by package bnf, with built-in two-phase error recovery
(insertion, deletion, mutation of terminals).

Ported from gorgo's lr/earley package (predict/scan/complete dispatch
structure, the iteratable-set-as-work-queue chart representation) and
generalized per spec.md §3-4: states carry a Feature, StateContext tracks
syntactic-error cost and back-pointers for ambiguity-aware tree
reconstruction, and a stuck state triggers recovery instead of simply
failing the parse (gorgo's own earley.go has no recovery at all).

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package earley

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
	"github.com/scala-steward/diesel-core/bnf"
	diesel "github.com/scala-steward/diesel-core"
)

func tracer() tracing.Trace {
	return tracing.Select("diesel.earley")
}

// State is an Earley item: "at chart position Begin…End, production Prod
// has been matched up to RHS[Dot], carrying Feature". State is a plain
// comparable value so it can be used directly as a map key and as an
// element of an iteratable.Set (spec.md §3).
type State struct {
	Prod    *bnf.Production
	Begin   uint64
	End     uint64
	Dot     int
	Feature bnf.Feature
}

// IsCompleted reports whether the dot has reached the end of the
// production's RHS.
func (s State) IsCompleted() bool { return s.Dot == s.Prod.Len() }

// NextSymbol returns the RHS symbol immediately after the dot, or nil if
// the state is completed.
func (s State) NextSymbol() *bnf.Symbol {
	if s.IsCompleted() {
		return nil
	}
	return s.Prod.RHS[s.Dot]
}

// Advance returns a copy of s with the dot moved one position to the
// right.
func (s State) Advance() State {
	s.Dot++
	return s
}

func (s State) String() string {
	rhs := ""
	for i, sym := range s.Prod.RHS {
		if i == s.Dot {
			rhs += " •"
		}
		rhs += " " + sym.Name
	}
	if s.IsCompleted() {
		rhs += " •"
	}
	return fmt.Sprintf("[%s ->%s, %d…%d]", s.Prod.Rule.Name, rhs, s.Begin, s.End)
}

// Kind classifies how a State was derived. The Kind recorded for a state
// only ever improves (moves towards Kernel); see StateContext.
type Kind int

// Kind values, ordered from most to least preferred.
const (
	Kernel Kind = iota
	Processed
	Incompatible
	ErrorRecovery
)

func (k Kind) String() string {
	switch k {
	case Kernel:
		return "kernel"
	case Processed:
		return "processed"
	case Incompatible:
		return "incompatible"
	case ErrorRecovery:
		return "error-recovery"
	}
	return "?"
}

// TerminalItem is the causal value recorded on a BackPtr whose predecessor
// advanced over a terminal, rather than completing a non-terminal. It is
// one of TokenValue, InsertedTokenValue, DeletedTokenValue or
// MutationTokenValue.
type TerminalItem interface {
	isTerminalItem()
	Pos() uint64
}

// TokenValue records an ordinary, successful scan of an input token.
type TokenValue struct {
	At  uint64
	Tok diesel.Token
}

func (TokenValue) isTerminalItem()    {}
func (v TokenValue) Pos() uint64      { return v.At }

// InsertedTokenValue records a zero-width synthetic terminal inserted by
// error recovery because the expected terminal never appeared in the
// input (spec.md §4.1, repair 1).
type InsertedTokenValue struct {
	At  uint64
	Sym *bnf.Symbol
}

func (InsertedTokenValue) isTerminalItem() {}
func (v InsertedTokenValue) Pos() uint64   { return v.At }

// DeletedTokenValue records an unexpected input token that error recovery
// skipped over (spec.md §4.1, repair 2).
type DeletedTokenValue struct {
	At  uint64
	Tok diesel.Token
}

func (DeletedTokenValue) isTerminalItem() {}
func (v DeletedTokenValue) Pos() uint64   { return v.At }

// MutationTokenValue records an input token that error recovery consumed
// as if it had been the expected terminal (spec.md §4.1, repair 3).
type MutationTokenValue struct {
	At       uint64
	Tok      diesel.Token
	Expected *bnf.Symbol
}

func (MutationTokenValue) isTerminalItem() {}
func (v MutationTokenValue) Pos() uint64   { return v.At }

// BackPtr records one way a State was reached: either by scanning a
// terminal (Causal is a TerminalItem) or by completing a non-terminal
// (Causal is a State). Predecessor is the zero State for the seed items
// predict() inserts at a rule's first symbol.
type BackPtr struct {
	Predecessor State
	Causal      interface{} // State | TerminalItem | nil
}

func (bp BackPtr) isZero() bool {
	return bp.Predecessor == (State{}) && bp.Causal == nil
}

// StateContext is the mutable bookkeeping attached to a State once it
// enters a Chart: its best-known Kind, its minimal known syntactic-error
// cost, and the set of BackPtrs achieving that minimal cost (spec.md §3
// invariant: strictly-worse back-pointers are discarded, equal-cost ones
// are kept and deduplicated).
type StateContext struct {
	Kind            Kind
	SyntacticErrors int
	BackPtrs        []BackPtr
}

// infiniteCost marks a freshly seeded, not-yet-derived state (Dot > 0
// would be unreachable without a BackPtr, so it starts at "infinity"
// until a real BackPtr lowers it).
const infiniteCost = int(^uint(0) >> 1)
