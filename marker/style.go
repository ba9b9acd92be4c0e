package marker

import (
	"sort"

	diesel "github.com/scala-steward/diesel-core"
)

// Style tags a span of input with a semantic-highlighting class ("keyword",
// "constant", "comment", …), set either by a lexer (diesel.Token.Style)
// or by a reduction action via the forest package's ActionContext.
type Style struct {
	Span  diesel.Span
	Class string
}

// Flatten resolves a set of possibly-overlapping Styles into a
// non-overlapping, position-ordered slice suitable for a "semantic
// tokens" style transport format: where ranges nest, the innermost
// (shortest, i.e. most specific) Style wins for the overlapped region.
//
// Styles are painted shortest-span first, each only claiming the portions
// of its range not already claimed by a more specific style, so a nested
// style is never discarded in favor of an enclosing one.
func Flatten(styles []Style) []Style {
	if len(styles) == 0 {
		return nil
	}
	byPriority := append([]Style(nil), styles...)
	sort.Slice(byPriority, func(i, j int) bool {
		if li, lj := byPriority[i].Span.Len(), byPriority[j].Span.Len(); li != lj {
			return li < lj
		}
		return byPriority[i].Span.From() < byPriority[j].Span.From()
	})

	var painted []Style // sorted by From, pairwise non-overlapping
	for _, s := range byPriority {
		for _, gap := range uncoveredGaps(s.Span, painted) {
			painted = insertStyleSorted(painted, Style{Span: gap, Class: s.Class})
		}
	}
	return painted
}

// uncoveredGaps returns the sub-spans of span not already covered by any
// entry of painted (sorted by From, pairwise non-overlapping).
func uncoveredGaps(span diesel.Span, painted []Style) []diesel.Span {
	cursor, end := span.From(), span.To()
	var gaps []diesel.Span
	for _, p := range painted {
		if cursor >= end {
			break
		}
		if p.Span.To() <= cursor || p.Span.From() >= end {
			continue
		}
		if p.Span.From() > cursor {
			gaps = append(gaps, diesel.Span{cursor, p.Span.From()})
		}
		if p.Span.To() > cursor {
			cursor = p.Span.To()
		}
	}
	if cursor < end {
		gaps = append(gaps, diesel.Span{cursor, end})
	}
	return gaps
}

// insertStyleSorted inserts s into painted, keeping it ordered by From.
func insertStyleSorted(painted []Style, s Style) []Style {
	i := sort.Search(len(painted), func(i int) bool { return painted[i].Span.From() >= s.Span.From() })
	painted = append(painted, Style{})
	copy(painted[i+1:], painted[i:])
	painted[i] = s
	return painted
}
