package earley

import (
	"github.com/scala-steward/diesel-core/internal/iteratable"
	diesel "github.com/scala-steward/diesel-core"
)

// Chart is the set of States spanning positions [0…Index] on their End
// side, i.e. charts[i] holds every State with State.End == i. It doubles
// as gorgo's earley.go does: the same iteratable.Set backs both the
// final contents of the chart and the FIFO work queue predict/scan/
// complete drain while building it.
type Chart struct {
	Index uint64
	Tok   diesel.Token // the token consumed to arrive at this chart, nil for chart 0

	queue             *iteratable.Set
	ctx               map[State]*StateContext
	byNextNonTerminal map[string][]State
}

func newChart(i uint64) *Chart {
	return &Chart{
		Index:             i,
		queue:             iteratable.NewSet(8),
		ctx:               make(map[State]*StateContext),
		byNextNonTerminal: make(map[string][]State),
	}
}

// States returns every State recorded in this chart, in the order they
// were first derived.
func (c *Chart) States() []State {
	vals := c.queue.Values()
	out := make([]State, len(vals))
	for i, v := range vals {
		out[i] = v.(State)
	}
	return out
}

// Context returns the StateContext recorded for st, or nil if st was
// never added to this chart.
func (c *Chart) Context(st State) *StateContext { return c.ctx[st] }

// statesExpecting returns every State in this chart whose next symbol is
// the non-terminal named name (used by complete() to find predecessors
// waiting on a just-completed rule).
func (c *Chart) statesExpecting(name string) []State {
	return c.byNextNonTerminal[name]
}
