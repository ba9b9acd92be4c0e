package earley

import "bytes"

func dumpChart(res *Result, i uint64) {
	tracer().Debugf("--- chart %04d ------------------------------------", i)
	for n, st := range res.Charts[i].States() {
		ctx := res.Charts[i].Context(st)
		tracer().Debugf("[%2d] %s  kind=%s errs=%d", n+1, st, ctx.Kind, ctx.SyntacticErrors)
	}
}

func chartString(c *Chart) string {
	var b bytes.Buffer
	b.WriteString("{")
	for i, st := range c.States() {
		if i > 0 {
			b.WriteString(", ")
		} else {
			b.WriteString(" ")
		}
		b.WriteString(st.String())
	}
	b.WriteString(" }")
	return b.String()
}
