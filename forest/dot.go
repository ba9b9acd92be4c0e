package forest

import (
	"fmt"
	"io"
	"sort"
)

// WriteDOT exports f to w in GraphViz DOT format: rhs-nodes as rounded
// boxes, symbol-nodes as plain boxes (terminals shaded and pinned to the
// bottom rank), or-edges dashed, and-edges labelled by sequence position.
//
// Ported from gorgo's lr/sppf.ToGraphViz, adapted from that package's
// rhsNode/SymbolNode/orEdge/andEdge representation to this package's
// rhsKey/symKey/orEdges/andEdges maps.
func WriteDOT(f *Forest, w io.Writer) {
	io.WriteString(w, `digraph G {
{ graph [fontname="Helvetica"];
  node [fontname="Helvetica",shape=box,fontsize=10];
  edge [fontname="Helvetica",fontsize=9];
`)
	rhsKeys := make([]rhsKey, 0, len(f.andEdges))
	for rk := range f.andEdges {
		rhsKeys = append(rhsKeys, rk)
	}
	sort.Slice(rhsKeys, func(i, j int) bool {
		if rhsKeys[i].Prod.Serial != rhsKeys[j].Prod.Serial {
			return rhsKeys[i].Prod.Serial < rhsKeys[j].Prod.Serial
		}
		return rhsKeys[i].Begin < rhsKeys[j].Begin
	})
	for _, rk := range rhsKeys {
		fmt.Fprintf(w, "%q [style=rounded,color=\"#404040\"]\n", rhsLabel(rk))
	}

	symKeys := make([]symKey, 0, len(f.orEdges)+len(f.leaves))
	seen := make(map[symKey]bool)
	for sk := range f.orEdges {
		if !seen[sk] {
			seen[sk] = true
			symKeys = append(symKeys, sk)
		}
	}
	for sk := range f.leaves {
		if !seen[sk] {
			seen[sk] = true
			symKeys = append(symKeys, sk)
		}
	}
	sort.Slice(symKeys, func(i, j int) bool {
		if symKeys[i].Begin != symKeys[j].Begin {
			return symKeys[i].Begin < symKeys[j].Begin
		}
		return symKeys[i].Name < symKeys[j].Name
	})
	for _, sk := range symKeys {
		if sk.Terminal {
			fmt.Fprintf(w, "%q [fillcolor=grey90,style=filled]\n", symLabel(sk))
		} else {
			fmt.Fprintf(w, "%q []\n", symLabel(sk))
		}
	}
	io.WriteString(w, "}\n")

	for _, sk := range symKeys {
		for _, rk := range f.orEdges[sk] {
			fmt.Fprintf(w, "%q -> %q [style=dashed]\n", symLabel(sk), rhsLabel(rk))
		}
	}
	for _, rk := range rhsKeys {
		for _, seq := range f.andEdges[rk] {
			for i, child := range seq {
				fmt.Fprintf(w, "%q -> %q [label=%d]\n", rhsLabel(rk), symLabel(child), i)
			}
		}
	}

	io.WriteString(w, "{ rank=max;\n")
	for _, sk := range symKeys {
		if sk.Terminal {
			fmt.Fprintf(w, "%q;", symLabel(sk))
		}
	}
	io.WriteString(w, "\n}\n}\n")
}

func rhsLabel(rk rhsKey) string {
	return fmt.Sprintf("rule %d (%d…%d)", rk.Prod.Serial, rk.Begin, rk.End)
}

func symLabel(sk symKey) string {
	return fmt.Sprintf("%s (%d…%d)", sk.Name, sk.Begin, sk.End)
}
