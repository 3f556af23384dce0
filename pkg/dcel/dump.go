package dcel

import (
	"fmt"
	"strings"
)

// String dumps the arenas in a compact, line-oriented form for debugging.
func (d *DCEL) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "DCEL %d vertices, %d edges, %d faces\n", len(d.vertices), len(d.edges), len(d.faces))
	for i, v := range d.vertices {
		fmt.Fprintf(&b, "  v%d %s out=%s\n", i, v.Point.WKTCoords(), edgeRef(v.Outgoing))
	}
	for i, e := range d.edges {
		fmt.Fprintf(&b, "  e%d ->v%d face=%s twin=%s prev=%s next=%s\n",
			i, e.Target, faceRef(e.Face), edgeRef(e.Twin), edgeRef(e.Prev), edgeRef(e.Next))
	}
	for i, f := range d.faces {
		fmt.Fprintf(&b, "  f%d", i)
		for _, c := range f.Chains {
			fmt.Fprintf(&b, " %s:e%d", c.Kind, c.Edge)
		}
		if len(f.Isolated) > 0 {
			fmt.Fprintf(&b, " isolated=%v", f.Isolated)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func edgeRef(e EdgeID) string {
	if e == NoEdge {
		return "-"
	}
	return fmt.Sprintf("e%d", e)
}

func faceRef(f FaceID) string {
	if f == NoFace {
		return "-"
	}
	return fmt.Sprintf("f%d", f)
}
