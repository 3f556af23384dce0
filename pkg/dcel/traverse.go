package dcel

import (
	"github.com/aucupo/dcelkit/pkg/geomerr"
)

// Source returns the origin of e, i.e. the target of its twin.
func (d *DCEL) Source(e EdgeID) (VertexID, error) {
	const op = "dcel.Source"
	if !d.validEdge(e) {
		return NoVertex, geomerr.InvalidArgument(op, "edge %d out of range", e)
	}
	t := d.edges[e].Twin
	if t == NoEdge {
		return NoVertex, geomerr.MalformedTopology(op, "edge %d has no twin", e)
	}
	return d.edges[t].Target, nil
}

// EdgesEqual reports whether a and b join the same ordered pair of points.
func (d *DCEL) EdgesEqual(a, b EdgeID) (bool, error) {
	sa, err := d.Source(a)
	if err != nil {
		return false, err
	}
	sb, err := d.Source(b)
	if err != nil {
		return false, err
	}
	return d.Point(sa) == d.Point(sb) &&
		d.Point(d.edges[a].Target) == d.Point(d.edges[b].Target), nil
}

// OutgoingEdges returns the ring of half-edges leaving v, starting from its
// stored outgoing edge and stepping twin.next. The walk stops when it comes
// back to the start or reaches an edge without next.
func (d *DCEL) OutgoingEdges(v VertexID) ([]EdgeID, error) {
	const op = "dcel.OutgoingEdges"
	if !d.validVertex(v) {
		return nil, geomerr.InvalidArgument(op, "vertex %d out of range", v)
	}
	start := d.vertices[v].Outgoing
	if start == NoEdge {
		return nil, nil
	}

	var ring []EdgeID
	seen := make(map[EdgeID]bool)
	for e := start; e != NoEdge && !seen[e]; {
		seen[e] = true
		ring = append(ring, e)
		t := d.edges[e].Twin
		if t == NoEdge {
			return nil, geomerr.MalformedTopology(op, "edge %d around vertex %d has no twin", e, v)
		}
		e = d.edges[t].Next
	}
	return ring, nil
}

// IncomingEdges returns the ring of half-edges entering v, starting from
// the twin of its stored outgoing edge and stepping next.twin.
func (d *DCEL) IncomingEdges(v VertexID) ([]EdgeID, error) {
	const op = "dcel.IncomingEdges"
	if !d.validVertex(v) {
		return nil, geomerr.InvalidArgument(op, "vertex %d out of range", v)
	}
	out := d.vertices[v].Outgoing
	if out == NoEdge {
		return nil, nil
	}
	in := d.edges[out].Twin
	if in == NoEdge {
		return nil, geomerr.MalformedTopology(op, "outgoing edge %d of vertex %d has no twin", out, v)
	}

	var ring []EdgeID
	seen := make(map[EdgeID]bool)
	for !seen[in] {
		seen[in] = true
		ring = append(ring, in)
		next := d.edges[in].Next
		if next == NoEdge {
			break
		}
		in = d.edges[next].Twin
		if in == NoEdge {
			return nil, geomerr.MalformedTopology(op, "edge %d around vertex %d has no twin", next, v)
		}
	}
	return ring, nil
}

// Chain returns the boundary chain containing e. For a closed chain the
// result starts at e and follows next. For an open chain the edges before
// e (reached through prev) come first, so the result runs from the open
// start to the open end.
func (d *DCEL) Chain(e EdgeID) ([]EdgeID, error) {
	if !d.validEdge(e) {
		return nil, geomerr.InvalidArgument("dcel.Chain", "edge %d out of range", e)
	}

	seen := map[EdgeID]bool{e: true}
	chain := []EdgeID{e}
	closed := false
	for cur := d.edges[e].Next; cur != NoEdge; cur = d.edges[cur].Next {
		if cur == e {
			closed = true
			break
		}
		if seen[cur] {
			break
		}
		seen[cur] = true
		chain = append(chain, cur)
	}
	if closed {
		return chain, nil
	}

	var before []EdgeID
	for cur := d.edges[e].Prev; cur != NoEdge && !seen[cur]; cur = d.edges[cur].Prev {
		seen[cur] = true
		before = append(before, cur)
	}
	if len(before) == 0 {
		return chain, nil
	}
	out := make([]EdgeID, 0, len(before)+len(chain))
	for i := len(before) - 1; i >= 0; i-- {
		out = append(out, before[i])
	}
	return append(out, chain...), nil
}

// ChainIsClosed reports whether a chain returned by Chain is a cycle.
func (d *DCEL) ChainIsClosed(chain []EdgeID) bool {
	return len(chain) > 0 && d.edges[chain[0]].Prev != NoEdge
}

// AdjacentFaces returns the faces on the other side of every boundary
// edge of f, in discovery order, without duplicates. f itself is included
// when some of its edges have twins on the same face.
func (d *DCEL) AdjacentFaces(f FaceID) ([]FaceID, error) {
	const op = "dcel.AdjacentFaces"
	if !d.validFace(f) {
		return nil, geomerr.InvalidArgument(op, "face %d out of range", f)
	}

	var out []FaceID
	seen := make(map[FaceID]bool)
	for _, c := range d.faces[f].Chains {
		chain, err := d.Chain(c.Edge)
		if err != nil {
			return nil, err
		}
		for _, e := range chain {
			t := d.edges[e].Twin
			if t == NoEdge {
				return nil, geomerr.MalformedTopology(op, "edge %d of face %d has no twin", e, f)
			}
			nf := d.edges[t].Face
			if nf == NoFace || seen[nf] {
				continue
			}
			seen[nf] = true
			out = append(out, nf)
		}
	}
	return out, nil
}

// IsBackground reports whether f bounds only empty space: it has at least
// one chain and all of them are holes.
func (d *DCEL) IsBackground(f FaceID) bool {
	chains := d.faces[f].Chains
	if len(chains) == 0 {
		return false
	}
	for _, c := range chains {
		if c.Kind != ChainHole {
			return false
		}
	}
	return true
}
