package dcel

import (
	"github.com/aucupo/dcelkit/pkg/geomerr"
	"github.com/aucupo/dcelkit/pkg/vec"
)

// MakeFromPoints rebuilds d as a point set: every point becomes an
// isolated vertex of the exterior face.
func (d *DCEL) MakeFromPoints(points []vec.Point) {
	d.Reset()
	for _, p := range points {
		d.AddIsolatedVertex(ExteriorFace, d.AddVertex(p))
	}
}

// MakeFromLine rebuilds d as an open chain through points. Both directions
// of the chain lie on the exterior face, and only the forward chain is
// registered on it. Fewer than two points degrade to MakeFromPoints.
func (d *DCEL) MakeFromLine(points []vec.Point) {
	if len(points) < 2 {
		d.MakeFromPoints(points)
		return
	}
	d.Reset()

	prev := d.AddVertex(points[0])
	lastE, lastT := NoEdge, NoEdge
	for _, p := range points[1:] {
		v := d.AddVertex(p)
		e, t := d.AddEdgePair(prev, v, ExteriorFace, ExteriorFace)
		if lastE == NoEdge {
			d.AddChain(ExteriorFace, e, ChainOpen)
		} else {
			d.Link(lastE, e)
			d.Link(t, lastT)
		}
		lastE, lastT = e, t
		prev = v
	}
}

// MakeFromPolygon rebuilds d as a two-sided triangle fan over a convex
// boundary. Triangle i is (b[0], b[i-1], b[i]); each triangle gets a front
// face (the first one reuses the exterior face) and a back face, and
// consecutive triangles share the fan diagonals as twins. Boundaries with
// fewer than three points degrade to MakeFromLine.
func (d *DCEL) MakeFromPolygon(boundary []vec.Point) {
	if len(boundary) < 3 {
		d.MakeFromLine(boundary)
		return
	}
	d.Reset()

	v0 := d.AddVertex(boundary[0])
	v1 := d.AddVertex(boundary[1])
	lastE2, lastT2 := NoEdge, NoEdge
	last := len(boundary) - 1

	for i := 2; i <= last; i++ {
		v2 := d.AddVertex(boundary[i])

		front := ExteriorFace
		if i > 2 {
			front = d.AddFace()
		}
		back := d.AddFace()

		e0 := d.newEdge(v1, front)
		e1 := d.newEdge(v2, front)
		e2 := d.newEdge(v0, front)
		d.Link(e0, e1)
		d.Link(e1, e2)
		d.Link(e2, e0)

		t0 := d.newEdge(v0, back)
		t1 := d.newEdge(v1, back)
		t2 := d.newEdge(v2, back)
		d.Link(t0, t2)
		d.Link(t2, t1)
		d.Link(t1, t0)

		if i == 2 {
			d.pair(e0, t0)
		} else {
			d.pair(e0, lastE2)
			d.pair(t0, lastT2)
		}
		d.pair(e1, t1)
		if i == last {
			d.pair(e2, t2)
		}

		d.AddChain(front, e0, ChainOuter)
		d.AddChain(back, t0, ChainOuter)

		d.setOutgoingIfUnset(v0, e0)
		d.setOutgoingIfUnset(v1, e1)
		d.setOutgoingIfUnset(v2, e2)

		lastE2, lastT2 = e2, t2
		v1 = v2
	}
}

func (d *DCEL) pair(a, b EdgeID) {
	d.edges[a].Twin = b
	d.edges[b].Twin = a
}

// halfKey identifies a directed mesh edge by vertex indices.
type halfKey struct {
	from, to uint32
}

// MakeFromMesh rebuilds d from an indexed triangle list. Each triangle
// becomes a face (the first one is the exterior face). Half-edges are
// stitched to their twins through the reversed index pair, and vertices
// are shared by mesh index.
//
// Every half-edge must end up complete. A directed edge used by two
// triangles, or a boundary edge without a partner, fails with
// ErrMalformedTopology. On failure d is left empty.
func (d *DCEL) MakeFromMesh(points []vec.Point, indices []uint32) error {
	const op = "dcel.MakeFromMesh"

	d.Reset()
	if len(indices)%3 != 0 {
		return geomerr.InvalidArgument(op, "index count %d is not a multiple of 3", len(indices))
	}
	for i, idx := range indices {
		if int(idx) >= len(points) {
			return geomerr.InvalidArgument(op, "index %d at position %d out of range (%d points)", idx, i, len(points))
		}
	}

	nd := New()
	queue := make([][3]uint32, 0, len(indices)/3)
	for i := 0; i < len(indices); i += 3 {
		queue = append(queue, [3]uint32{indices[i], indices[i+1], indices[i+2]})
	}

	vertexOf := make(map[uint32]VertexID)
	vertex := func(i uint32) VertexID {
		v, ok := vertexOf[i]
		if !ok {
			v = nd.AddVertex(points[i])
			vertexOf[i] = v
		}
		return v
	}
	pending := make(map[halfKey]EdgeID)
	used := make(map[halfKey]struct{})

	first := true
	for len(queue) > 0 {
		tri := queue[0]
		queue = queue[1:]

		if tri[0] == tri[1] || tri[1] == tri[2] || tri[2] == tri[0] {
			return geomerr.DegenerateGeometry(op, "triangle %v repeats a vertex", tri)
		}

		face := ExteriorFace
		if !first {
			face = nd.AddFace()
		}
		first = false

		var es [3]EdgeID
		for k := 0; k < 3; k++ {
			s, t := tri[k], tri[(k+1)%3]
			key := halfKey{s, t}
			if _, dup := used[key]; dup {
				return geomerr.MalformedTopology(op, "directed edge %d->%d used by more than one triangle", s, t)
			}
			used[key] = struct{}{}

			e, ok := pending[key]
			if ok {
				delete(pending, key)
				nd.edges[e].Face = face
			} else {
				var twin EdgeID
				e, twin = nd.AddEdgePair(vertex(s), vertex(t), face, NoFace)
				pending[halfKey{t, s}] = twin
			}
			nd.vertices[vertex(s)].Outgoing = e
			es[k] = e
		}
		nd.Link(es[0], es[1])
		nd.Link(es[1], es[2])
		nd.Link(es[2], es[0])
		nd.AddChain(face, es[0], ChainOuter)
	}

	if len(pending) > 0 {
		var sample halfKey
		for k := range pending {
			sample = k
			break
		}
		return geomerr.MalformedTopology(op, "open surface: %d edges without a partner, e.g. %d->%d",
			len(pending), sample.to, sample.from)
	}

	*d = *nd
	return nil
}
