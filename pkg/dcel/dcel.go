package dcel

import (
	"fmt"

	"github.com/aucupo/dcelkit/pkg/geomerr"
	"github.com/aucupo/dcelkit/pkg/vec"
)

// VertexID indexes the vertex arena.
type VertexID int32

// EdgeID indexes the half-edge arena.
type EdgeID int32

// FaceID indexes the face arena.
type FaceID int32

// Sentinels for unset links.
const (
	NoVertex VertexID = -1
	NoEdge   EdgeID   = -1
	NoFace   FaceID   = -1
)

// ExteriorFace is the root face of every DCEL.
const ExteriorFace FaceID = 0

// Vertex is a point plus one arbitrary outgoing half-edge.
type Vertex struct {
	Point    vec.Point
	Outgoing EdgeID // NoEdge for isolated vertices
}

// Edge is one direction of a half-edge pair. Its source is the target of
// its twin.
type Edge struct {
	Target VertexID
	Face   FaceID
	Twin   EdgeID
	Prev   EdgeID
	Next   EdgeID
}

// Complete reports whether all five links are set.
func (e Edge) Complete() bool {
	return e.Target != NoVertex && e.Face != NoFace &&
		e.Twin != NoEdge && e.Prev != NoEdge && e.Next != NoEdge
}

// ChainKind tags a boundary chain registered on a face.
type ChainKind int

const (
	ChainOpen  ChainKind = iota // polyline, prev of the first edge is unset
	ChainOuter                  // closed CCW boundary
	ChainHole                   // closed CW boundary around empty space
)

func (k ChainKind) String() string {
	switch k {
	case ChainOpen:
		return "open"
	case ChainOuter:
		return "outer"
	case ChainHole:
		return "hole"
	default:
		return fmt.Sprintf("ChainKind(%d)", int(k))
	}
}

// Chain is the representative half-edge of one boundary chain.
type Chain struct {
	Edge EdgeID
	Kind ChainKind
}

// Face holds one representative edge per boundary chain, plus isolated
// vertices for point sets.
type Face struct {
	Chains   []Chain
	Isolated []VertexID
}

// DCEL is the arena-backed half-edge structure.
type DCEL struct {
	vertices []Vertex
	edges    []Edge
	faces    []Face
}

// New returns a DCEL holding only the empty exterior face.
func New() *DCEL {
	d := &DCEL{}
	d.Reset()
	return d
}

// Reset discards all topology and starts over from a single empty face.
func (d *DCEL) Reset() {
	d.vertices = d.vertices[:0]
	d.edges = d.edges[:0]
	d.faces = append(d.faces[:0], Face{})
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (d *DCEL) VertexCount() int { return len(d.vertices) }
func (d *DCEL) EdgeCount() int   { return len(d.edges) }
func (d *DCEL) FaceCount() int   { return len(d.faces) }

// Vertex returns a copy of vertex v.
func (d *DCEL) Vertex(v VertexID) Vertex { return d.vertices[v] }

// Edge returns a copy of edge e.
func (d *DCEL) Edge(e EdgeID) Edge { return d.edges[e] }

// Face returns a copy of face f. The slices are shared with the DCEL and
// must not be modified.
func (d *DCEL) Face(f FaceID) Face { return d.faces[f] }

// Point returns the position of vertex v.
func (d *DCEL) Point(v VertexID) vec.Point { return d.vertices[v].Point }

// AdjacentEdges returns the representative edge of every boundary chain of
// f, in insertion order.
func (d *DCEL) AdjacentEdges(f FaceID) []EdgeID {
	chains := d.faces[f].Chains
	out := make([]EdgeID, len(chains))
	for i, c := range chains {
		out[i] = c.Edge
	}
	return out
}

// IsolatedVertices returns the isolated vertices of f.
func (d *DCEL) IsolatedVertices(f FaceID) []VertexID {
	return append([]VertexID(nil), d.faces[f].Isolated...)
}

// Points returns the position of every vertex in arena order.
func (d *DCEL) Points() []vec.Point {
	out := make([]vec.Point, len(d.vertices))
	for i, v := range d.vertices {
		out[i] = v.Point
	}
	return out
}

func (d *DCEL) validVertex(v VertexID) bool { return v >= 0 && int(v) < len(d.vertices) }
func (d *DCEL) validEdge(e EdgeID) bool     { return e >= 0 && int(e) < len(d.edges) }
func (d *DCEL) validFace(f FaceID) bool     { return f >= 0 && int(f) < len(d.faces) }

// ---------------------------------------------------------------------------
// Builder
// ---------------------------------------------------------------------------

// AddVertex appends a vertex without any outgoing edge.
func (d *DCEL) AddVertex(p vec.Point) VertexID {
	d.vertices = append(d.vertices, Vertex{Point: p, Outgoing: NoEdge})
	return VertexID(len(d.vertices) - 1)
}

// AddFace appends an empty face.
func (d *DCEL) AddFace() FaceID {
	d.faces = append(d.faces, Face{})
	return FaceID(len(d.faces) - 1)
}

// AddIsolatedVertex registers v as an isolated vertex of f.
func (d *DCEL) AddIsolatedVertex(f FaceID, v VertexID) {
	d.faces[f].Isolated = append(d.faces[f].Isolated, v)
}

// AddEdgePair creates the half-edge from -> to on face and its twin
// to -> from on twinFace. Either face may be NoFace when not yet known.
// Endpoints without an outgoing edge adopt the new half-edges.
func (d *DCEL) AddEdgePair(from, to VertexID, face, twinFace FaceID) (EdgeID, EdgeID) {
	e := d.newEdge(to, face)
	t := d.newEdge(from, twinFace)
	d.edges[e].Twin = t
	d.edges[t].Twin = e
	d.setOutgoingIfUnset(from, e)
	d.setOutgoingIfUnset(to, t)
	return e, t
}

func (d *DCEL) newEdge(target VertexID, face FaceID) EdgeID {
	d.edges = append(d.edges, Edge{
		Target: target,
		Face:   face,
		Twin:   NoEdge,
		Prev:   NoEdge,
		Next:   NoEdge,
	})
	return EdgeID(len(d.edges) - 1)
}

func (d *DCEL) setOutgoingIfUnset(v VertexID, e EdgeID) {
	if d.vertices[v].Outgoing == NoEdge {
		d.vertices[v].Outgoing = e
	}
}

// Link sets a.next = b and b.prev = a.
func (d *DCEL) Link(a, b EdgeID) {
	d.edges[a].Next = b
	d.edges[b].Prev = a
}

// SetFace assigns the adjacent face of e.
func (d *DCEL) SetFace(e EdgeID, f FaceID) {
	d.edges[e].Face = f
}

// AddChain registers e as the representative of a boundary chain of f.
func (d *DCEL) AddChain(f FaceID, e EdgeID, kind ChainKind) {
	d.faces[f].Chains = append(d.faces[f].Chains, Chain{Edge: e, Kind: kind})
}

// ChangeOutgoingEdge makes e the stored outgoing edge of v. The source of e
// must be v.
func (d *DCEL) ChangeOutgoingEdge(v VertexID, e EdgeID) error {
	const op = "dcel.ChangeOutgoingEdge"
	if !d.validVertex(v) {
		return geomerr.InvalidArgument(op, "vertex %d out of range", v)
	}
	src, err := d.Source(e)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if src != v {
		return geomerr.InvalidArgument(op, "edge %d starts at vertex %d, not %d", e, src, v)
	}
	d.vertices[v].Outgoing = e
	return nil
}
