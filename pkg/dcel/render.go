package dcel

import (
	"fmt"

	"github.com/aucupo/dcelkit/pkg/geomerr"
	"github.com/aucupo/dcelkit/pkg/predicate"
	"github.com/aucupo/dcelkit/pkg/vec"
)

// Primitive tells how Elements must be interpreted.
type Primitive int

const (
	PrimPoints    Primitive = iota // one index per point
	PrimLines                      // index pairs
	PrimTriangles                  // index triples
)

func (p Primitive) String() string {
	switch p {
	case PrimPoints:
		return "points"
	case PrimLines:
		return "lines"
	case PrimTriangles:
		return "triangles"
	default:
		return fmt.Sprintf("Primitive(%d)", int(p))
	}
}

// RenderArrays are flat buffers ready to be uploaded as vertex and index
// buffers.
type RenderArrays struct {
	Vertices  []vec.Point
	Elements  []uint32
	Outline   []uint32
	Primitive Primitive
}

// Empty reports whether there is nothing to draw.
func (r RenderArrays) Empty() bool {
	return len(r.Elements) == 0
}

// indexer assigns buffer indices to points, one per distinct position.
type indexer struct {
	index    map[vec.Point]uint32
	vertices []vec.Point
}

func newIndexer() *indexer {
	return &indexer{index: make(map[vec.Point]uint32)}
}

func (ix *indexer) of(p vec.Point) uint32 {
	if i, ok := ix.index[p]; ok {
		return i
	}
	i := uint32(len(ix.vertices))
	ix.index[p] = i
	ix.vertices = append(ix.vertices, p)
	return i
}

// RenderableArrays flattens d into render buffers.
//
// A point set yields every isolated vertex of the exterior face as its own
// element. Otherwise faces are visited breadth-first from the exterior
// face: open chains emit segments, closed chains emit a triangle fan, and
// an edge becomes an outline segment when the face across it was already
// visited and the two triangles meeting there are not coplanar. Background
// faces are traversed but emit nothing.
func (d *DCEL) RenderableArrays() (RenderArrays, error) {
	const op = "dcel.RenderableArrays"

	if iso := d.faces[ExteriorFace].Isolated; len(iso) > 0 {
		out := RenderArrays{Primitive: PrimPoints}
		for i, v := range iso {
			out.Vertices = append(out.Vertices, d.vertices[v].Point)
			out.Elements = append(out.Elements, uint32(i))
		}
		return out, nil
	}

	ix := newIndexer()
	var out RenderArrays
	sawOpen, sawClosed := false, false

	visited := make(map[FaceID]bool)
	queued := map[FaceID]bool{ExteriorFace: true}
	queue := []FaceID{ExteriorFace}

	for len(queue) > 0 {
		f := queue[0]
		queue = queue[1:]
		emit := !d.IsBackground(f)

		for _, c := range d.faces[f].Chains {
			chain, err := d.Chain(c.Edge)
			if err != nil {
				return RenderArrays{}, err
			}
			open := !d.ChainIsClosed(chain)
			if emit {
				if open {
					sawOpen = true
				} else {
					sawClosed = true
				}
			}

			src, err := d.Source(chain[0])
			if err != nil {
				return RenderArrays{}, fmt.Errorf("%s: %w", op, err)
			}
			v1 := d.vertices[src].Point
			var fan uint32
			if emit {
				fan = ix.of(v1)
			}

			for i, e := range chain {
				edge := d.edges[e]
				if edge.Twin == NoEdge {
					return RenderArrays{}, geomerr.MalformedTopology(op, "edge %d of face %d has no twin", e, f)
				}
				twin := d.edges[edge.Twin]
				if nf := twin.Face; nf != NoFace && nf != f && !visited[nf] && !queued[nf] {
					queued[nf] = true
					queue = append(queue, nf)
				}

				v2 := d.vertices[edge.Target].Point
				if emit {
					a, b := ix.of(v1), ix.of(v2)
					switch {
					case open:
						out.Elements = append(out.Elements, a, b)
					case i > 0 && i < len(chain)-1:
						out.Elements = append(out.Elements, fan, a, b)
					}

					if !open && twin.Face != NoFace && visited[twin.Face] && twin.Next != NoEdge {
						apex := d.vertices[d.edges[chain[(i+1)%len(chain)]].Target].Point
						across := d.vertices[d.edges[twin.Next].Target].Point
						if !predicate.AreCoplanar(v1, v2, apex, across) {
							out.Outline = append(out.Outline, a, b)
						}
					}
				}
				v1 = v2
			}
		}
		visited[f] = true
	}

	if sawOpen && sawClosed {
		return RenderArrays{}, geomerr.InvalidArgument(op, "open and closed chains cannot share one element buffer")
	}
	if sawOpen {
		out.Primitive = PrimLines
	} else if sawClosed {
		out.Primitive = PrimTriangles
	}
	out.Vertices = ix.vertices
	return out, nil
}
