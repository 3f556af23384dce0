package geom

import (
	"slices"

	"github.com/aucupo/dcelkit/pkg/vec"
)

// LinearRing is a LineString that closes itself once it has at least three
// vertices. When closed, the stored list ends with a copy of the first
// vertex; Len, At and Vertices never expose that copy.
type LinearRing struct {
	LineString
	closed bool
}

// NewLinearRing returns a ring through points. A trailing point equal to
// the first is treated as an explicit closing vertex and dropped.
func NewLinearRing(points ...vec.Point) *LinearRing {
	r := &LinearRing{LineString: LineString{renderable: newRenderable()}}
	if n := len(points); n > 1 && points[0] == points[n-1] {
		points = points[:n-1]
	}
	r.vertices = append(r.vertices, points...)
	r.close()
	_ = r.UpdateSubstructures()
	return r
}

func (r *LinearRing) Kind() Kind { return KindLinearRing }

// IsClosed reports whether the ring currently carries its closing vertex.
func (r *LinearRing) IsClosed() bool { return r.closed }

// IsValid reports whether the ring has at least three distinct positions.
func (r *LinearRing) IsValid() bool { return r.Len() > 2 }

// Len returns the number of vertices, excluding the closing copy.
func (r *LinearRing) Len() int {
	if r.closed {
		return len(r.vertices) - 1
	}
	return len(r.vertices)
}

// At returns vertex i; negative indices count from the end.
func (r *LinearRing) At(i int) (vec.Point, error) {
	j, err := normIndex("geom.LinearRing.At", i, r.Len(), false)
	if err != nil {
		return vec.Point{}, err
	}
	return r.vertices[j], nil
}

// Vertices returns a copy of the vertex list without the closing copy.
func (r *LinearRing) Vertices() []vec.Point {
	return append([]vec.Point(nil), r.vertices[:r.Len()]...)
}

// ClosedVertices returns the stored list, including the closing copy when
// the ring is closed.
func (r *LinearRing) ClosedVertices() []vec.Point {
	return append([]vec.Point(nil), r.vertices...)
}

func (r *LinearRing) InsertVertex(i int, p vec.Point) error {
	return r.mutate(func() error { return r.insert(i, p) })
}

func (r *LinearRing) AppendVertex(p vec.Point) error {
	return r.mutate(func() error { return r.insert(len(r.vertices), p) })
}

func (r *LinearRing) RemoveVertex(i int) (vec.Point, error) {
	var p vec.Point
	err := r.mutate(func() error {
		var err error
		p, err = r.remove(i)
		return err
	})
	return p, err
}

func (r *LinearRing) UpdateVertex(i int, p vec.Point) error {
	return r.mutate(func() error { return r.set(i, p) })
}

// Reverse flips the traversal direction, keeping the first vertex.
func (r *LinearRing) Reverse() error {
	return r.mutate(func() error {
		if len(r.vertices) > 1 {
			slices.Reverse(r.vertices[1:])
		}
		return nil
	})
}

// Equal reports whether both rings have the same vertices in order.
func (r *LinearRing) Equal(o *LinearRing) bool {
	return pointsEqual(r.Vertices(), o.Vertices())
}

// Open drops the closing vertex, if present, and rebuilds.
func (r *LinearRing) Open() error {
	if !r.open() {
		return nil
	}
	return r.UpdateSubstructures()
}

// Close appends the closing vertex when the ring has at least three
// vertices and rebuilds.
func (r *LinearRing) Close() error {
	if !r.close() {
		return nil
	}
	return r.UpdateSubstructures()
}

// mutate runs f on the open vertex list and re-closes the ring afterwards.
// The ring is re-closed even when f fails.
func (r *LinearRing) mutate(f func() error) error {
	r.open()
	err := f()
	r.close()
	if err != nil {
		return err
	}
	return r.UpdateSubstructures()
}

func (r *LinearRing) open() bool {
	if !r.closed {
		return false
	}
	r.vertices = r.vertices[:len(r.vertices)-1]
	r.closed = false
	return true
}

func (r *LinearRing) close() bool {
	if r.closed || len(r.vertices) < 3 {
		return false
	}
	r.vertices = append(r.vertices, r.vertices[0])
	r.closed = true
	return true
}
