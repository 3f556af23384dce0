package geom

import (
	"strings"

	"github.com/aucupo/dcelkit/pkg/dcel"
	"github.com/aucupo/dcelkit/pkg/geomerr"
	"github.com/aucupo/dcelkit/pkg/vec"
)

// LineString is an ordered, mutable polyline. Every mutation rebuilds the
// bounding box, the DCEL and the render arrays.
type LineString struct {
	renderable
	vertices []vec.Point
	bbox     Box
}

// NewLineString returns a polyline through points.
func NewLineString(points ...vec.Point) *LineString {
	l := &LineString{renderable: newRenderable()}
	l.vertices = append(l.vertices, points...)
	// Line construction never fails; it degrades to points below two vertices.
	_ = l.UpdateSubstructures()
	return l
}

func (l *LineString) Kind() Kind       { return KindLineString }
func (l *LineString) BoundingBox() Box { return l.bbox }
func (l *LineString) Len() int         { return len(l.vertices) }

// IsValid reports whether l has at least two vertices.
func (l *LineString) IsValid() bool { return l.Len() >= 2 }

// At returns vertex i; negative indices count from the end.
func (l *LineString) At(i int) (vec.Point, error) {
	j, err := normIndex("geom.LineString.At", i, len(l.vertices), false)
	if err != nil {
		return vec.Point{}, err
	}
	return l.vertices[j], nil
}

// Vertices returns a copy of the vertex list.
func (l *LineString) Vertices() []vec.Point {
	return append([]vec.Point(nil), l.vertices...)
}

// InsertVertex inserts p before index i. i == Len() appends.
func (l *LineString) InsertVertex(i int, p vec.Point) error {
	if err := l.insert(i, p); err != nil {
		return err
	}
	return l.UpdateSubstructures()
}

// AppendVertex adds p at the end.
func (l *LineString) AppendVertex(p vec.Point) error {
	return l.InsertVertex(len(l.vertices), p)
}

// RemoveVertex removes and returns vertex i.
func (l *LineString) RemoveVertex(i int) (vec.Point, error) {
	p, err := l.remove(i)
	if err != nil {
		return vec.Point{}, err
	}
	return p, l.UpdateSubstructures()
}

// UpdateVertex replaces vertex i with p.
func (l *LineString) UpdateVertex(i int, p vec.Point) error {
	if err := l.set(i, p); err != nil {
		return err
	}
	return l.UpdateSubstructures()
}

// Equal reports whether both polylines have the same vertices in order.
func (l *LineString) Equal(o *LineString) bool {
	return pointsEqual(l.vertices, o.vertices)
}

func (l *LineString) UpdateBoundingBox() {
	l.bbox = BoxOf(l.vertices...)
}

// UpdateSubstructures rebuilds the bounding box, DCEL and render arrays.
func (l *LineString) UpdateSubstructures() error {
	l.UpdateBoundingBox()
	return l.rebuild(func(d *dcel.DCEL) error {
		d.MakeFromLine(l.vertices)
		return nil
	})
}

// WKT returns "LINESTRING(x y z, ...)".
func (l *LineString) WKT() string {
	return "LINESTRING" + wktList(l.vertices)
}

func (l *LineString) insert(i int, p vec.Point) error {
	j, err := normIndex("geom.LineString.InsertVertex", i, len(l.vertices), true)
	if err != nil {
		return err
	}
	l.vertices = append(l.vertices, vec.Point{})
	copy(l.vertices[j+1:], l.vertices[j:])
	l.vertices[j] = p
	return nil
}

func (l *LineString) remove(i int) (vec.Point, error) {
	j, err := normIndex("geom.LineString.RemoveVertex", i, len(l.vertices), false)
	if err != nil {
		return vec.Point{}, err
	}
	p := l.vertices[j]
	l.vertices = append(l.vertices[:j], l.vertices[j+1:]...)
	return p, nil
}

func (l *LineString) set(i int, p vec.Point) error {
	j, err := normIndex("geom.LineString.UpdateVertex", i, len(l.vertices), false)
	if err != nil {
		return err
	}
	l.vertices[j] = p
	return nil
}

// normIndex resolves a possibly negative index against length n. When
// insert is set, n itself is a valid position.
func normIndex(op string, i, n int, insert bool) (int, error) {
	j := i
	if j < 0 {
		j += n
	}
	limit := n
	if insert {
		limit++
	}
	if j < 0 || j >= limit {
		return 0, geomerr.InvalidArgument(op, "index %d out of range [0, %d)", i, limit)
	}
	return j, nil
}

func pointsEqual(a, b []vec.Point) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// wktList formats "(x y z, x y z)", or " EMPTY" for no points.
func wktList(points []vec.Point) string {
	if len(points) == 0 {
		return " EMPTY"
	}
	var sb strings.Builder
	sb.WriteByte('(')
	for i, p := range points {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.WKTCoords())
	}
	sb.WriteByte(')')
	return sb.String()
}
