package geom

import (
	"math"

	"github.com/aucupo/dcelkit/pkg/geomerr"
	"github.com/aucupo/dcelkit/pkg/predicate"
	"github.com/aucupo/dcelkit/pkg/vec"
)

// DefaultPerspective is the observation point used for planar work in the
// z = 0 plane.
var DefaultPerspective = vec.Pt(0, 0, 1)

// Line is a segment: a LineString with exactly two vertices.
type Line struct {
	LineString
}

// NewLine returns the segment a -> b.
func NewLine(a, b vec.Point) *Line {
	l := &Line{LineString: LineString{renderable: newRenderable()}}
	l.vertices = []vec.Point{a, b}
	_ = l.UpdateSubstructures()
	return l
}

// NewLineFromVector returns the segment from the origin to v.
func NewLineFromVector(v vec.Vec3) *Line {
	return NewLine(vec.Origin, vec.Point(v))
}

func (l *Line) Kind() Kind          { return KindLine }
func (l *Line) Start() vec.Point    { return l.vertices[0] }
func (l *Line) End() vec.Point      { return l.vertices[1] }
func (l *Line) Direction() vec.Vec3 { return l.End().Sub(l.Start()) }
func (l *Line) Length() float64     { return l.Start().Distance(l.End()) }

func (l *Line) SetStart(p vec.Point) error { return l.UpdateVertex(0, p) }
func (l *Line) SetEnd(p vec.Point) error   { return l.UpdateVertex(1, p) }

// InsertVertex always fails: a segment has exactly two vertices.
func (l *Line) InsertVertex(int, vec.Point) error {
	return geomerr.InvalidArgument("geom.Line.InsertVertex", "a line has exactly two vertices")
}

// AppendVertex always fails: a segment has exactly two vertices.
func (l *Line) AppendVertex(vec.Point) error {
	return geomerr.InvalidArgument("geom.Line.AppendVertex", "a line has exactly two vertices")
}

// RemoveVertex always fails: a segment has exactly two vertices.
func (l *Line) RemoveVertex(int) (vec.Point, error) {
	return vec.Point{}, geomerr.InvalidArgument("geom.Line.RemoveVertex", "a line has exactly two vertices")
}

// Equal reports whether both segments have the same endpoints in order.
func (l *Line) Equal(o *Line) bool {
	return l.LineString.Equal(&o.LineString)
}

// AreCollinear reports whether all segments lie on one line.
func AreCollinear(lines ...*Line) bool {
	if len(lines) == 0 {
		return false
	}
	points := make([]vec.Point, 0, 2*len(lines))
	for _, l := range lines {
		points = append(points, l.Start(), l.End())
	}
	return predicate.AreCollinear(points...)
}

// AreParallel reports whether every segment, translated to the origin, is
// collinear with the first one translated to the origin.
func AreParallel(lines ...*Line) bool {
	if len(lines) == 0 {
		return false
	}
	first := vec.Point(lines[0].Direction())
	for _, l := range lines[1:] {
		if !predicate.AreCollinear(vec.Origin, first, vec.Point(l.Direction())) {
			return false
		}
	}
	return true
}

// PointPosition locates p with respect to l as seen from perspective. The
// second result is false when perspective is coplanar with l and p, in
// which case no side can be told.
func (l *Line) PointPosition(p, perspective vec.Point) (predicate.Position, bool, error) {
	if predicate.AreCoplanar(l.Start(), l.End(), p, perspective) {
		return 0, false, nil
	}
	pos, err := predicate.Orientation(l.Start(), l.End(), p, perspective)
	if err != nil {
		return 0, false, err
	}
	return pos, true, nil
}

// Intersects reports whether the two segments share at least one point.
func (l *Line) Intersects(o *Line) (bool, error) {
	a, b := l.Start(), l.End()
	c, d := o.Start(), o.End()
	if a == b || c == d {
		return false, geomerr.DegenerateGeometry("geom.Line.Intersects", "zero-length segment")
	}

	if !predicate.AreCoplanar(a, b, c, d) {
		return false, nil
	}

	if AreCollinear(l, o) {
		for _, q := range []struct{ s, e, p vec.Point }{
			{a, b, c}, {a, b, d}, {c, d, a}, {c, d, b},
		} {
			if between(q.s, q.e, q.p) {
				return true, nil
			}
		}
		return false, nil
	}

	// One endpoint touching the other segment's line.
	switch {
	case predicate.AreCollinear(a, b, c):
		return between(a, b, c), nil
	case predicate.AreCollinear(a, b, d):
		return between(a, b, d), nil
	case predicate.AreCollinear(c, d, a):
		return between(c, d, a), nil
	case predicate.AreCollinear(c, d, b):
		return between(c, d, b), nil
	}

	r, s := b.Sub(a), d.Sub(c)
	n := r.Cross(s)
	if n.Length() <= predicate.Epsilon {
		return false, nil
	}
	eye := a.Translate(n)
	return opposite(l, c, d, eye) && opposite(o, a, b, eye), nil
}

// Intersection returns the shared part of the two segments: nil when they
// are disjoint, a *Point for a single point or a *Line for a collinear
// overlap. The z component is kept.
func (l *Line) Intersection(o *Line) (Geometry, error) {
	ok, err := l.Intersects(o)
	if err != nil || !ok {
		return nil, err
	}
	a := l.Start()
	r := l.Direction()
	c := o.Start()
	s := o.Direction()

	if AreCollinear(l, o) {
		rr := r.Dot(r)
		t0 := c.Sub(a).Dot(r) / rr
		t1 := o.End().Sub(a).Dot(r) / rr
		lo := math.Max(0, math.Min(t0, t1))
		hi := math.Min(1, math.Max(t0, t1))
		start := a.Translate(r.Scale(lo))
		end := a.Translate(r.Scale(hi))
		if start.Distance(end) <= predicate.Epsilon {
			return NewPoint(start), nil
		}
		return NewLine(start, end), nil
	}

	n := r.Cross(s)
	t := c.Sub(a).Cross(s).Dot(n) / n.Dot(n)
	return NewPoint(a.Translate(r.Scale(t))), nil
}

func between(s, e, p vec.Point) bool {
	pos, err := predicate.CollinearPosition(s, e, p)
	return err == nil && pos == predicate.Between
}

// opposite reports whether p and q lie strictly on opposite sides of l.
func opposite(l *Line, p, q, eye vec.Point) bool {
	pp, ok1, err1 := l.PointPosition(p, eye)
	pq, ok2, err2 := l.PointPosition(q, eye)
	if !ok1 || !ok2 || err1 != nil || err2 != nil {
		return false
	}
	return int(pp)*int(pq) < 0
}
