package geom

import (
	"math"
	"strings"

	"github.com/aucupo/dcelkit/pkg/dcel"
	"github.com/aucupo/dcelkit/pkg/geomerr"
	"github.com/aucupo/dcelkit/pkg/predicate"
	"github.com/aucupo/dcelkit/pkg/vec"
	"github.com/golang/geo/r3"
)

// Polygon is a boundary ring plus zero or more hole rings. Its DCEL is the
// two-sided fan over the boundary; holes only affect containment, area and
// serialization.
type Polygon struct {
	renderable
	rings []*LinearRing
	bbox  Box
}

// NewPolygon returns a polygon over copies of boundary and holes; later
// edits to the arguments do not affect it.
func NewPolygon(boundary *LinearRing, holes ...*LinearRing) *Polygon {
	p := &Polygon{renderable: newRenderable()}
	p.rings = cloneRings(append([]*LinearRing{boundary}, holes...))
	// Fan construction never fails; it degrades below three vertices.
	_ = p.UpdateSubstructures()
	return p
}

// NewPolygonFromPoints returns a hole-free polygon over boundary.
func NewPolygonFromPoints(boundary ...vec.Point) *Polygon {
	return NewPolygon(NewLinearRing(boundary...))
}

func (p *Polygon) Kind() Kind         { return KindPolygon }
func (p *Polygon) BoundingBox() Box   { return p.bbox }
func (p *Polygon) IsValid() bool      { return p.rings[0].IsValid() }
func (p *Polygon) UpdateBoundingBox() { p.bbox = p.rings[0].BoundingBox() }

// Boundary returns a copy of the boundary ring. Edit the polygon through
// its vertex methods so the DCEL follows.
func (p *Polygon) Boundary() *LinearRing { return cloneRing(p.rings[0]) }

// Holes returns copies of the hole rings.
func (p *Polygon) Holes() []*LinearRing { return cloneRings(p.rings[1:]) }

// Rings returns copies of every ring, boundary first.
func (p *Polygon) Rings() []*LinearRing { return cloneRings(p.rings) }

func cloneRing(r *LinearRing) *LinearRing { return NewLinearRing(r.Vertices()...) }

func cloneRings(rings []*LinearRing) []*LinearRing {
	out := make([]*LinearRing, len(rings))
	for i, r := range rings {
		out[i] = cloneRing(r)
	}
	return out
}

// SetHoles replaces the hole rings.
func (p *Polygon) SetHoles(holes ...*LinearRing) error {
	p.rings = append(p.rings[:1], cloneRings(holes)...)
	return p.UpdateSubstructures()
}

// UpdateSubstructures rebuilds the bounding box, DCEL and render arrays.
func (p *Polygon) UpdateSubstructures() error {
	p.UpdateBoundingBox()
	return p.rebuild(func(d *dcel.DCEL) error {
		d.MakeFromPolygon(p.rings[0].Vertices())
		return nil
	})
}

func (p *Polygon) ring(op string, r int) (*LinearRing, error) {
	if r < 0 || r >= len(p.rings) {
		return nil, geomerr.InvalidArgument(op, "ring %d out of range [0, %d)", r, len(p.rings))
	}
	return p.rings[r], nil
}

// InsertVertex inserts v into ring r (0 is the boundary).
func (p *Polygon) InsertVertex(r, i int, v vec.Point) error {
	ring, err := p.ring("geom.Polygon.InsertVertex", r)
	if err != nil {
		return err
	}
	if err := ring.InsertVertex(i, v); err != nil {
		return err
	}
	return p.UpdateSubstructures()
}

// AppendVertex appends v to ring r.
func (p *Polygon) AppendVertex(r int, v vec.Point) error {
	ring, err := p.ring("geom.Polygon.AppendVertex", r)
	if err != nil {
		return err
	}
	if err := ring.AppendVertex(v); err != nil {
		return err
	}
	return p.UpdateSubstructures()
}

// RemoveVertex removes and returns vertex i of ring r.
func (p *Polygon) RemoveVertex(r, i int) (vec.Point, error) {
	ring, err := p.ring("geom.Polygon.RemoveVertex", r)
	if err != nil {
		return vec.Point{}, err
	}
	v, err := ring.RemoveVertex(i)
	if err != nil {
		return vec.Point{}, err
	}
	return v, p.UpdateSubstructures()
}

// UpdateVertex replaces vertex i of ring r.
func (p *Polygon) UpdateVertex(r, i int, v vec.Point) error {
	ring, err := p.ring("geom.Polygon.UpdateVertex", r)
	if err != nil {
		return err
	}
	if err := ring.UpdateVertex(i, v); err != nil {
		return err
	}
	return p.UpdateSubstructures()
}

// ContainsPointConvex tests q against every boundary edge, assuming a
// convex boundary wound counter-clockwise as seen from DefaultPerspective.
func (p *Polygon) ContainsPointConvex(q vec.Point) bool {
	b := p.rings[0].Vertices()
	if len(b) < 3 {
		return false
	}
	for i := range b {
		edge := Line{LineString: LineString{vertices: []vec.Point{b[(i+len(b)-1)%len(b)], b[i]}}}
		pos, ok, err := edge.PointPosition(q, DefaultPerspective)
		if err != nil || !ok || pos != predicate.Left {
			return false
		}
	}
	return true
}

// ContainsPoint reports whether q lies inside the boundary and outside
// every hole, using the winding number in the plane that drops the
// dominant component of the boundary normal.
func (p *Polygon) ContainsPoint(q vec.Point) bool {
	b := p.rings[0].Vertices()
	if len(b) < 3 {
		return false
	}
	n := newell(b)
	if n.Norm() <= predicate.Epsilon {
		return false
	}
	if math.Abs(n.Normalize().Dot(q.R3().Sub(b[0].R3()))) > predicate.Epsilon {
		return false
	}
	axis := n.Abs().LargestComponent()
	if winding(b, q, axis) == 0 {
		return false
	}
	for _, h := range p.rings[1:] {
		if winding(h.Vertices(), q, axis) != 0 {
			return false
		}
	}
	return true
}

// Equal reports whether both boundaries list the same vertices up to a
// rotation of the starting vertex, and the holes match in order.
func (p *Polygon) Equal(o *Polygon) bool {
	if len(p.rings) != len(o.rings) {
		return false
	}
	for i := range p.rings {
		if !rotationEqual(p.rings[i].Vertices(), o.rings[i].Vertices()) {
			return false
		}
	}
	return true
}

// Normal returns the unit normal of the boundary by Newell's method.
func (p *Polygon) Normal() (vec.Vec3, error) {
	n := newell(p.rings[0].Vertices())
	if n.Norm() <= predicate.Epsilon {
		return vec.Vec3{}, geomerr.DegenerateGeometry("geom.Polygon.Normal", "boundary spans no area")
	}
	return vec.FromR3(n.Normalize()), nil
}

// Area returns the boundary area minus the hole areas.
func (p *Polygon) Area() float64 {
	area := newell(p.rings[0].Vertices()).Norm() / 2
	for _, h := range p.rings[1:] {
		area -= newell(h.Vertices()).Norm() / 2
	}
	return area
}

// MakeValid orients the boundary counter-clockwise and the holes clockwise
// as seen from +z.
func (p *Polygon) MakeValid() error {
	for i, r := range p.rings {
		z := newell(r.Vertices()).Z
		if (i == 0 && z < 0) || (i > 0 && z > 0) {
			if err := r.Reverse(); err != nil {
				return err
			}
		}
	}
	return p.UpdateSubstructures()
}

// WKT returns "POLYGON((x y z, ...), (...))" with every ring closed.
func (p *Polygon) WKT() string {
	if p.rings[0].Len() == 0 {
		return "POLYGON EMPTY"
	}
	parts := make([]string, 0, len(p.rings))
	for _, r := range p.rings {
		parts = append(parts, wktList(r.ClosedVertices()))
	}
	return "POLYGON(" + strings.Join(parts, ", ") + ")"
}

// newell returns the area-weighted normal of the closed polygon pts; its
// length is twice the enclosed area.
func newell(pts []vec.Point) r3.Vector {
	var n r3.Vector
	for i := range pts {
		n = n.Add(pts[i].R3().Cross(pts[(i+1)%len(pts)].R3()))
	}
	return n
}

// winding returns the winding number of ring around q, projected along
// axis.
func winding(ring []vec.Point, q vec.Point, axis r3.Axis) int {
	u, v := project(q, axis)
	wn := 0
	for i := range ring {
		ax, ay := project(ring[i], axis)
		bx, by := project(ring[(i+1)%len(ring)], axis)
		side := (bx-ax)*(v-ay) - (u-ax)*(by-ay)
		if ay <= v {
			if by > v && side > 0 {
				wn++
			}
		} else if by <= v && side < 0 {
			wn--
		}
	}
	return wn
}

func project(p vec.Point, axis r3.Axis) (float64, float64) {
	switch axis {
	case r3.XAxis:
		return p.Y, p.Z
	case r3.YAxis:
		return p.Z, p.X
	default:
		return p.X, p.Y
	}
}

func rotationEqual(a, b []vec.Point) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	for shift := range b {
		if b[shift] != a[0] {
			continue
		}
		match := true
		for i := range a {
			if a[i] != b[(i+shift)%len(b)] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
