package geom

import (
	"math"

	"github.com/aucupo/dcelkit/pkg/vec"
)

// SelectionBox is a rubber-band rectangle in the z = 0 plane spanned by
// two opposite corners.
type SelectionBox struct {
	Corner1, Corner2 vec.Point
}

// NewSelectionBox returns the box spanned by c1 and c2.
func NewSelectionBox(c1, c2 vec.Point) *SelectionBox {
	return &SelectionBox{Corner1: c1, Corner2: c2}
}

// ClassicalBounds returns the bottom-left and top-right corners.
func (sb *SelectionBox) ClassicalBounds() (vec.Point, vec.Point) {
	c1, c2 := sb.Corner1, sb.Corner2
	bl := vec.Pt(math.Min(c1.X, c2.X), math.Min(c1.Y, c2.Y), math.Min(c1.Z, c2.Z))
	tr := vec.Pt(math.Max(c1.X, c2.X), math.Max(c1.Y, c2.Y), math.Max(c1.Z, c2.Z))
	return bl, tr
}

// MoveCorner2 drags the second corner by delta.
func (sb *SelectionBox) MoveCorner2(delta vec.Vec3) {
	sb.Corner2 = sb.Corner2.Translate(delta)
}

// Boundary returns the rectangle as a ring in the z = 0 plane.
func (sb *SelectionBox) Boundary() *LinearRing {
	c1, c2 := sb.Corner1, sb.Corner2
	return NewLinearRing(
		vec.Pt(c1.X, c1.Y, 0),
		vec.Pt(c2.X, c1.Y, 0),
		vec.Pt(c2.X, c2.Y, 0),
		vec.Pt(c1.X, c2.Y, 0),
	)
}

// Contains reports whether p lies strictly inside the box on x and y.
func (sb *SelectionBox) Contains(p vec.Point) bool {
	bl, tr := sb.ClassicalBounds()
	return bl.X < p.X && p.X < tr.X && bl.Y < p.Y && p.Y < tr.Y
}

// Selects reports whether g lies entirely inside the box: every vertex of
// a point, curve or polygon boundary must be. Solids are never selected.
func (sb *SelectionBox) Selects(g Geometry) bool {
	var pts []vec.Point
	switch g := g.(type) {
	case *Point:
		pts = []vec.Point{g.Position()}
	case *LineString:
		pts = g.Vertices()
	case *LinearRing:
		pts = g.Vertices()
	case *Line:
		pts = g.Vertices()
	case *Polygon:
		pts = g.rings[0].Vertices()
	default:
		return false
	}
	if len(pts) == 0 {
		return false
	}
	for _, p := range pts {
		if !sb.Contains(p) {
			return false
		}
	}
	return true
}

// Select returns the geometries picked by the box, in input order.
func (sb *SelectionBox) Select(geoms []Geometry) []Geometry {
	var out []Geometry
	for _, g := range geoms {
		if sb.Selects(g) {
			out = append(out, g)
		}
	}
	return out
}
