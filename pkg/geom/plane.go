package geom

import (
	"github.com/aucupo/dcelkit/pkg/geomerr"
	"github.com/aucupo/dcelkit/pkg/predicate"
	"github.com/aucupo/dcelkit/pkg/vec"
)

// Plane is the set of points x with Normal·(x - Point) = 0. Normal has
// unit length.
type Plane struct {
	Point  vec.Point
	Normal vec.Vec3
}

// NewPlane returns the plane through p with normal n.
func NewPlane(p vec.Point, n vec.Vec3) (Plane, error) {
	u, err := n.Normalize()
	if err != nil {
		return Plane{}, geomerr.DegenerateGeometry("geom.NewPlane", "zero normal")
	}
	return Plane{Point: p, Normal: u}, nil
}

// NewPlaneFromPoints returns the plane through a, b and c, oriented so
// that a -> b -> c is counter-clockwise seen from the normal side.
func NewPlaneFromPoints(a, b, c vec.Point) (Plane, error) {
	if predicate.AreCollinear(a, b, c) {
		return Plane{}, geomerr.DegenerateGeometry("geom.NewPlaneFromPoints", "%v, %v, %v are collinear", a, b, c)
	}
	return NewPlane(a, b.Sub(a).Cross(c.Sub(a)))
}

// NewPlaneParallelToLine returns the plane through p1 and p2 that is
// parallel to dir.
func NewPlaneParallelToLine(dir vec.Vec3, p1, p2 vec.Point) (Plane, error) {
	n := dir.Cross(p1.Sub(p2))
	if n.Length() <= predicate.Epsilon {
		return Plane{}, geomerr.DegenerateGeometry("geom.NewPlaneParallelToLine", "direction %v is parallel to %v -> %v", dir, p2, p1)
	}
	return NewPlane(p1, n)
}

// SignedDistance returns the distance of q from the plane, positive on the
// normal side.
func (pl Plane) SignedDistance(q vec.Point) float64 {
	return pl.Normal.Dot(q.Sub(pl.Point))
}

// Side returns 1 on the normal side, -1 on the other side and 0 on the
// plane.
func (pl Plane) Side(q vec.Point) int {
	d := pl.SignedDistance(q)
	switch {
	case d > predicate.Epsilon:
		return 1
	case d < -predicate.Epsilon:
		return -1
	}
	return 0
}

// Contains reports whether q lies on the plane.
func (pl Plane) Contains(q vec.Point) bool {
	return pl.Side(q) == 0
}
