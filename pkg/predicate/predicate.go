// Package predicate implements the geometric predicates the DCEL kernel is
// built on: orientation of four points, collinear position, coplanarity and
// collinearity. All tests share the fixed tolerance Epsilon.
package predicate

import (
	"fmt"
	"math"

	"github.com/aucupo/dcelkit/pkg/geomerr"
	"github.com/aucupo/dcelkit/pkg/vec"
)

// Epsilon is the absolute tolerance used by every predicate.
const Epsilon = 0.00001

// Position classifies a point relative to an oriented segment.
type Position int

const (
	Right   Position = -1 // clockwise side
	Left    Position = 1  // counter-clockwise side
	Before  Position = -2 // collinear, before the segment start
	After   Position = 2  // collinear, past the segment end
	Between Position = 10 // collinear, on the closed segment
)

// Aliases used when the classification is about turn direction rather than
// sides.
const (
	CW        = Right
	CCW       = Left
	Collinear = Between
)

func (p Position) String() string {
	switch p {
	case Right:
		return "right"
	case Left:
		return "left"
	case Before:
		return "before"
	case After:
		return "after"
	case Between:
		return "between"
	default:
		return fmt.Sprintf("Position(%d)", int(p))
	}
}

// SignedVolume returns six times the signed volume of the tetrahedron abcd.
// It is negative when a, b, c turn counter-clockwise as seen from d.
func SignedVolume(a, b, c, d vec.Point) float64 {
	ax, ay, az := a.X-d.X, a.Y-d.Y, a.Z-d.Z
	bx, by, bz := b.X-d.X, b.Y-d.Y, b.Z-d.Z
	cx, cy, cz := c.X-d.X, c.Y-d.Y, c.Z-d.Z

	return ax*by*cz + ay*bz*cx + az*bx*cy -
		az*by*cx - ay*bx*cz - ax*bz*cy
}

// RawOrientation classifies the turn a -> b -> c as seen from d: CCW, CW or
// Collinear. When the four points are coplanar the sign of the 2D cross
// product is used, then its magnitude.
func RawOrientation(a, b, c, d vec.Point) Position {
	vol := SignedVolume(a, b, c, d)
	if vol < -Epsilon {
		return CCW
	}
	if vol > Epsilon {
		return CW
	}

	cross := b.Sub(a).Cross(c.Sub(a))
	if cross.Z > Epsilon {
		return CCW
	}
	if cross.Z < -Epsilon {
		return CW
	}
	if cross.Length() > Epsilon {
		return CCW
	}
	return Collinear
}

// Orientation returns Left or Right for the turn a -> b -> c as seen from
// d, and falls back to CollinearPosition(a, b, c) when the three points
// are collinear.
func Orientation(a, b, c, d vec.Point) (Position, error) {
	switch RawOrientation(a, b, c, d) {
	case CCW:
		return Left, nil
	case CW:
		return Right, nil
	}
	return CollinearPosition(a, b, c)
}

// CollinearPosition locates c relative to the segment a -> b, assuming the
// three points are collinear.
func CollinearPosition(a, b, c vec.Point) (Position, error) {
	if a == b {
		return 0, geomerr.DegenerateGeometry("predicate.CollinearPosition", "segment endpoints coincide at %v", a)
	}
	ab := a.Distance(b)
	ac := a.Distance(c)
	bc := b.Distance(c)

	if ac+bc > ab+Epsilon {
		if ac < bc {
			return Before, nil
		}
		return After, nil
	}
	return Between, nil
}

// Unique returns points with exact duplicates removed, keeping first
// occurrences in order.
func Unique(points []vec.Point) []vec.Point {
	seen := make(map[vec.Point]struct{}, len(points))
	out := make([]vec.Point, 0, len(points))
	for _, p := range points {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// AreCoplanar reports whether all points lie on a common plane. No points
// is false; up to three distinct points are always coplanar.
func AreCoplanar(points ...vec.Point) bool {
	pts := Unique(points)
	if len(pts) == 0 {
		return false
	}
	if len(pts) < 4 {
		return true
	}

	// Normalize to the first point and pick a base triangle that spans a
	// plane. If none exists the points are collinear, hence coplanar.
	origin := pts[0]
	rel := make([]vec.Point, len(pts))
	for i, p := range pts {
		rel[i] = vec.Point(p.Sub(origin))
	}
	j, k := -1, -1
	for i := 2; i < len(rel) && k < 0; i++ {
		if rel[1].Vec().Cross(rel[i].Vec()).Length() > Epsilon {
			j, k = 1, i
		}
	}
	if k < 0 {
		return true
	}

	for i := 1; i < len(rel); i++ {
		if i == j || i == k {
			continue
		}
		vol := SignedVolume(rel[0], rel[j], rel[k], rel[i])
		if math.Abs(vol) > Epsilon {
			return false
		}
	}
	return true
}

// AreCollinear reports whether all points lie on a common line. No points
// is false; one or two distinct points are always collinear.
func AreCollinear(points ...vec.Point) bool {
	pts := Unique(points)
	if len(pts) == 0 {
		return false
	}
	if len(pts) < 3 {
		return true
	}
	if !AreCoplanar(pts...) {
		return false
	}

	dir := pts[1].Sub(pts[0])
	for _, p := range pts[2:] {
		if dir.Cross(p.Sub(pts[0])).Length() > Epsilon {
			return false
		}
	}
	return true
}
