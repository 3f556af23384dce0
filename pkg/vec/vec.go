// Package vec provides the fixed-size vector algebra used by the geometry
// kernel: Vec2, Vec3 and the Point value type.
//
// All types are plain comparable values. A Point can be used directly as a
// map key; since keys are copies, mutating a point after inserting it never
// corrupts a map.
package vec

import (
	"math"
	"strconv"

	"github.com/aucupo/dcelkit/pkg/geomerr"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/golang/geo/r3"
)

// Vec2 is a 2D vector.
type Vec2 struct {
	X, Y float64
}

// Vec3 is a 3D vector.
type Vec3 struct {
	X, Y, Z float64
}

// Point is a position in 3D space. It shares Vec3's layout, so conversions
// between the two are free.
type Point Vec3

// Origin is the point (0, 0, 0).
var Origin = Point{}

// ---------------------------------------------------------------------------
// Construction
// ---------------------------------------------------------------------------

// New2 builds a Vec2 from exactly two finite components.
func New2(xs ...float64) (Vec2, error) {
	if len(xs) != 2 {
		return Vec2{}, geomerr.InvalidArgument("vec.New2", "expected 2 components, got %d", len(xs))
	}
	if err := checkFinite("vec.New2", xs); err != nil {
		return Vec2{}, err
	}
	return Vec2{X: xs[0], Y: xs[1]}, nil
}

// New3 builds a Vec3 from two or three finite components. A missing z
// defaults to zero.
func New3(xs ...float64) (Vec3, error) {
	if len(xs) < 2 || len(xs) > 3 {
		return Vec3{}, geomerr.InvalidArgument("vec.New3", "expected 2 or 3 components, got %d", len(xs))
	}
	if err := checkFinite("vec.New3", xs); err != nil {
		return Vec3{}, err
	}
	v := Vec3{X: xs[0], Y: xs[1]}
	if len(xs) == 3 {
		v.Z = xs[2]
	}
	return v, nil
}

// NewPoint is New3 for points.
func NewPoint(xs ...float64) (Point, error) {
	v, err := New3(xs...)
	if err != nil {
		return Point{}, err
	}
	return Point(v), nil
}

// Pt is a shorthand for Point{X: x, Y: y, Z: z}.
func Pt(x, y, z float64) Point {
	return Point{X: x, Y: y, Z: z}
}

func checkFinite(op string, xs []float64) error {
	for i, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return geomerr.InvalidArgument(op, "component %d is not a finite number", i)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Vec2
// ---------------------------------------------------------------------------

func (a Vec2) Add(b Vec2) Vec2 { return Vec2{a.X + b.X, a.Y + b.Y} }
func (a Vec2) Sub(b Vec2) Vec2 { return Vec2{a.X - b.X, a.Y - b.Y} }
func (a Vec2) Scale(k float64) Vec2 { return Vec2{a.X * k, a.Y * k} }
func (a Vec2) Dot(b Vec2) float64 { return a.X*b.X + a.Y*b.Y }
func (a Vec2) Length() float64 { return math.Hypot(a.X, a.Y) }
func (a Vec2) Vec3() Vec3 { return Vec3{X: a.X, Y: a.Y} }
func (a Vec2) String() string { return "(" + ftoa(a.X) + ", " + ftoa(a.Y) + ")" }

// Cross returns the z component of the 3D cross product of a and b.
func (a Vec2) Cross(b Vec2) float64 { return a.X*b.Y - a.Y*b.X }

// ---------------------------------------------------------------------------
// Vec3
// ---------------------------------------------------------------------------

// Add returns a + b.
func (a Vec3) Add(b Vec3) Vec3 { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }

// Sub returns a - b.
func (a Vec3) Sub(b Vec3) Vec3 { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }

// Scale returns a * k.
func (a Vec3) Scale(k float64) Vec3 { return Vec3{a.X * k, a.Y * k, a.Z * k} }

// Neg returns -a.
func (a Vec3) Neg() Vec3 { return Vec3{-a.X, -a.Y, -a.Z} }

// Dot returns the scalar product.
func (a Vec3) Dot(b Vec3) float64 { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }

// Cross returns the vector product a × b.
func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		X: a.Y*b.Z - a.Z*b.Y,
		Y: a.Z*b.X - a.X*b.Z,
		Z: a.X*b.Y - a.Y*b.X,
	}
}

// Length returns the Euclidean magnitude.
func (a Vec3) Length() float64 { return math.Sqrt(a.Dot(a)) }

// IsZero reports whether all components are exactly zero.
func (a Vec3) IsZero() bool { return a == Vec3{} }

// Normalize returns the unit vector with a's direction.
func (a Vec3) Normalize() (Vec3, error) {
	l := a.Length()
	if l == 0 {
		return Vec3{}, geomerr.DegenerateGeometry("vec.Normalize", "zero-length vector")
	}
	return a.Scale(1 / l), nil
}

// ApproxEqual reports whether every component of a and b differs by at
// most tol.
func (a Vec3) ApproxEqual(b Vec3, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol && math.Abs(a.Z-b.Z) <= tol
}

// Component returns the i-th component (0, 1 or 2).
func (a Vec3) Component(i int) float64 {
	switch i {
	case 0:
		return a.X
	case 1:
		return a.Y
	default:
		return a.Z
	}
}

func (a Vec3) String() string {
	return "(" + ftoa(a.X) + ", " + ftoa(a.Y) + ", " + ftoa(a.Z) + ")"
}

// V3 converts to the sdfx vector type.
func (a Vec3) V3() v3.Vec { return v3.Vec{X: a.X, Y: a.Y, Z: a.Z} }

// R3 converts to the golang/geo vector type.
func (a Vec3) R3() r3.Vector { return r3.Vector{X: a.X, Y: a.Y, Z: a.Z} }

// FromV3 converts an sdfx vector.
func FromV3(v v3.Vec) Vec3 { return Vec3{X: v.X, Y: v.Y, Z: v.Z} }

// FromR3 converts a golang/geo vector.
func FromR3(v r3.Vector) Vec3 { return Vec3{X: v.X, Y: v.Y, Z: v.Z} }

// ---------------------------------------------------------------------------
// Point
// ---------------------------------------------------------------------------

// Vec returns p as a position vector.
func (p Point) Vec() Vec3 { return Vec3(p) }

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Vec3 { return Vec3(p).Sub(Vec3(q)) }

// Translate returns p moved by v.
func (p Point) Translate(v Vec3) Point { return Point(Vec3(p).Add(v)) }

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 { return p.Sub(q).Length() }

// WithX returns a copy of p with x replaced.
func (p Point) WithX(x float64) Point { p.X = x; return p }

// WithY returns a copy of p with y replaced.
func (p Point) WithY(y float64) Point { p.Y = y; return p }

// WithZ returns a copy of p with z replaced.
func (p Point) WithZ(z float64) Point { p.Z = z; return p }

// Coords returns the components as a slice, in x, y, z order.
func (p Point) Coords() []float64 { return []float64{p.X, p.Y, p.Z} }

// WKTCoords formats p as "x y z".
func (p Point) WKTCoords() string { return ftoa(p.X) + " " + ftoa(p.Y) + " " + ftoa(p.Z) }

func (p Point) String() string { return "Point" + Vec3(p).String() }

// V3 converts to the sdfx vector type.
func (p Point) V3() v3.Vec { return Vec3(p).V3() }

// R3 converts to the golang/geo vector type.
func (p Point) R3() r3.Vector { return Vec3(p).R3() }

// Centroid returns the arithmetic mean of points.
func Centroid(points []Point) (Point, error) {
	if len(points) == 0 {
		return Point{}, geomerr.DegenerateGeometry("vec.Centroid", "no points")
	}
	var sum Vec3
	for _, p := range points {
		sum = sum.Add(Vec3(p))
	}
	return Point(sum.Scale(1 / float64(len(points)))), nil
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
