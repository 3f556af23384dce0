package geom

import (
	"math/rand/v2"

	"github.com/aucupo/dcelkit/pkg/dcel"
	"github.com/aucupo/dcelkit/pkg/geomerr"
	"github.com/aucupo/dcelkit/pkg/vec"
)

// Point is the renderable façade over a single position.
type Point struct {
	renderable
	pos  vec.Point
	bbox Box
}

// NewPoint returns a point façade at p.
func NewPoint(p vec.Point) *Point {
	g := &Point{renderable: newRenderable(), pos: p}
	// A point set never fails to build.
	_ = g.UpdateSubstructures()
	return g
}

func (g *Point) Kind() Kind          { return KindPoint }
func (g *Point) Position() vec.Point { return g.pos }
func (g *Point) BoundingBox() Box    { return g.bbox }
func (g *Point) IsValid() bool       { return true }

func (g *Point) UpdateBoundingBox() {
	g.bbox = Box{Min: g.pos, Max: g.pos}
}

// UpdateSubstructures rebuilds the bounding box, DCEL and render arrays.
func (g *Point) UpdateSubstructures() error {
	g.UpdateBoundingBox()
	return g.rebuild(func(d *dcel.DCEL) error {
		d.MakeFromPoints([]vec.Point{g.pos})
		return nil
	})
}

func (g *Point) SetX(x float64) { g.SetPosition(g.pos.WithX(x)) }
func (g *Point) SetY(y float64) { g.SetPosition(g.pos.WithY(y)) }
func (g *Point) SetZ(z float64) { g.SetPosition(g.pos.WithZ(z)) }

// SetCoords moves the point; it accepts two or three finite coordinates.
func (g *Point) SetCoords(xs ...float64) error {
	p, err := vec.NewPoint(xs...)
	if err != nil {
		return err
	}
	g.SetPosition(p)
	return nil
}

// SetPosition moves the point to p.
func (g *Point) SetPosition(p vec.Point) {
	g.pos = p
	_ = g.UpdateSubstructures()
}

// WKT returns "POINT(x y z)".
func (g *Point) WKT() string {
	return "POINT(" + g.pos.WKTCoords() + ")"
}

// RandomPoints draws n points uniformly inside box.
func RandomPoints(box Box, n int, rng *rand.Rand) ([]*Point, error) {
	const op = "geom.RandomPoints"
	if n < 0 {
		return nil, geomerr.InvalidArgument(op, "negative count %d", n)
	}
	if box.IsEmpty() {
		return nil, geomerr.InvalidArgument(op, "empty box")
	}
	size := box.Size()
	out := make([]*Point, n)
	for i := range out {
		out[i] = NewPoint(vec.Pt(
			box.Min.X+rng.Float64()*size.X,
			box.Min.Y+rng.Float64()*size.Y,
			box.Min.Z+rng.Float64()*size.Z,
		))
	}
	return out, nil
}
