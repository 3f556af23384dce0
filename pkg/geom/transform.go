package geom

import (
	"math"

	"github.com/aucupo/dcelkit/pkg/geomerr"
	"github.com/aucupo/dcelkit/pkg/vec"
	"github.com/deadsy/sdfx/sdf"
)

// Transform is a model-to-world matrix. Operations compose in world
// space: each new operation is applied after the previous ones.
type Transform struct {
	m sdf.M44
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{m: sdf.Identity3d()}
}

// Translate appends a translation by v.
func (t *Transform) Translate(v vec.Vec3) {
	t.m = sdf.Translate3d(v.V3()).Mul(t.m)
}

// Scale appends a per-axis scale about the origin.
func (t *Transform) Scale(s vec.Vec3) {
	t.m = sdf.Scale3d(s.V3()).Mul(t.m)
}

// Rotate appends a rotation of angle degrees about axis.
func (t *Transform) Rotate(angle float64, axis vec.Vec3) error {
	n, err := axis.Normalize()
	if err != nil {
		return geomerr.DegenerateGeometry("geom.Transform.Rotate", "zero rotation axis")
	}
	t.m = sdf.Rotate3d(n.V3(), angle*math.Pi/180).Mul(t.m)
	return nil
}

// Reset restores the identity.
func (t *Transform) Reset() {
	t.m = sdf.Identity3d()
}

// IsIdentity reports whether t leaves points unchanged.
func (t Transform) IsIdentity() bool {
	return t.m == sdf.Identity3d()
}

// Apply maps p from model to world coordinates.
func (t Transform) Apply(p vec.Point) vec.Point {
	return vec.Point(vec.FromV3(t.m.MulPosition(p.V3())))
}

// Matrix exposes the underlying sdfx matrix.
func (t Transform) Matrix() sdf.M44 {
	return t.m
}
