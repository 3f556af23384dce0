package geom

import (
	"math"

	"github.com/aucupo/dcelkit/pkg/vec"
	"github.com/deadsy/sdfx/sdf"
)

// Box is an axis-aligned bounding box. The zero-extent box around a single
// point is valid; an empty box has Min > Max.
type Box struct {
	Min, Max vec.Point
}

// EmptyBox returns a box that contains nothing and absorbs the first point
// it is extended with.
func EmptyBox() Box {
	inf := math.Inf(1)
	return Box{
		Min: vec.Pt(inf, inf, inf),
		Max: vec.Pt(-inf, -inf, -inf),
	}
}

// BoxOf returns the smallest box containing points.
func BoxOf(points ...vec.Point) Box {
	b := EmptyBox()
	for _, p := range points {
		b = b.Extend(p)
	}
	return b
}

// IsEmpty reports whether b contains no point.
func (b Box) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Extend returns b grown to contain p.
func (b Box) Extend(p vec.Point) Box {
	return Box{
		Min: vec.Pt(math.Min(b.Min.X, p.X), math.Min(b.Min.Y, p.Y), math.Min(b.Min.Z, p.Z)),
		Max: vec.Pt(math.Max(b.Max.X, p.X), math.Max(b.Max.Y, p.Y), math.Max(b.Max.Z, p.Z)),
	}
}

// Union returns the smallest box containing b and o.
func (b Box) Union(o Box) Box {
	if o.IsEmpty() {
		return b
	}
	return b.Extend(o.Min).Extend(o.Max)
}

// Contains reports whether p lies in b, boundary included.
func (b Box) Contains(p vec.Point) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Size returns the extent along each axis.
func (b Box) Size() vec.Vec3 {
	if b.IsEmpty() {
		return vec.Vec3{}
	}
	return b.Max.Sub(b.Min)
}

// Center returns the midpoint of b.
func (b Box) Center() vec.Point {
	return b.Min.Translate(b.Size().Scale(0.5))
}

// Transformed returns the box containing the eight corners of b mapped
// through t.
func (b Box) Transformed(t Transform) Box {
	if b.IsEmpty() {
		return b
	}
	out := EmptyBox()
	for i := 0; i < 8; i++ {
		c := b.Min
		if i&1 != 0 {
			c.X = b.Max.X
		}
		if i&2 != 0 {
			c.Y = b.Max.Y
		}
		if i&4 != 0 {
			c.Z = b.Max.Z
		}
		out = out.Extend(t.Apply(c))
	}
	return out
}

// Sdf converts b to the sdfx box type.
func (b Box) Sdf() sdf.Box3 {
	return sdf.Box3{Min: b.Min.V3(), Max: b.Max.V3()}
}

// BoxFromSdf converts an sdfx box.
func BoxFromSdf(b sdf.Box3) Box {
	return Box{Min: vec.Point(vec.FromV3(b.Min)), Max: vec.Point(vec.FromV3(b.Max))}
}
