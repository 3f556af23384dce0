package geom

import (
	"fmt"

	"github.com/aucupo/dcelkit/pkg/dcel"
)

// Kind tags the geometry variants.
type Kind int

const (
	KindPoint Kind = iota
	KindLineString
	KindLinearRing
	KindLine
	KindPolygon
	KindSolid
)

func (k Kind) String() string {
	switch k {
	case KindPoint:
		return "point"
	case KindLineString:
		return "linestring"
	case KindLinearRing:
		return "linearring"
	case KindLine:
		return "line"
	case KindPolygon:
		return "polygon"
	case KindSolid:
		return "solid"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Geometry is implemented by every geometry variant of this package.
type Geometry interface {
	Kind() Kind
	UpdateBoundingBox()
	BoundingBox() Box
	IsValid() bool
	WKT() string

	geometry() // marker method restricting implementations to this package
}

// Renderable is a geometry that can be flattened into render buffers.
type Renderable interface {
	Geometry
	DCEL() *dcel.DCEL
	RenderableArrays() dcel.RenderArrays
	UpdateSubstructures() error
	Transform() *Transform
	Color() (Color, bool)
	SetColor(Color)
	Visible() bool
	SetVisible(bool)
}

// Compile-time interface checks.
var (
	_ Renderable = (*Point)(nil)
	_ Renderable = (*LineString)(nil)
	_ Renderable = (*LinearRing)(nil)
	_ Renderable = (*Line)(nil)
	_ Renderable = (*Polygon)(nil)
	_ Renderable = (*Solid)(nil)
)

// renderable is the state shared by all façades: the DCEL, its last
// extracted arrays and the presentation attributes.
type renderable struct {
	topology  *dcel.DCEL
	arrays    dcel.RenderArrays
	color     *Color
	transform Transform
	hidden    bool
}

func newRenderable() renderable {
	return renderable{topology: dcel.New(), transform: Identity()}
}

func (r *renderable) geometry() {}

// DCEL returns the topology backing the geometry. It is rebuilt on every
// mutation, so callers must not keep references across edits.
func (r *renderable) DCEL() *dcel.DCEL { return r.topology }

// RenderableArrays returns the arrays extracted by the last rebuild.
func (r *renderable) RenderableArrays() dcel.RenderArrays { return r.arrays }

// Transform returns the model transform applied at tessellation time.
func (r *renderable) Transform() *Transform { return &r.transform }

// Color returns the explicit color, if one was set.
func (r *renderable) Color() (Color, bool) {
	if r.color == nil {
		return Color{}, false
	}
	return *r.color, true
}

func (r *renderable) SetColor(c Color) { r.color = &c }
func (r *renderable) Visible() bool { return !r.hidden }
func (r *renderable) SetVisible(v bool) { r.hidden = !v }

// rebuild regenerates the DCEL with build and re-extracts the arrays.
func (r *renderable) rebuild(build func(d *dcel.DCEL) error) error {
	if err := build(r.topology); err != nil {
		r.arrays = dcel.RenderArrays{}
		return err
	}
	arrays, err := r.topology.RenderableArrays()
	if err != nil {
		r.arrays = dcel.RenderArrays{}
		return err
	}
	r.arrays = arrays
	return nil
}
