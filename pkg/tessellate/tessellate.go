// Package tessellate walks a scene and produces render meshes from the
// DCEL render arrays of its geometries. One mesh is produced per visible
// entry, with the entry's model transform applied.
package tessellate

import (
	"fmt"
	"log/slog"

	"github.com/aucupo/dcelkit/pkg/dcel"
	"github.com/aucupo/dcelkit/pkg/geom"
	"github.com/aucupo/dcelkit/pkg/geomerr"
	"github.com/aucupo/dcelkit/pkg/kernel"
	"github.com/aucupo/dcelkit/pkg/scene"
	"github.com/aucupo/dcelkit/pkg/vec"
)

// DefaultPalette assigns distinct colors to entries without an explicit
// color, cycling in scene order.
var DefaultPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// Options controls tessellation.
type Options struct {
	Palette []geom.Color // nil selects DefaultPalette
	Logger  *slog.Logger // nil selects slog.Default()
}

// ParsePalette parses hex colors as accepted by geom.ParseHex.
func ParsePalette(hex []string) ([]geom.Color, error) {
	out := make([]geom.Color, 0, len(hex))
	for _, h := range hex {
		c, err := geom.ParseHex(h)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Tessellate produces one mesh per visible, non-empty entry of s. It is
// read-only and never mutates the scene.
func Tessellate(s *scene.Scene, opts Options) ([]*kernel.Mesh, error) {
	if s == nil {
		return nil, nil
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	palette := opts.Palette
	if len(palette) == 0 {
		var err error
		if palette, err = ParsePalette(DefaultPalette); err != nil {
			return nil, fmt.Errorf("tessellate: default palette: %w", err)
		}
	}

	var meshes []*kernel.Mesh
	for i, e := range s.Entries() {
		if !e.Geometry.Visible() {
			log.Debug("skipping hidden entry", "entry", e.ID.Short())
			continue
		}
		m, err := tessellateEntry(e)
		if err != nil {
			return nil, fmt.Errorf("tessellate: entry %s: %w", e.ID.Short(), err)
		}
		if m == nil {
			log.Debug("skipping empty entry", "entry", e.ID.Short(), "kind", e.Geometry.Kind())
			continue
		}
		c, ok := e.Geometry.Color()
		if !ok {
			c = palette[i%len(palette)]
		}
		m.Color = [4]float32{c.R, c.G, c.B, c.A}
		meshes = append(meshes, m)
	}
	log.Debug("tessellated scene", "entries", s.Count(), "meshes", len(meshes))
	return meshes, nil
}

// tessellateEntry converts one entry; it returns nil for an entry with
// nothing to draw.
func tessellateEntry(e *scene.Entry) (*kernel.Mesh, error) {
	arr := e.Geometry.RenderableArrays()
	if arr.Empty() {
		return nil, nil
	}
	for _, idx := range append(append([]uint32(nil), arr.Elements...), arr.Outline...) {
		if int(idx) >= len(arr.Vertices) {
			return nil, geomerr.MalformedTopology("tessellate", "index %d out of range (%d vertices)", idx, len(arr.Vertices))
		}
	}

	m := kernel.FromRenderArrays(arr)
	if t := e.Geometry.Transform(); !t.IsIdentity() {
		m.Apply(func(p vec.Point) vec.Point { return t.Apply(p) })
	}

	if e.Name != "" {
		m.PartName = e.Name
	} else {
		m.PartName = e.ID.Short()
	}
	return m, nil
}

// GridOptions describes the reference grid.
type GridOptions struct {
	Size float64 // half extent along X and Y
	Step float64 // spacing between lines
}

// Grid builds the reference grid in the z = 0 plane as a line mesh.
func Grid(opts GridOptions) (*kernel.Mesh, error) {
	if opts.Step <= 0 || opts.Size <= 0 {
		return nil, geomerr.InvalidArgument("tessellate.Grid", "size %g and step %g must be positive", opts.Size, opts.Step)
	}
	n := int(opts.Size / opts.Step)
	m := &kernel.Mesh{Primitive: dcel.PrimLines.String(), PartName: "grid", Color: [4]float32{0.5, 0.5, 0.5, 1}}
	line := func(a, b vec.Point) {
		base := uint32(m.VertexCount())
		m.Vertices = append(m.Vertices,
			float32(a.X), float32(a.Y), float32(a.Z),
			float32(b.X), float32(b.Y), float32(b.Z))
		m.Indices = append(m.Indices, base, base+1)
	}
	for i := -n; i <= n; i++ {
		c := float64(i) * opts.Step
		line(vec.Pt(c, -opts.Size, 0), vec.Pt(c, opts.Size, 0))
		line(vec.Pt(-opts.Size, c, 0), vec.Pt(opts.Size, c, 0))
	}
	return m, nil
}
