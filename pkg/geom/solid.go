package geom

import (
	"math"
	"sort"
	"strings"

	"github.com/aucupo/dcelkit/pkg/dcel"
	"github.com/aucupo/dcelkit/pkg/geomerr"
	"github.com/aucupo/dcelkit/pkg/predicate"
	"github.com/aucupo/dcelkit/pkg/vec"
)

// Solid is a closed triangle mesh. Its DCEL is built by the mesh
// constructor, so the mesh must be manifold and closed.
type Solid struct {
	renderable
	name    string
	points  []vec.Point
	indices []uint32
	bbox    Box
}

// NewSolid builds a solid from points and triangle indices (three per
// triangle, counter-clockwise seen from outside).
func NewSolid(name string, points []vec.Point, indices []uint32) (*Solid, error) {
	s := &Solid{
		renderable: newRenderable(),
		name:       name,
		points:     append([]vec.Point(nil), points...),
		indices:    append([]uint32(nil), indices...),
	}
	if err := s.UpdateSubstructures(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewSolidFromMesh builds a solid from flat xyz coordinates, the layout
// produced by mesh kernels.
func NewSolidFromMesh(name string, coords []float32, indices []uint32) (*Solid, error) {
	if len(coords)%3 != 0 {
		return nil, geomerr.InvalidArgument("geom.NewSolidFromMesh", "%d coordinates is not a multiple of 3", len(coords))
	}
	points := make([]vec.Point, len(coords)/3)
	for i := range points {
		points[i] = vec.Pt(float64(coords[3*i]), float64(coords[3*i+1]), float64(coords[3*i+2]))
	}
	return NewSolid(name, points, indices)
}

func (s *Solid) Kind() Kind         { return KindSolid }
func (s *Solid) Name() string       { return s.name }
func (s *Solid) BoundingBox() Box   { return s.bbox }
func (s *Solid) UpdateBoundingBox() { s.bbox = BoxOf(s.points...) }

// IsValid reports whether the solid has at least one triangle.
func (s *Solid) IsValid() bool {
	return len(s.indices) >= 3 && len(s.indices)%3 == 0
}

// Points returns a copy of the mesh positions.
func (s *Solid) Points() []vec.Point {
	return append([]vec.Point(nil), s.points...)
}

// Indices returns a copy of the triangle indices.
func (s *Solid) Indices() []uint32 {
	return append([]uint32(nil), s.indices...)
}

// Triangles returns the mesh triangles as point triples.
func (s *Solid) Triangles() [][3]vec.Point {
	out := make([][3]vec.Point, 0, len(s.indices)/3)
	for i := 0; i+2 < len(s.indices); i += 3 {
		out = append(out, [3]vec.Point{
			s.points[s.indices[i]], s.points[s.indices[i+1]], s.points[s.indices[i+2]],
		})
	}
	return out
}

// UpdateSubstructures rebuilds the bounding box, DCEL and render arrays.
func (s *Solid) UpdateSubstructures() error {
	s.UpdateBoundingBox()
	return s.rebuild(func(d *dcel.DCEL) error {
		return d.MakeFromMesh(s.points, s.indices)
	})
}

// Volume returns the enclosed volume by the divergence theorem. It is
// positive when the triangles wind counter-clockwise seen from outside.
func (s *Solid) Volume() float64 {
	var v float64
	for _, t := range s.Triangles() {
		v += predicate.SignedVolume(t[0], t[1], t[2], vec.Origin)
	}
	return v / 6
}

// WKT returns "POLYHEDRALSURFACE(((x y z, ...)), ...)" with one closed
// triangle per patch.
func (s *Solid) WKT() string {
	tris := s.Triangles()
	if len(tris) == 0 {
		return "POLYHEDRALSURFACE EMPTY"
	}
	parts := make([]string, len(tris))
	for i, t := range tris {
		parts[i] = "(" + wktList([]vec.Point{t[0], t[1], t[2], t[0]}) + ")"
	}
	return "POLYHEDRALSURFACE(" + strings.Join(parts, ", ") + ")"
}

// NewTetrahedron returns the regular tetrahedron inscribed in the unit
// sphere with a vertex on +z.
func NewTetrahedron() *Solid {
	return mustTemplate("tetrahedron", []vec.Point{
		vec.Pt(0, 0, 1),
		vec.Pt(0.943, 0, -0.333),
		vec.Pt(-0.471, 0.816, -0.333),
		vec.Pt(-0.471, -0.816, -0.333),
	}, []uint32{
		0, 1, 2,
		3, 2, 1,
		0, 2, 3,
		0, 3, 1,
	})
}

// NewCube returns the unit cube centered at the origin.
func NewCube() *Solid {
	return mustTemplate("cube", []vec.Point{
		vec.Pt(-0.5, -0.5, 0.5),  // left-bottom-front
		vec.Pt(0.5, -0.5, 0.5),   // right-bottom-front
		vec.Pt(0.5, 0.5, 0.5),    // right-top-front
		vec.Pt(-0.5, 0.5, 0.5),   // left-top-front
		vec.Pt(-0.5, -0.5, -0.5), // left-bottom-back
		vec.Pt(0.5, -0.5, -0.5),  // right-bottom-back
		vec.Pt(0.5, 0.5, -0.5),   // right-top-back
		vec.Pt(-0.5, 0.5, -0.5),  // left-top-back
	}, []uint32{
		0, 1, 2, 2, 3, 0, // front
		1, 5, 6, 6, 2, 1, // right
		5, 4, 7, 7, 6, 5, // back
		3, 2, 6, 6, 7, 3, // top
		4, 0, 3, 3, 7, 4, // left
		4, 5, 1, 1, 0, 4, // bottom
	})
}

// NewDodecahedron returns the regular dodecahedron with vertices
// (±1, ±1, ±1) and the cyclic permutations of (0, ±1/φ, ±φ). Each
// pentagonal face is found from its normal and fan-triangulated.
func NewDodecahedron() *Solid {
	phi := (1 + math.Sqrt(5)) / 2
	inv := 1 / phi

	var points []vec.Point
	for _, x := range []float64{-1, 1} {
		for _, y := range []float64{-1, 1} {
			for _, z := range []float64{-1, 1} {
				points = append(points, vec.Pt(x, y, z))
			}
		}
	}
	var normals []vec.Vec3
	for _, a := range []float64{-1, 1} {
		for _, b := range []float64{-1, 1} {
			points = append(points,
				vec.Pt(0, a*inv, b*phi),
				vec.Pt(a*inv, b*phi, 0),
				vec.Pt(a*phi, 0, b*inv),
			)
			normals = append(normals,
				vec.Vec3{Y: a * phi, Z: b},
				vec.Vec3{X: b, Z: a * phi},
				vec.Vec3{X: a * phi, Y: b},
			)
		}
	}

	var indices []uint32
	for _, n := range normals {
		indices = append(indices, pentagonFan(points, n)...)
	}
	return mustTemplate("dodecahedron", points, indices)
}

// pentagonFan selects the vertices farthest along n, orders them
// counter-clockwise around n and returns their triangle fan.
func pentagonFan(points []vec.Point, n vec.Vec3) []uint32 {
	best := math.Inf(-1)
	for _, p := range points {
		best = math.Max(best, p.Vec().Dot(n))
	}
	var face []uint32
	var center vec.Vec3
	for i, p := range points {
		if p.Vec().Dot(n) > best-1e-9 {
			face = append(face, uint32(i))
			center = center.Add(p.Vec())
		}
	}
	center = center.Scale(1 / float64(len(face)))

	u := points[face[0]].Vec().Sub(center)
	w := n.Cross(u)
	angle := func(i uint32) float64 {
		d := points[i].Vec().Sub(center)
		return math.Atan2(d.Dot(w), d.Dot(u))
	}
	sort.Slice(face, func(i, j int) bool { return angle(face[i]) < angle(face[j]) })

	var tris []uint32
	for i := 1; i+1 < len(face); i++ {
		tris = append(tris, face[0], face[i], face[i+1])
	}
	return tris
}

func mustTemplate(name string, points []vec.Point, indices []uint32) *Solid {
	s, err := NewSolid(name, points, indices)
	if err != nil {
		panic("geom: template " + name + ": " + err.Error())
	}
	return s
}
