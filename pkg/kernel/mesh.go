package kernel

import (
	"math"

	"github.com/aucupo/dcelkit/pkg/dcel"
	"github.com/aucupo/dcelkit/pkg/vec"
)

// Mesh is a set of flat GPU buffers. Vertices and Normals hold 3 floats per
// vertex; Indices holds 1, 2 or 3 entries per element depending on
// Primitive; Outline holds index pairs for silhouette lines.
type Mesh struct {
	Vertices  []float32  `json:"vertices"`          // [x0,y0,z0, x1,y1,z1, ...]
	Normals   []float32  `json:"normals,omitempty"` // [nx0,ny0,nz0, ...]
	Indices   []uint32   `json:"indices"`
	Outline   []uint32   `json:"outline,omitempty"`
	Primitive string     `json:"primitive"` // "points", "lines" or "triangles"
	PartName  string     `json:"partName"`  // which scene entry this came from
	Color     [4]float32 `json:"color"`
}

// FromRenderArrays converts extracted DCEL buffers into a mesh. Triangle
// meshes get vertex normals.
func FromRenderArrays(arr dcel.RenderArrays) *Mesh {
	m := &Mesh{
		Vertices:  make([]float32, 0, 3*len(arr.Vertices)),
		Indices:   append([]uint32(nil), arr.Elements...),
		Outline:   append([]uint32(nil), arr.Outline...),
		Primitive: arr.Primitive.String(),
	}
	for _, p := range arr.Vertices {
		m.Vertices = append(m.Vertices, float32(p.X), float32(p.Y), float32(p.Z))
	}
	if arr.Primitive == dcel.PrimTriangles {
		m.ComputeNormals()
	}
	return m
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles; zero unless Primitive is
// "triangles".
func (m *Mesh) TriangleCount() int {
	if m.Primitive != dcel.PrimTriangles.String() {
		return 0
	}
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Points returns the vertex positions.
func (m *Mesh) Points() []vec.Point {
	out := make([]vec.Point, m.VertexCount())
	for i := range out {
		out[i] = m.point(uint32(i))
	}
	return out
}

func (m *Mesh) point(i uint32) vec.Point {
	return vec.Pt(float64(m.Vertices[3*i]), float64(m.Vertices[3*i+1]), float64(m.Vertices[3*i+2]))
}

// Apply maps every vertex through fn and refreshes the normals.
func (m *Mesh) Apply(fn func(vec.Point) vec.Point) {
	for i := 0; i < m.VertexCount(); i++ {
		p := fn(m.point(uint32(i)))
		m.Vertices[3*i] = float32(p.X)
		m.Vertices[3*i+1] = float32(p.Y)
		m.Vertices[3*i+2] = float32(p.Z)
	}
	if m.Normals != nil {
		m.ComputeNormals()
	}
}

// ComputeNormals sets area-weighted vertex normals. A vertex whose
// incident faces cancel out gets the normal of its first incident face.
func (m *Mesh) ComputeNormals() {
	n := m.VertexCount()
	sum := make([]vec.Vec3, n)
	first := make([]vec.Vec3, n)
	seen := make([]bool, n)

	for t := 0; t+2 < len(m.Indices); t += 3 {
		i0, i1, i2 := m.Indices[t], m.Indices[t+1], m.Indices[t+2]
		a, b, c := m.point(i0), m.point(i1), m.point(i2)
		// The cross product length is twice the area, which is the weight.
		fn := b.Sub(a).Cross(c.Sub(a))
		unit, err := fn.Normalize()
		for _, i := range []uint32{i0, i1, i2} {
			sum[i] = sum[i].Add(fn)
			if !seen[i] && err == nil {
				first[i] = unit
				seen[i] = true
			}
		}
	}

	m.Normals = make([]float32, 3*n)
	for i := range sum {
		u, err := sum[i].Normalize()
		if err != nil {
			u = first[i]
		}
		m.Normals[3*i] = float32(u.X)
		m.Normals[3*i+1] = float32(u.Y)
		m.Normals[3*i+2] = float32(u.Z)
	}
}

// Weld merges vertices closer than tolerance (by snapping to a grid of that
// pitch), remaps the indices and drops elements that collapse. Normals are
// recomputed for triangle meshes.
func (m *Mesh) Weld(tolerance float64) {
	if tolerance <= 0 {
		tolerance = 1e-9
	}
	type cell struct{ x, y, z int64 }
	snap := func(f float32) int64 { return int64(math.Round(float64(f) / tolerance)) }

	remap := make([]uint32, m.VertexCount())
	index := make(map[cell]uint32)
	var verts []float32
	for i := range remap {
		x, y, z := m.Vertices[3*i], m.Vertices[3*i+1], m.Vertices[3*i+2]
		key := cell{snap(x), snap(y), snap(z)}
		j, ok := index[key]
		if !ok {
			j = uint32(len(verts) / 3)
			index[key] = j
			verts = append(verts, x, y, z)
		}
		remap[i] = j
	}

	stride := 1
	switch m.Primitive {
	case dcel.PrimLines.String():
		stride = 2
	case dcel.PrimTriangles.String():
		stride = 3
	}
	m.Indices = weldElements(m.Indices, remap, stride)
	m.Outline = weldElements(m.Outline, remap, 2)
	m.Vertices = verts
	if m.Primitive == dcel.PrimTriangles.String() {
		m.ComputeNormals()
	} else {
		m.Normals = nil
	}
}

// weldElements remaps groups of stride indices and drops groups that
// reference the same vertex twice.
func weldElements(idx, remap []uint32, stride int) []uint32 {
	if idx == nil {
		return nil
	}
	out := make([]uint32, 0, len(idx))
	for i := 0; i+stride <= len(idx); i += stride {
		g := make([]uint32, stride)
		for k := range g {
			g[k] = remap[idx[i+k]]
		}
		if stride > 1 && (g[0] == g[1] || (stride == 3 && (g[1] == g[2] || g[2] == g[0]))) {
			continue
		}
		out = append(out, g...)
	}
	return out
}
