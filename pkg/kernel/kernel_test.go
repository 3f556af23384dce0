package kernel

import (
	"math"
	"testing"

	"github.com/aucupo/dcelkit/pkg/dcel"
	"github.com/aucupo/dcelkit/pkg/vec"
)

// --- Mesh helper method tests ---

func TestMeshVertexCount(t *testing.T) {
	tests := []struct {
		name     string
		vertices []float32
		want     int
	}{
		{"empty", nil, 0},
		{"one vertex", []float32{1, 2, 3}, 1},
		{"four vertices", []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Vertices: tt.vertices}
			if got := m.VertexCount(); got != tt.want {
				t.Errorf("VertexCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshTriangleCount(t *testing.T) {
	tests := []struct {
		name      string
		indices   []uint32
		primitive string
		want      int
	}{
		{"empty", nil, "triangles", 0},
		{"one triangle", []uint32{0, 1, 2}, "triangles", 1},
		{"two triangles", []uint32{0, 1, 2, 2, 3, 0}, "triangles", 2},
		{"segments", []uint32{0, 1, 1, 2, 2, 3}, "lines", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Indices: tt.indices, Primitive: tt.primitive}
			if got := m.TriangleCount(); got != tt.want {
				t.Errorf("TriangleCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshIsEmpty(t *testing.T) {
	t.Run("empty mesh", func(t *testing.T) {
		m := &Mesh{}
		if !m.IsEmpty() {
			t.Error("IsEmpty() = false for empty mesh, want true")
		}
	})
	t.Run("non-empty mesh", func(t *testing.T) {
		m := &Mesh{Vertices: []float32{1, 2, 3}}
		if m.IsEmpty() {
			t.Error("IsEmpty() = true for non-empty mesh, want false")
		}
	})
}

func TestFromRenderArrays(t *testing.T) {
	d := dcel.New()
	d.MakeFromPolygon([]vec.Point{vec.Pt(0, 0, 0), vec.Pt(1, 0, 0), vec.Pt(1, 1, 0), vec.Pt(0, 1, 0)})
	arr, err := d.RenderableArrays()
	if err != nil {
		t.Fatal(err)
	}

	m := FromRenderArrays(arr)
	if m.Primitive != "triangles" {
		t.Errorf("primitive = %q, want triangles", m.Primitive)
	}
	if m.VertexCount() != 4 {
		t.Errorf("VertexCount() = %d, want 4", m.VertexCount())
	}
	if len(m.Normals) != len(m.Vertices) {
		t.Fatalf("normals length %d != vertices length %d", len(m.Normals), len(m.Vertices))
	}
	// Front and back faces cancel out; each vertex falls back to the normal
	// of its first face, which is the front one.
	for i := 0; i < m.VertexCount(); i++ {
		if nz := m.Normals[3*i+2]; math.Abs(float64(nz)-1) > 1e-6 {
			t.Errorf("normal %d z = %f, want 1", i, nz)
		}
	}
}

func TestFromRenderArraysLines(t *testing.T) {
	d := dcel.New()
	d.MakeFromLine([]vec.Point{vec.Pt(0, 0, 0), vec.Pt(1, 0, 0), vec.Pt(2, 1, 0)})
	arr, err := d.RenderableArrays()
	if err != nil {
		t.Fatal(err)
	}
	m := FromRenderArrays(arr)
	if m.Primitive != "lines" || m.Normals != nil {
		t.Errorf("line mesh: primitive %q, normals %v", m.Primitive, m.Normals)
	}
	if len(m.Indices) != 4 {
		t.Errorf("indices = %v, want 2 segments", m.Indices)
	}
	pts := m.Points()
	if len(pts) != 3 || pts[2] != vec.Pt(2, 1, 0) {
		t.Errorf("Points() = %v", pts)
	}
}

func TestComputeNormalsAreaWeighted(t *testing.T) {
	// Two triangles sharing vertex 0: a large one in the XY plane and a
	// small one in the XZ plane.
	m := &Mesh{
		Vertices: []float32{
			0, 0, 0,
			10, 0, 0,
			0, 10, 0,
			0, 0, 1,
			1, 0, 0,
		},
		Indices:   []uint32{0, 1, 2, 0, 3, 4},
		Primitive: "triangles",
	}
	m.ComputeNormals()
	nx, ny, nz := m.Normals[0], m.Normals[1], m.Normals[2]
	if nz <= ny || nx != 0 {
		t.Errorf("shared normal = (%f, %f, %f), want dominated by +z", nx, ny, nz)
	}
	if l := math.Sqrt(float64(nx*nx + ny*ny + nz*nz)); math.Abs(l-1) > 1e-6 {
		t.Errorf("normal length = %f, want 1", l)
	}
}

func TestWeld(t *testing.T) {
	// Two triangles as a soup: six vertices, two of them duplicated, plus a
	// sliver that collapses once welded.
	m := &Mesh{
		Vertices: []float32{
			0, 0, 0,
			1, 0, 0,
			1, 1, 0,
			1, 1, 0,
			0, 1, 0,
			0, 0, 0,
			0, 0, 0,
			0.00001, 0, 0,
			1, 1, 0,
		},
		Indices:   []uint32{0, 1, 2, 3, 4, 5, 6, 7, 8},
		Outline:   []uint32{0, 1, 5, 6},
		Primitive: "triangles",
	}
	m.Weld(1e-3)

	if m.VertexCount() != 4 {
		t.Errorf("VertexCount() = %d, want 4", m.VertexCount())
	}
	if m.TriangleCount() != 2 {
		t.Errorf("TriangleCount() = %d, want 2 (sliver dropped)", m.TriangleCount())
	}
	if len(m.Outline) != 2 {
		t.Errorf("outline = %v, want one segment", m.Outline)
	}
	if len(m.Normals) != len(m.Vertices) {
		t.Errorf("normals not recomputed")
	}
}

func TestApply(t *testing.T) {
	m := &Mesh{Vertices: []float32{1, 2, 3}, Indices: []uint32{0}, Primitive: "points"}
	m.Apply(func(p vec.Point) vec.Point { return p.Translate(vec.Vec3{X: 1}) })
	if m.Vertices[0] != 2 || m.Vertices[1] != 2 || m.Vertices[2] != 3 {
		t.Errorf("Apply moved vertex to %v", m.Vertices)
	}
}

// --- Compile-time interface check with a stub kernel ---

// stubSolid is a minimal Solid implementation for testing.
type stubSolid struct {
	minBB, maxBB [3]float64
}

func (s *stubSolid) BoundingBox() (min, max [3]float64) {
	return s.minBB, s.maxBB
}

// stubKernel is a minimal Kernel implementation that proves the interface
// is satisfiable. All methods return trivial results.
type stubKernel struct{}

func (k *stubKernel) Box(x, y, z float64) (Solid, error) {
	return &stubSolid{
		minBB: [3]float64{-x / 2, -y / 2, -z / 2},
		maxBB: [3]float64{x / 2, y / 2, z / 2},
	}, nil
}

func (k *stubKernel) Cylinder(height, radius float64) (Solid, error) {
	return &stubSolid{
		minBB: [3]float64{-radius, -radius, -height / 2},
		maxBB: [3]float64{radius, radius, height / 2},
	}, nil
}

func (k *stubKernel) Sphere(radius float64) (Solid, error) {
	return &stubSolid{
		minBB: [3]float64{-radius, -radius, -radius},
		maxBB: [3]float64{radius, radius, radius},
	}, nil
}

func (k *stubKernel) Union(a, _ Solid) Solid        { return a }
func (k *stubKernel) Difference(a, _ Solid) Solid   { return a }
func (k *stubKernel) Intersection(a, _ Solid) Solid { return a }

func (k *stubKernel) Translate(s Solid, _, _, _ float64) Solid { return s }
func (k *stubKernel) Rotate(s Solid, _, _, _ float64) Solid    { return s }

func (k *stubKernel) ToMesh(_ Solid) (*Mesh, error) {
	return &Mesh{}, nil
}

// Compile-time checks that the stubs implement the interfaces.
var _ Solid = (*stubSolid)(nil)
var _ Kernel = (*stubKernel)(nil)

func TestStubKernelBoxBoundingBox(t *testing.T) {
	var k Kernel = &stubKernel{}
	s, err := k.Box(10, 20, 30)
	if err != nil {
		t.Fatal(err)
	}
	min, max := s.BoundingBox()
	if min != [3]float64{-5, -10, -15} {
		t.Errorf("Box min = %v, want [-5 -10 -15]", min)
	}
	if max != [3]float64{5, 10, 15} {
		t.Errorf("Box max = %v, want [5 10 15]", max)
	}
}
