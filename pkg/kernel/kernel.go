// Package kernel defines the mesh buffer type shared by every renderer-facing
// package, and the abstract solid-modeling kernel whose meshes feed the
// generic solid constructor. Implementations live in subpackages so the
// rest of the system never depends on a particular backend.
package kernel

// Solid is an opaque handle to a kernel solid.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel builds solids with constructive operations and tessellates them.
// All dimensions are in model units; angles are in degrees.
type Kernel interface {
	// Primitives, centered on the origin.
	Box(x, y, z float64) (Solid, error)
	Cylinder(height, radius float64) (Solid, error)
	Sphere(radius float64) (Solid, error)

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles, applied X then Y then Z

	// ToMesh tessellates s into a triangle mesh with one vertex per
	// triangle corner; callers weld it when they need shared vertices.
	ToMesh(s Solid) (*Mesh, error)
}
