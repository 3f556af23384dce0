// Package dcel implements a doubly-connected edge list: the half-edge
// boundary representation shared by every geometry kind in the kernel.
//
// A DCEL owns three arenas (vertices, half-edges, faces). Entities refer to
// each other by index, so the cyclic vertex/edge/face references never form
// ownership cycles and a whole structure is released at once. Face 0 is
// always the exterior face; every other entity is reachable from it.
//
// The structure is rebuilt wholesale by one of the Make* constructors
// whenever the owning geometry changes. The lower-level builder methods
// (AddVertex, AddEdgePair, Link, AddChain) are exposed for planar
// subdivisions that the constructors do not cover.
package dcel
