// Package geom provides the geometry façades built on top of the DCEL
// kernel: Point, LineString, LinearRing, Line, Polygon and Solid, plus the
// supporting Box, Plane, Transform and SelectionBox types.
//
// Each façade owns one DCEL and keeps it synchronized with its vertex list:
// every mutation rebuilds the bounding box, the DCEL and the flat render
// arrays from scratch.
package geom
