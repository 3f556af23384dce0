// Package scene holds the ordered collection of named geometries produced
// by one evaluation, plus the operations that act on the whole collection:
// rubber-band selection, erasure, counting, centroid computation and
// structural validation.
package scene
