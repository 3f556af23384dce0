package scene

import (
	"fmt"
	"strings"

	"github.com/aucupo/dcelkit/pkg/geom"
	"github.com/aucupo/dcelkit/pkg/geomerr"
	"github.com/aucupo/dcelkit/pkg/vec"
)

// Algorithm is a whole-scene operation that reports a one-line result.
// Algorithms may add entries to the scene.
type Algorithm func(s *Scene) (string, error)

// Algorithms lists the operations exposed to the DSL and the CLI, by name.
var Algorithms = map[string]Algorithm{
	"count":           (*Scene).CountReport,
	"count-half":      (*Scene).CountHalf,
	"describe":        (*Scene).Describe,
	"points-centroid": (*Scene).PointsCentroidReport,
}

// CountReport reports the number of geometries.
func (s *Scene) CountReport() (string, error) {
	return fmt.Sprintf("There are %d geometries", s.Count()), nil
}

// CountHalf reports half the number of geometries, rounded down. It fails
// on an empty scene.
func (s *Scene) CountHalf() (string, error) {
	if s.Count() == 0 {
		return "", geomerr.InvalidArgument("scene.CountHalf", "the scene is empty")
	}
	return fmt.Sprintf("The half of the number of geometries in the canvas is: %d", s.Count()/2), nil
}

// Describe lists every entry on its own line.
func (s *Scene) Describe() (string, error) {
	var sb strings.Builder
	for _, e := range s.Entries() {
		sb.WriteByte('\n')
		sb.WriteString(e.String())
	}
	return sb.String(), nil
}

// PointsCentroid adds a point at the centroid of the scene's points and
// returns its ID. Other geometries are ignored.
func (s *Scene) PointsCentroid() (ID, vec.Point, error) {
	var pts []vec.Point
	for _, e := range s.Entries() {
		if p, ok := e.Geometry.(*geom.Point); ok {
			pts = append(pts, p.Position())
		}
	}
	if len(pts) == 0 {
		return "", vec.Point{}, geomerr.DegenerateGeometry("scene.PointsCentroid", "the scene has no points")
	}
	c, err := vec.Centroid(pts)
	if err != nil {
		return "", vec.Point{}, err
	}
	return s.Add("", geom.NewPoint(c)), c, nil
}

// PointsCentroidReport runs PointsCentroid and describes the result.
func (s *Scene) PointsCentroidReport() (string, error) {
	_, c, err := s.PointsCentroid()
	if err != nil {
		return "", err
	}
	return "The centroid is: " + c.String(), nil
}
