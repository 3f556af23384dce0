// Package export serializes scenes as GeoJSON feature collections and as
// WKT. Coordinates are in each geometry's model frame; entry transforms
// are not applied.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/aucupo/dcelkit/pkg/geom"
	"github.com/aucupo/dcelkit/pkg/scene"
	"github.com/aucupo/dcelkit/pkg/vec"
	geojson "github.com/paulmach/go.geojson"
)

// GeoJSON converts every entry of s into a feature. Points, curves and
// polygons map onto their GeoJSON namesakes with 3D positions; a ring is
// written as a closed LineString and a solid as a MultiPolygon of its
// triangles. Each feature carries id, name, kind and, when set, color.
func GeoJSON(s *scene.Scene) (*geojson.FeatureCollection, error) {
	fc := geojson.NewFeatureCollection()
	for _, e := range s.Entries() {
		g, err := geometry(e.Geometry)
		if err != nil {
			return nil, fmt.Errorf("export: entry %s: %w", e.ID.Short(), err)
		}
		f := geojson.NewFeature(g)
		f.ID = string(e.ID)
		f.SetProperty("kind", e.Geometry.Kind().String())
		if e.Name != "" {
			f.SetProperty("name", e.Name)
		}
		if c, ok := e.Geometry.Color(); ok {
			f.SetProperty("color", c.Hex())
		}
		if !e.Geometry.Visible() {
			f.SetProperty("hidden", true)
		}
		fc.AddFeature(f)
	}
	return fc, nil
}

// WriteGeoJSON writes the GeoJSON of s to w.
func WriteGeoJSON(w io.Writer, s *scene.Scene) error {
	fc, err := GeoJSON(s)
	if err != nil {
		return err
	}
	data, err := fc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	_, err = w.Write(data)
	return err
}

func geometry(g geom.Geometry) (*geojson.Geometry, error) {
	switch g := g.(type) {
	case *geom.Point:
		return geojson.NewPointGeometry(coord(g.Position())), nil
	case *geom.LinearRing:
		return geojson.NewLineStringGeometry(coords(g.ClosedVertices())), nil
	case *geom.Line:
		return geojson.NewLineStringGeometry(coords(g.Vertices())), nil
	case *geom.LineString:
		return geojson.NewLineStringGeometry(coords(g.Vertices())), nil
	case *geom.Polygon:
		rings := make([][][]float64, 0, len(g.Rings()))
		for _, r := range g.Rings() {
			rings = append(rings, coords(r.ClosedVertices()))
		}
		return geojson.NewPolygonGeometry(rings), nil
	case *geom.Solid:
		tris := g.Triangles()
		polys := make([][][][]float64, 0, len(tris))
		for _, t := range tris {
			polys = append(polys, [][][]float64{coords([]vec.Point{t[0], t[1], t[2], t[0]})})
		}
		return geojson.NewMultiPolygonGeometry(polys...), nil
	}
	return nil, fmt.Errorf("unsupported geometry %s", g.Kind())
}

func coord(p vec.Point) []float64 { return []float64{p.X, p.Y, p.Z} }

func coords(points []vec.Point) [][]float64 {
	out := make([][]float64, len(points))
	for i, p := range points {
		out[i] = coord(p)
	}
	return out
}

// WKT returns one line per entry, "name<TAB>wkt" for named entries and the
// bare WKT otherwise.
func WKT(s *scene.Scene) string {
	var sb strings.Builder
	for _, e := range s.Entries() {
		if e.Name != "" {
			sb.WriteString(e.Name)
			sb.WriteByte('\t')
		}
		sb.WriteString(e.Geometry.WKT())
		sb.WriteByte('\n')
	}
	return sb.String()
}
