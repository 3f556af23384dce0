package main

import (
	"os"
	"testing"

	"github.com/aucupo/dcelkit/pkg/config"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	app, err := NewApp(nil, nil)
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	return app
}

// TestE2EShapesExample exercises the full pipeline: source -> engine ->
// scene -> validation -> tessellate -> meshes.
func TestE2EShapesExample(t *testing.T) {
	app := newTestApp(t)

	source, err := os.ReadFile("examples/shapes.dcel")
	if err != nil {
		t.Fatalf("failed to read shapes.dcel: %v", err)
	}

	result := app.Evaluate(string(source))
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("eval error (line %d): %s", e.Line, e.Message)
		}
		t.FailNow()
	}
	if len(result.Warnings) > 0 {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}

	expected := map[string]string{
		"marker":       "points",
		"path":         "lines",
		"triangle":     "lines",
		"baseline":     "lines",
		"frame":        "triangles",
		"cube":         "triangles",
		"dodecahedron": "triangles",
	}
	if len(result.Meshes) != len(expected) {
		t.Fatalf("expected %d meshes, got %d", len(expected), len(result.Meshes))
	}

	for _, m := range result.Meshes {
		prim, ok := expected[m.PartName]
		if !ok {
			t.Errorf("unexpected part name: %q", m.PartName)
			continue
		}
		delete(expected, m.PartName)

		if m.Primitive != prim {
			t.Errorf("part %q: primitive %q, want %q", m.PartName, m.Primitive, prim)
		}
		if len(m.Vertices) == 0 || len(m.Indices) == 0 {
			t.Errorf("part %q: empty buffers", m.PartName)
		}
		if prim == "triangles" && len(m.Normals) != len(m.Vertices) {
			t.Errorf("part %q: %d normals for %d vertex floats", m.PartName, len(m.Normals), len(m.Vertices))
		}
		if m.Color == "" {
			t.Errorf("part %q: no color assigned", m.PartName)
		}
	}
	for name := range expected {
		t.Errorf("missing mesh for part %q", name)
	}
}

func TestE2ECubeColorAndPlacement(t *testing.T) {
	app := newTestApp(t)
	result := app.Evaluate(`
(def c (cube :name "c" :color "#d35400"))
(translate c (vec3 8 0 0.5))
(point 0 0 0 :name "p")
`)
	if len(result.Errors) > 0 {
		t.Fatalf("errors: %v", result.Errors)
	}
	cube := result.Meshes[0]
	if cube.Color != "#d35400" {
		t.Errorf("explicit color = %q", cube.Color)
	}
	for i := 0; i < len(cube.Vertices); i += 3 {
		x := cube.Vertices[i]
		if x < 7.5 || x > 8.5 {
			t.Fatalf("vertex x = %v, want within [7.5, 8.5]", x)
		}
	}
	// The point is the second entry and takes the second palette color.
	if p := result.Meshes[1]; p.Color != "#e67e22" {
		t.Errorf("palette color = %q, want #e67e22", p.Color)
	}
}

// TestE2EEmptySource ensures the pipeline handles empty input gracefully.
func TestE2EEmptySource(t *testing.T) {
	app := newTestApp(t)
	result := app.Evaluate("")

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors for empty source: %v", result.Errors)
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes, got %d", len(result.Meshes))
	}
	if result.Grid == nil {
		t.Error("the default config shows the reference grid")
	}
}

func TestE2ESyntaxError(t *testing.T) {
	app := newTestApp(t)
	result := app.Evaluate(`(point 1 2 3`)

	if len(result.Errors) == 0 {
		t.Fatal("expected errors for syntax error")
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes on syntax error, got %d", len(result.Meshes))
	}
}

func TestE2EInvalidGeometryWarns(t *testing.T) {
	app := newTestApp(t)
	result := app.Evaluate(`(linestring (vec3 0 0 0) :name "stub")`)

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %v", result.Warnings)
	}
	// A single vertex still renders as a point.
	if len(result.Meshes) != 1 || result.Meshes[0].Primitive != "points" {
		t.Errorf("meshes = %+v", result.Meshes)
	}
}

func TestNewAppRejectsBadPalette(t *testing.T) {
	cfg := config.Default()
	cfg.Render.Palette = []string{"not-a-color"}
	if _, err := NewApp(cfg, nil); err == nil {
		t.Fatal("expected palette error")
	}
}

func TestE2EGridHidden(t *testing.T) {
	cfg := config.Default()
	cfg.Render.Grid.Show = false
	app, err := NewApp(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res := app.Evaluate(`(cube)`); res.Grid != nil {
		t.Error("grid should be omitted when hidden")
	}
}
