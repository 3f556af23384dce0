package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// 1. Error reporting
// ---------------------------------------------------------------------------

func TestE2ESyntaxErrorWithLineInfo(t *testing.T) {
	app := newTestApp(t)
	result := app.Evaluate("(point 0 0 0)\n(cube\n")

	if len(result.Errors) == 0 {
		t.Fatal("expected at least one error")
	}
	e := result.Errors[0]
	if e.Message == "" {
		t.Error("error message should not be empty")
	}
	t.Logf("line=%d message=%q", e.Line, e.Message)
}

func TestE2EUndefinedReference(t *testing.T) {
	app := newTestApp(t)
	result := app.Evaluate(`(translate ghost (vec3 1 0 0))`)

	if len(result.Errors) == 0 {
		t.Fatal("expected error for undefined reference")
	}
	if !strings.Contains(result.Errors[0].Message, "ghost") {
		t.Errorf("expected error mentioning 'ghost', got: %v", result.Errors)
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes on error, got %d", len(result.Meshes))
	}
}

func TestE2EBuiltinErrorSurfaces(t *testing.T) {
	app := newTestApp(t)
	result := app.Evaluate(`(ring (vec3 0 0 0) (vec3 1 0 0))`)
	if len(result.Errors) == 0 || !strings.Contains(result.Errors[0].Message, "at least 3") {
		t.Errorf("expected ring arity error, got %v", result.Errors)
	}
}

func TestE2ECommentsOnly(t *testing.T) {
	app := newTestApp(t)
	result := app.Evaluate(";; nothing here\n; still nothing\n")
	if len(result.Errors) > 0 || len(result.Meshes) > 0 {
		t.Errorf("comments only: %+v", result)
	}
}

// ---------------------------------------------------------------------------
// 2. Rapid evaluation: no panics, results stay independent.
// ---------------------------------------------------------------------------

func TestE2ERapidEvaluationAlternating(t *testing.T) {
	// Sequential on purpose: zygomys keeps global state that is not safe
	// for concurrent sandbox creation.
	app := newTestApp(t)

	sources := []string{
		`(cube :name "ok")`,
		`(cube`,
		``,
		`(translate missing (vec3 0 0 0))`,
		`(tetrahedron :name "also-ok")`,
		`(+ 1 2)`,
		`;; just a comment`,
		`(point 1 2 3)`,
		`(undefined-func 1 2 3)`,
		`(dodecahedron :name "last")`,
	}

	for i, source := range sources {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("iteration %d panicked on source %q: %v", i, source, r)
				}
			}()
			_ = app.Evaluate(source)
		}()
	}

	result := app.Evaluate(`(cube :name "final")`)
	if len(result.Meshes) != 1 || result.Meshes[0].PartName != "final" {
		t.Errorf("state leaked between evaluations: %+v", result.Meshes)
	}
}

// ---------------------------------------------------------------------------
// 3. Palette and algorithms
// ---------------------------------------------------------------------------

func TestE2EColorPaletteWrapping(t *testing.T) {
	app := newTestApp(t)

	var sb strings.Builder
	for i := 0; i < 10; i++ {
		sb.WriteString("(point 0 0 0)\n")
	}
	result := app.Evaluate(sb.String())
	if len(result.Meshes) != 10 {
		t.Fatalf("expected 10 meshes, got %d", len(result.Meshes))
	}
	if result.Meshes[0].Color != result.Meshes[8].Color {
		t.Errorf("palette should wrap after 8 colors: %q vs %q", result.Meshes[0].Color, result.Meshes[8].Color)
	}
	if result.Meshes[0].Color == result.Meshes[1].Color {
		t.Error("adjacent entries should get different palette colors")
	}
}

func TestE2EAlgorithmsExample(t *testing.T) {
	app := newTestApp(t)
	source, err := os.ReadFile("examples/algorithms.dcel")
	if err != nil {
		t.Fatal(err)
	}
	s, errs := app.Build(string(source))
	if s == nil {
		t.Fatalf("build failed: %v", errs)
	}
	center := s.Lookup("center")
	if center == nil {
		t.Fatal("missing center point")
	}
	// 50 random points minus the erased ones, plus center and the centroid.
	if s.Count() < 2 || s.Count() > 52 {
		t.Errorf("unexpected entry count %d", s.Count())
	}
}

// TestE2EKernelSolid goes through the SDF kernel: marching cubes, weld and
// the generic solid constructor.
func TestE2EKernelSolid(t *testing.T) {
	app := newTestApp(t)
	source, err := os.ReadFile("examples/csg.dcel")
	if err != nil {
		t.Fatal(err)
	}
	result := app.Evaluate(string(source))
	if len(result.Errors) > 0 {
		t.Fatalf("kernel solid rejected: %v", result.Errors)
	}
	if len(result.Meshes) != 1 || result.Meshes[0].PartName != "plate" {
		t.Fatalf("meshes = %d", len(result.Meshes))
	}
	if result.Meshes[0].Primitive != "triangles" {
		t.Errorf("primitive = %q", result.Meshes[0].Primitive)
	}
}

// ---------------------------------------------------------------------------
// 4. Command line
// ---------------------------------------------------------------------------

func writeScript(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.dcel")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestCLIEvalFormats(t *testing.T) {
	path := writeScript(t, `(point 1 2 3 :name "p") (linestring (vec3 0 0 0) (vec3 1 1 0))`)

	out, _, err := runCLI(t, "", "eval", "--format", "wkt", path)
	if err != nil {
		t.Fatalf("eval wkt: %v", err)
	}
	if out != "p\tPOINT(1 2 3)\nLINESTRING(0 0 0, 1 1 0)\n" {
		t.Errorf("wkt output = %q", out)
	}

	out, _, err = runCLI(t, "", "eval", "-f", "geojson", path)
	if err != nil {
		t.Fatalf("eval geojson: %v", err)
	}
	if !strings.Contains(out, `"FeatureCollection"`) || !strings.Contains(out, `"Point"`) {
		t.Errorf("geojson output = %s", out)
	}

	out, _, err = runCLI(t, "", "eval", path)
	if err != nil {
		t.Fatalf("eval json: %v", err)
	}
	var res EvalResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("json output does not decode: %v", err)
	}
	if len(res.Meshes) != 2 {
		t.Errorf("got %d meshes, want 2", len(res.Meshes))
	}
}

func TestCLIEvalStdin(t *testing.T) {
	out, _, err := runCLI(t, `(point 0 0 0)`, "eval", "--format", "wkt", "-")
	if err != nil {
		t.Fatal(err)
	}
	if out != "POINT(0 0 0)\n" {
		t.Errorf("output = %q", out)
	}
}

func TestCLIEvalErrors(t *testing.T) {
	path := writeScript(t, "(point 1 2 3)\n(cube")
	_, stderr, err := runCLI(t, "", "eval", "--format", "wkt", path)
	if err == nil {
		t.Fatal("expected an error for a broken script")
	}
	if stderr == "" {
		t.Error("evaluation errors should be written to stderr")
	}

	if _, _, err := runCLI(t, "", "eval", "--format", "svg", path); err == nil {
		t.Error("unknown format should be rejected")
	}
	if _, _, err := runCLI(t, "", "eval", filepath.Join(t.TempDir(), "missing.dcel")); err == nil {
		t.Error("missing file should fail")
	}
}

func TestCLIValidate(t *testing.T) {
	path := writeScript(t, `(cube :name "c") (linestring (vec3 0 0 0))`)
	out, _, err := runCLI(t, "", "validate", path)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.Contains(out, "not valid") || !strings.Contains(out, "ok: 2 entries") {
		t.Errorf("validate output = %q", out)
	}
}

func TestCLIConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "dcelkit.yaml")
	if err := os.WriteFile(cfgPath, []byte("kernel:\n  mesh_cells: 16\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, _, err := runCLI(t, "", "--config", cfgPath, "config")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "mesh_cells: 16") {
		t.Errorf("config output = %q", out)
	}

	if err := os.WriteFile(cfgPath, []byte("kernel:\n  mesh_cells: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := runCLI(t, "", "-c", cfgPath, "config"); err == nil {
		t.Error("invalid config should fail")
	}
}

func TestCLIHelp(t *testing.T) {
	out, _, err := runCLI(t, "", "--help")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "eval") {
		t.Errorf("help output = %q", out)
	}
}
