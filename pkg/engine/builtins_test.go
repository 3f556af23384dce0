package engine

import (
	"math"
	"strings"
	"testing"

	"github.com/aucupo/dcelkit/pkg/geom"
	"github.com/aucupo/dcelkit/pkg/geomerr"
	"github.com/aucupo/dcelkit/pkg/kernel"
	"github.com/aucupo/dcelkit/pkg/scene"
	"github.com/aucupo/dcelkit/pkg/vec"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Stub kernel: every solid is an axis-aligned box meshed as a cube.
// ---------------------------------------------------------------------------

type stubSolid struct {
	min, max [3]float64
}

func (s stubSolid) BoundingBox() (min, max [3]float64) { return s.min, s.max }

type stubKernel struct{}

func (stubKernel) Box(x, y, z float64) (kernel.Solid, error) {
	if x <= 0 || y <= 0 || z <= 0 {
		return nil, geomerr.InvalidArgument("stub.Box", "non-positive size")
	}
	return stubSolid{min: [3]float64{-x / 2, -y / 2, -z / 2}, max: [3]float64{x / 2, y / 2, z / 2}}, nil
}

func (k stubKernel) Cylinder(h, r float64) (kernel.Solid, error) { return k.Box(2*r, 2*r, h) }
func (k stubKernel) Sphere(r float64) (kernel.Solid, error)      { return k.Box(2*r, 2*r, 2*r) }

func (stubKernel) Union(a, b kernel.Solid) kernel.Solid {
	sa, sb := a.(stubSolid), b.(stubSolid)
	var out stubSolid
	for i := range 3 {
		out.min[i] = math.Min(sa.min[i], sb.min[i])
		out.max[i] = math.Max(sa.max[i], sb.max[i])
	}
	return out
}

func (stubKernel) Difference(a, b kernel.Solid) kernel.Solid { return a }

func (stubKernel) Intersection(a, b kernel.Solid) kernel.Solid {
	sa, sb := a.(stubSolid), b.(stubSolid)
	var out stubSolid
	for i := range 3 {
		out.min[i] = math.Max(sa.min[i], sb.min[i])
		out.max[i] = math.Min(sa.max[i], sb.max[i])
	}
	return out
}

func (stubKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	ss := s.(stubSolid)
	d := [3]float64{x, y, z}
	for i := range 3 {
		ss.min[i] += d[i]
		ss.max[i] += d[i]
	}
	return ss
}

func (stubKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid { return s }

// ToMesh emits one vertex per triangle corner, like a real kernel.
func (stubKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	ss := s.(stubSolid)
	cube := geom.NewCube()
	pts := cube.Points()
	m := &kernel.Mesh{Primitive: "triangles"}
	for i, idx := range cube.Indices() {
		p := pts[idx]
		xs := [3]float64{p.X, p.Y, p.Z}
		for a := range 3 {
			c := (ss.min[a] + ss.max[a]) / 2
			m.Vertices = append(m.Vertices, float32(c+xs[a]*(ss.max[a]-ss.min[a])))
		}
		m.Indices = append(m.Indices, uint32(i))
	}
	return m, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// eval runs src against a fresh builder and returns the value of the last
// expression.
func eval(t *testing.T, k kernel.Kernel, src string) (*builder, zygo.Sexp, error) {
	t.Helper()
	b := &builder{scene: scene.New(), kernel: k}
	env := zygo.NewZlispSandbox()
	defer env.Stop()
	b.register(env)

	if err := env.LoadString(preprocessSource(src)); err != nil {
		return b, nil, err
	}
	res, err := env.Run()
	return b, res, err
}

func mustEval(t *testing.T, k kernel.Kernel, src string) (*builder, zygo.Sexp) {
	t.Helper()
	b, res, err := eval(t, k, src)
	if err != nil {
		t.Fatalf("eval %q: %v", src, err)
	}
	return b, res
}

func lookup(t *testing.T, b *builder, name string) *scene.Entry {
	t.Helper()
	e := b.scene.Lookup(name)
	if e == nil {
		t.Fatalf("no entry named %q", name)
	}
	return e
}

// ---------------------------------------------------------------------------
// Preprocessing
// ---------------------------------------------------------------------------

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{"simple keyword", `(point 1 2 :name "p")`, `(point 1 2 "__kw_name" "p")`},
		{"multiple keywords", `(cylinder :height 4 :radius 1)`, `(cylinder "__kw_height" 4 "__kw_radius" 1)`},
		{"keyword in string preserved", `"thing with :keyword inside"`, `"thing with :keyword inside"`},
		{"escaped quote in string", `"a \" :b" :c`, `"a \" :b" "__kw_c"`},
		{"backtick string preserved", "`raw :kw-x`", "`raw :kw-x`"},
		{"assignment operator preserved", `(def x := 10)`, `(def x := 10)`},
		{"kebab-case identifier", `(random-points 3)`, `(random_points 3)`},
		{"minus operator preserved", `(- 10 5)`, `(- 10 5)`},
		{"negative number preserved", `(vec3 -1 0 -2)`, `(vec3 -1 0 -2)`},
		{"comment converted to // style", `;; comment with :keyword`, `// comment with :keyword`},
		{"single semicolon comment", `; simple comment`, `// simple comment`},
		{"hyphen in keyword preserved", `:make-valid`, `"__kw_make-valid"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := preprocessSource(tt.input); got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

func TestParseArgs(t *testing.T) {
	args := []zygo.Sexp{
		&zygo.SexpInt{Val: 1},
		&zygo.SexpStr{S: kwPrefix + "name"},
		&zygo.SexpStr{S: "p"},
		&zygo.SexpInt{Val: 2},
		&zygo.SexpStr{S: kwPrefix + "flag"},
		&zygo.SexpStr{S: kwPrefix + "size"},
		&zygo.SexpFloat{Val: 1.5},
	}
	pa := parseArgs(args)
	if len(pa.positional) != 2 {
		t.Errorf("got %d positional args, want 2", len(pa.positional))
	}
	if name, err := pa.name(); err != nil || name != "p" {
		t.Errorf("name() = %q, %v", name, err)
	}
	if pa.kw["flag"] != zygo.SexpNull {
		t.Errorf("keyword followed by a keyword should be a null flag, got %v", pa.kw["flag"])
	}
	if f, err := pa.float("size", 0); err != nil || f != 1.5 {
		t.Errorf("size = %v, %v", f, err)
	}
	if f, err := pa.float("missing", 7); err != nil || f != 7 {
		t.Errorf("float default = %v, %v", f, err)
	}
}

// ---------------------------------------------------------------------------
// Geometry builtins
// ---------------------------------------------------------------------------

func TestPointBuiltin(t *testing.T) {
	b, _ := mustEval(t, nil, `
(point (vec3 1 2 3) :name "a")
(point 4 5 :name "b")
(point 7 8 9 :color "#ff0000")
`)
	if b.scene.Count() != 3 {
		t.Fatalf("got %d entries, want 3", b.scene.Count())
	}
	if p := lookup(t, b, "a").Geometry.(*geom.Point).Position(); p != vec.Pt(1, 2, 3) {
		t.Errorf("a = %v", p)
	}
	if p := lookup(t, b, "b").Geometry.(*geom.Point).Position(); p != vec.Pt(4, 5, 0) {
		t.Errorf("b = %v", p)
	}
	c, ok := b.scene.Entries()[2].Geometry.Color()
	if !ok || c != geom.RGB(1, 0, 0) {
		t.Errorf("color = %v, %v", c, ok)
	}
}

func TestCurveBuiltins(t *testing.T) {
	b, _ := mustEval(t, nil, `
(def o (vec3 0 0 0))
(linestring o (vec3 1 0 0) (vec3 1 1 0) :name "path")
(ring o (vec3 1 0 0) (vec3 1 1 0) :name "tri")
(line o (vec3 0 0 5) :name "up")
`)
	if ls := lookup(t, b, "path").Geometry.(*geom.LineString); ls.Len() != 3 {
		t.Errorf("path has %d vertices, want 3", ls.Len())
	}
	if r := lookup(t, b, "tri").Geometry.(*geom.LinearRing); !r.IsClosed() {
		t.Error("ring should be closed")
	}
	if l := lookup(t, b, "up").Geometry.(*geom.Line); l.Length() != 5 {
		t.Errorf("line length = %v, want 5", l.Length())
	}
}

func TestPolygonBuiltin(t *testing.T) {
	b, _ := mustEval(t, nil, `
(polygon (vec3 0 0 0) (vec3 4 0 0) (vec3 4 4 0) (vec3 0 4 0)
  :holes (list (list (vec3 1 1 0) (vec3 1 3 0) (vec3 3 3 0) (vec3 3 1 0)))
  :name "frame")
(polygon (vec3 0 0 0) (vec3 0 4 0) (vec3 4 4 0) (vec3 4 0 0) :make-valid :name "flipped")
`)
	frame := lookup(t, b, "frame").Geometry.(*geom.Polygon)
	if len(frame.Holes()) != 1 {
		t.Fatalf("got %d holes, want 1", len(frame.Holes()))
	}
	if a := frame.Area(); math.Abs(a-12) > 1e-9 {
		t.Errorf("area = %v, want 12", a)
	}

	flipped := lookup(t, b, "flipped").Geometry.(*geom.Polygon)
	n, err := flipped.Normal()
	if err != nil {
		t.Fatal(err)
	}
	if n.Z <= 0 {
		t.Errorf(":make-valid should orient the boundary counter-clockwise, normal = %v", n)
	}
}

func TestTemplateBuiltins(t *testing.T) {
	b, _ := mustEval(t, nil, `
(tetrahedron :name "t")
(cube :name "c")
(dodecahedron :name "d")
`)
	want := map[string]int{"t": 4, "c": 8, "d": 20}
	for name, n := range want {
		s := lookup(t, b, name).Geometry.(*geom.Solid)
		if got := len(s.Points()); got != n {
			t.Errorf("%s has %d points, want %d", name, got, n)
		}
	}
}

func TestGeometryBuiltinErrors(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		errPart string
	}{
		{"vec3 arity", `(vec3 1 2)`, "exactly 3"},
		{"vec3 type", `(vec3 1 "a" 3)`, "expected number"},
		{"point arity", `(point)`, "point requires"},
		{"ring too short", `(ring (vec3 0 0 0) (vec3 1 0 0))`, "at least 3"},
		{"line arity", `(line (vec3 0 0 0))`, "exactly 2"},
		{"line vertex type", `(line 1 2)`, "expected vec3"},
		{"bad color keyword", `(point 1 2 3 :color "#12")`, "invalid argument"},
		{"box without kernel", `(box 1 1 1)`, "no solid kernel"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := eval(t, nil, tt.source)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.errPart) {
				t.Errorf("error %q does not mention %q", err, tt.errPart)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Kernel builtins
// ---------------------------------------------------------------------------

func TestBoxBuiltin(t *testing.T) {
	b, _ := mustEval(t, stubKernel{}, `
(box 2 4 6 :name "a")
(box :size (vec3 1 1 1) :name "b")
(cylinder :height 2 :radius 1 :name "c")
(sphere :radius 3 :name "s")
`)
	a := lookup(t, b, "a").Geometry.(*geom.Solid)
	if len(a.Points()) != 8 || len(a.Indices()) != 36 {
		t.Fatalf("welded box: %d points, %d indices", len(a.Points()), len(a.Indices()))
	}
	if math.Abs(a.Volume()-48) > 1e-4 {
		t.Errorf("volume = %v, want 48", a.Volume())
	}
	if got := a.BoundingBox().Max; got != vec.Pt(1, 2, 3) {
		t.Errorf("bbox max = %v", got)
	}
	if len(b.shapes) != 4 {
		t.Errorf("tracked %d kernel shapes, want 4", len(b.shapes))
	}
}

func TestBoxBuiltinInvalid(t *testing.T) {
	_, _, err := eval(t, stubKernel{}, `(box 0 1 1)`)
	if err == nil || !strings.Contains(err.Error(), "box") {
		t.Fatalf("expected box error, got %v", err)
	}
}

func TestCSGBuiltins(t *testing.T) {
	b, _ := mustEval(t, stubKernel{}, `
(def a (box 2 2 2))
(def c (box 2 2 2))
(translate c (vec3 2 0 0))
(union a c :name "u")
`)
	if b.scene.Count() != 1 {
		t.Fatalf("operands should be consumed, got %d entries", b.scene.Count())
	}
	u := lookup(t, b, "u").Geometry.(*geom.Solid)
	bb := u.BoundingBox()
	if bb.Min.X != -1 || bb.Max.X != 3 {
		t.Errorf("union x extent = [%v, %v], want [-1, 3]", bb.Min.X, bb.Max.X)
	}
	if !u.Transform().IsIdentity() {
		t.Error("CSG result should carry its placement in the kernel solid")
	}
}

func TestCSGBuiltinErrors(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		errPart string
	}{
		{"template operand", `(union (cube) (box 1 1 1))`, "not a kernel solid"},
		{"same operand", `(def a (box 1 1 1)) (difference a a)`, "must differ"},
		{"scaled operand", `(def a (box 1 1 1)) (scale a 2) (intersection a (box 1 1 1))`, "not a kernel solid"},
		{"arity", `(union (box 1 1 1))`, "exactly 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := eval(t, stubKernel{}, tt.source)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.errPart) {
				t.Errorf("error %q does not mention %q", err, tt.errPart)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Transforms and presentation
// ---------------------------------------------------------------------------

func TestTransformBuiltins(t *testing.T) {
	b, _ := mustEval(t, nil, `
(def p (point 1 0 0 :name "p"))
(translate p (vec3 0 0 1))
(rotate p 90 :z)
(def q (point 1 0 0 :name "q"))
(scale q 3)
`)
	p := lookup(t, b, "p").Geometry
	got := p.Transform().Apply(p.(*geom.Point).Position())
	// Rotation follows translation: (1,0,1) -> (0,1,1).
	if !vec.Vec3(got).ApproxEqual(vec.Vec3{X: 0, Y: 1, Z: 1}, 1e-9) {
		t.Errorf("transformed p = %v, want (0, 1, 1)", got)
	}

	q := lookup(t, b, "q").Geometry
	if got := q.Transform().Apply(q.(*geom.Point).Position()); got != vec.Pt(3, 0, 0) {
		t.Errorf("scaled q = %v", got)
	}
}

func TestRotateArbitraryAxisDropsKernelShape(t *testing.T) {
	b, _ := mustEval(t, stubKernel{}, `
(def a (box 1 1 1 :name "a"))
(def c (box 1 1 1 :name "c"))
(rotate a 90 :x)
(rotate c 45 (vec3 1 1 0))
`)
	if _, ok := b.shapes[lookup(t, b, "a").ID]; !ok {
		t.Error("rotation about a principal axis keeps the kernel shape")
	}
	if _, ok := b.shapes[lookup(t, b, "c").ID]; ok {
		t.Error("rotation about an arbitrary axis should drop the kernel shape")
	}
}

func TestColorBuiltin(t *testing.T) {
	b, _ := mustEval(t, nil, `
(def a (cube :name "a"))
(def c (cube :name "c"))
(color a "#00ff00")
(color c 0 0 1)
`)
	if got, _ := lookup(t, b, "a").Geometry.Color(); got != geom.RGB(0, 1, 0) {
		t.Errorf("a color = %v", got)
	}
	if got, _ := lookup(t, b, "c").Geometry.Color(); got != geom.RGB(0, 0, 1) {
		t.Errorf("c color = %v", got)
	}
}

func TestTransformBuiltinErrors(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		errPart string
	}{
		{"translate non-ref", `(translate 1 (vec3 0 0 0))`, "expected geometry reference"},
		{"rotate bad axis", `(rotate (cube) 90 :w)`, "invalid axis"},
		{"rotate zero axis", `(rotate (cube) 90 (vec3 0 0 0))`, "degenerate"},
		{"scale bad factor", `(scale (cube) "big")`, "expected number"},
		{"color arity", `(color (cube) 1 2)`, "color requires"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := eval(t, nil, tt.source)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.errPart) {
				t.Errorf("error %q does not mention %q", err, tt.errPart)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Queries and algorithms
// ---------------------------------------------------------------------------

func TestRandomPointsBuiltin(t *testing.T) {
	b, res := mustEval(t, nil, `(random-points 20 :min (vec3 -1 -1 0) :max (vec3 1 1 0) :seed 3)`)
	items, err := sexpListToSlice(res)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 20 || b.scene.Count() != 20 {
		t.Fatalf("got %d refs and %d entries, want 20", len(items), b.scene.Count())
	}
	box := geom.BoxOf(vec.Pt(-1, -1, 0), vec.Pt(1, 1, 0))
	for _, e := range b.scene.Entries() {
		if p := e.Geometry.(*geom.Point).Position(); !box.Contains(p) {
			t.Errorf("point %v outside the requested box", p)
		}
	}
}

func TestCentroidBuiltin(t *testing.T) {
	_, res := mustEval(t, nil, `
(def a (point 0 0 0))
(centroid a (vec3 2 0 0) (vec3 1 3 0))
`)
	v, err := toVec3(res)
	if err != nil {
		t.Fatal(err)
	}
	if !v.ApproxEqual(vec.Vec3{X: 1, Y: 1}, 1e-12) {
		t.Errorf("centroid = %v, want (1, 1, 0)", v)
	}

	if _, _, err := eval(t, nil, `(centroid (cube))`); err == nil {
		t.Error("centroid of a solid should fail")
	}
	if _, _, err := eval(t, nil, `(centroid)`); err == nil {
		t.Error("centroid of nothing should fail")
	}
}

func TestSelectAndEraseBuiltins(t *testing.T) {
	source := `
(point 1 1 0 :name "in")
(point 9 9 0 :name "out")
(linestring (vec3 1 1 0) (vec3 2 2 0) :name "seg")
(linestring (vec3 1 1 0) (vec3 8 1 0) :name "long")
`
	_, res := mustEval(t, nil, source+`(select (vec3 0 0 0) (vec3 5 5 0))`)
	items, err := sexpListToSlice(res)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, it := range items {
		names = append(names, it.(*sexpRef).name)
	}
	if strings.Join(names, ",") != "in,seg" {
		t.Errorf("selected %v, want [in seg]", names)
	}

	b, res := mustEval(t, nil, source+`(erase (vec3 5 5 0) (vec3 0 0 0))`)
	if n, err := toInt(res); err != nil || n != 2 {
		t.Errorf("erase returned %v, %v", n, err)
	}
	if b.scene.Count() != 2 || b.scene.Lookup("in") != nil {
		t.Errorf("after erase: %d entries", b.scene.Count())
	}
}

func TestErasedReference(t *testing.T) {
	_, _, err := eval(t, nil, `
(def p (point 1 1 0))
(erase (vec3 0 0 0) (vec3 2 2 0))
(translate p (vec3 1 0 0))
`)
	if err == nil || !strings.Contains(err.Error(), "erased") {
		t.Fatalf("expected erased-reference error, got %v", err)
	}
}

func TestAlgorithmBuiltins(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{`(point 0 0 0) (cube) (count)`, "There are 2 geometries"},
		{`(point 0 0 0) (cube) (cube) (count-half)`, "The half of the number of geometries in the canvas is: 1"},
		{`(point 0 0 0) (point 2 4 0) (points-centroid)`, "The centroid is: Point(1, 2, 0)"},
		{`(cube :name "c") (describe)`, `solid "c"`},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			_, res := mustEval(t, nil, tt.source)
			s, err := toString(res)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(s, tt.want) {
				t.Errorf("got %q, want %q", s, tt.want)
			}
		})
	}

	if _, _, err := eval(t, nil, `(count-half)`); err == nil {
		t.Error("count-half on an empty scene should fail")
	}
	if _, _, err := eval(t, nil, `(count 1)`); err == nil {
		t.Error("algorithms take no arguments")
	}
}
