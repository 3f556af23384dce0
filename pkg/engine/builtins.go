package engine

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/aucupo/dcelkit/pkg/geom"
	"github.com/aucupo/dcelkit/pkg/kernel"
	"github.com/aucupo/dcelkit/pkg/scene"
	"github.com/aucupo/dcelkit/pkg/vec"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpVec3 wraps a vec.Vec3; it doubles as a point wherever one is expected.
type sexpVec3 struct {
	vec vec.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpRef refers to a scene entry.
type sexpRef struct {
	id   scene.ID
	name string
}

func (r *sexpRef) SexpString(ps *zygo.PrintState) string {
	if r.name != "" {
		return fmt.Sprintf("(ref %q)", r.name)
	}
	return fmt.Sprintf("(ref %s)", r.id.Short())
}
func (r *sexpRef) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// isKW reports whether s is a preprocessed keyword and returns its name.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok || !strings.HasPrefix(str.S, kwPrefix) {
		return "", false
	}
	return str.S[len(kwPrefix):], true
}

// kwArgs is a mixed positional and keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	pa := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			pa.positional = append(pa.positional, args[i])
			continue
		}
		if _, next := isKW(argAt(args, i+1)); i+1 < len(args) && !next {
			pa.kw[name] = args[i+1]
			i++
		} else {
			// A keyword with no value acts as a flag.
			pa.kw[name] = zygo.SexpNull
		}
	}
	return pa
}

func argAt(args []zygo.Sexp, i int) zygo.Sexp {
	if i < len(args) {
		return args[i]
	}
	return zygo.SexpNull
}

// name returns the :name keyword, or "".
func (pa kwArgs) name() (string, error) {
	v, ok := pa.kw["name"]
	if !ok {
		return "", nil
	}
	return toString(v)
}

// float returns keyword k as a number, or def when absent.
func (pa kwArgs) float(k string, def float64) (float64, error) {
	v, ok := pa.kw[k]
	if !ok {
		return def, nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return f, nil
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a SexpInt or SexpFloat.
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a plain string.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString accepts both :z and "z".
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	return strings.TrimPrefix(str.S, kwPrefix), nil
}

// toVec3 extracts a vector from a vec3 value.
func toVec3(s zygo.Sexp) (vec.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return vec.Vec3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

func toPoint(s zygo.Sexp) (vec.Point, error) {
	v, err := toVec3(s)
	return vec.Point(v), err
}

// toPoints converts every element of args to a point.
func toPoints(args []zygo.Sexp) ([]vec.Point, error) {
	out := make([]vec.Point, 0, len(args))
	for i, a := range args {
		p, err := toPoint(a)
		if err != nil {
			return nil, fmt.Errorf("vertex %d: %w", i, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// toAxis accepts :x, :y, :z or an arbitrary vec3.
func toAxis(s zygo.Sexp) (vec.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	name, err := toKeywordString(s)
	if err != nil {
		return vec.Vec3{}, fmt.Errorf("expected axis (:x, :y, :z or vec3): %w", err)
	}
	switch name {
	case "x":
		return vec.Vec3{X: 1}, nil
	case "y":
		return vec.Vec3{Y: 1}, nil
	case "z":
		return vec.Vec3{Z: 1}, nil
	}
	return vec.Vec3{}, fmt.Errorf("invalid axis %q, expected x, y, or z", name)
}

// sexpListToSlice converts a list or array to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// builder holds the state the builtins of one evaluation share.
type builder struct {
	scene  *scene.Scene
	kernel kernel.Kernel
	weld   float64

	// shapes keeps the kernel solid behind every entry created by a kernel
	// primitive, so later CSG operations can combine them. An entry leaves
	// the map once it gets a transform the kernel cannot express.
	shapes map[scene.ID]kernel.Solid
}

// register installs the scene-language builtins into env. Source must be
// preprocessed with preprocessSource so keywords and kebab-case names
// match.
func (b *builder) register(env *zygo.Zlisp) {
	b.shapes = make(map[scene.ID]kernel.Solid)

	env.AddFunction("vec3", b.vec3)
	env.AddFunction("point", b.point)
	env.AddFunction("linestring", b.linestring)
	env.AddFunction("ring", b.ring)
	env.AddFunction("line", b.line)
	env.AddFunction("polygon", b.polygon)

	env.AddFunction("tetrahedron", b.template(geom.NewTetrahedron))
	env.AddFunction("cube", b.template(geom.NewCube))
	env.AddFunction("dodecahedron", b.template(geom.NewDodecahedron))

	env.AddFunction("box", b.box)
	env.AddFunction("cylinder", b.cylinder)
	env.AddFunction("sphere", b.sphere)
	env.AddFunction("union", b.csg(kernel.Kernel.Union))
	env.AddFunction("difference", b.csg(kernel.Kernel.Difference))
	env.AddFunction("intersection", b.csg(kernel.Kernel.Intersection))

	env.AddFunction("translate", b.translate)
	env.AddFunction("rotate", b.rotate)
	env.AddFunction("scale", b.scale)
	env.AddFunction("color", b.color)

	env.AddFunction("random_points", b.randomPoints)
	env.AddFunction("centroid", b.centroid)
	env.AddFunction("select", b.selectBox)
	env.AddFunction("erase", b.erase)

	for name, alg := range scene.Algorithms {
		env.AddFunction(strings.ReplaceAll(name, "-", "_"), b.algorithm(alg))
	}
}

// add stores g in the scene under the :name keyword, applying :color when
// given.
func (b *builder) add(pa kwArgs, g geom.Renderable) (*sexpRef, error) {
	name, err := pa.name()
	if err != nil {
		return nil, fmt.Errorf("name: %w", err)
	}
	if v, ok := pa.kw["color"]; ok {
		hex, err := toString(v)
		if err != nil {
			return nil, fmt.Errorf("color: %w", err)
		}
		c, err := geom.ParseHex(hex)
		if err != nil {
			return nil, err
		}
		g.SetColor(c)
	}
	return &sexpRef{id: b.scene.Add(name, g), name: name}, nil
}

// entry resolves a reference argument.
func (b *builder) entry(s zygo.Sexp) (*scene.Entry, error) {
	ref, ok := s.(*sexpRef)
	if !ok {
		return nil, fmt.Errorf("expected geometry reference, got %T (%s)", s, s.SexpString(nil))
	}
	e := b.scene.Get(ref.id)
	if e == nil {
		return nil, fmt.Errorf("%s was erased", ref.SexpString(nil))
	}
	return e, nil
}

func refOf(e *scene.Entry) *sexpRef { return &sexpRef{id: e.ID, name: e.Name} }

// (vec3 1 2 3)
func (b *builder) vec3(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 3 {
		return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
	}
	var xs [3]float64
	for i, a := range args {
		f, err := toFloat64(a)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: %c: %w", "xyz"[i], err)
		}
		xs[i] = f
	}
	return &sexpVec3{vec: vec.Vec3{X: xs[0], Y: xs[1], Z: xs[2]}}, nil
}

// (point (vec3 1 2 3) :name "p") or (point 1 2 3)
func (b *builder) point(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	var p vec.Point
	switch len(pa.positional) {
	case 1:
		v, err := toPoint(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("point: %w", err)
		}
		p = v
	case 2, 3:
		xs := make([]float64, len(pa.positional))
		for i, a := range pa.positional {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("point: %w", err)
			}
			xs[i] = f
		}
		v, err := vec.NewPoint(xs...)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("point: %w", err)
		}
		p = v
	default:
		return zygo.SexpNull, fmt.Errorf("point requires a vec3 or 2 to 3 coordinates, got %d arguments", len(pa.positional))
	}
	ref, err := b.add(pa, geom.NewPoint(p))
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("point: %w", err)
	}
	return ref, nil
}

// (linestring (vec3 0 0 0) (vec3 1 0 0) ... :name "path")
func (b *builder) linestring(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	pts, err := toPoints(pa.positional)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("linestring: %w", err)
	}
	ref, err := b.add(pa, geom.NewLineString(pts...))
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("linestring: %w", err)
	}
	return ref, nil
}

// (ring a b c ...)
func (b *builder) ring(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	pts, err := toPoints(pa.positional)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("ring: %w", err)
	}
	if len(pts) < 3 {
		return zygo.SexpNull, fmt.Errorf("ring requires at least 3 vertices, got %d", len(pts))
	}
	ref, err := b.add(pa, geom.NewLinearRing(pts...))
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("ring: %w", err)
	}
	return ref, nil
}

// (line a b)
func (b *builder) line(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	if len(pa.positional) != 2 {
		return zygo.SexpNull, fmt.Errorf("line requires exactly 2 endpoints, got %d", len(pa.positional))
	}
	pts, err := toPoints(pa.positional)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("line: %w", err)
	}
	ref, err := b.add(pa, geom.NewLine(pts[0], pts[1]))
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("line: %w", err)
	}
	return ref, nil
}

// (polygon a b c ... :holes (list (list d e f) ...))
func (b *builder) polygon(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	pts, err := toPoints(pa.positional)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("polygon: %w", err)
	}
	if len(pts) < 3 {
		return zygo.SexpNull, fmt.Errorf("polygon requires at least 3 vertices, got %d", len(pts))
	}

	var holes []*geom.LinearRing
	if v, ok := pa.kw["holes"]; ok {
		items, err := sexpListToSlice(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("polygon: holes: %w", err)
		}
		for i, item := range items {
			verts, err := sexpListToSlice(item)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("polygon: hole %d: %w", i, err)
			}
			hp, err := toPoints(verts)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("polygon: hole %d: %w", i, err)
			}
			holes = append(holes, geom.NewLinearRing(hp...))
		}
	}

	p := geom.NewPolygon(geom.NewLinearRing(pts...), holes...)
	if _, ok := pa.kw["make-valid"]; ok {
		if err := p.MakeValid(); err != nil {
			return zygo.SexpNull, fmt.Errorf("polygon: %w", err)
		}
	}
	ref, err := b.add(pa, p)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("polygon: %w", err)
	}
	return ref, nil
}

// template wraps a solid template constructor: (cube :name "c")
func (b *builder) template(newSolid func() *geom.Solid) func(*zygo.Zlisp, string, []zygo.Sexp) (zygo.Sexp, error) {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		ref, err := b.add(parseArgs(args), newSolid())
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
		}
		return ref, nil
	}
}

// ---------------------------------------------------------------------------
// Kernel-backed solids
// ---------------------------------------------------------------------------

// addShape meshes ks and stores the result as a generic solid.
func (b *builder) addShape(pa kwArgs, op string, ks kernel.Solid) (zygo.Sexp, error) {
	m, err := b.kernel.ToMesh(ks)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("%s: %w", op, err)
	}
	m.Weld(b.weld)
	s, err := geom.NewSolidFromMesh(op, m.Vertices, m.Indices)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("%s: %w", op, err)
	}
	ref, err := b.add(pa, s)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("%s: %w", op, err)
	}
	b.shapes[ref.id] = ks
	return ref, nil
}

func (b *builder) requireKernel(op string) error {
	if b.kernel == nil {
		return fmt.Errorf("%s: no solid kernel configured", op)
	}
	return nil
}

// (box 10 20 30) or (box :size (vec3 10 20 30))
func (b *builder) box(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if err := b.requireKernel("box"); err != nil {
		return zygo.SexpNull, err
	}
	pa := parseArgs(args)
	var size vec.Vec3
	if v, ok := pa.kw["size"]; ok {
		s, err := toVec3(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("box: size: %w", err)
		}
		size = s
	} else {
		if len(pa.positional) != 3 {
			return zygo.SexpNull, fmt.Errorf("box requires 3 dimensions or :size, got %d arguments", len(pa.positional))
		}
		var xs [3]float64
		for i, a := range pa.positional {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("box: %w", err)
			}
			xs[i] = f
		}
		size = vec.Vec3{X: xs[0], Y: xs[1], Z: xs[2]}
	}

	ks, err := b.kernel.Box(size.X, size.Y, size.Z)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("box: %w", err)
	}
	return b.addShape(pa, "box", ks)
}

// (cylinder :height 10 :radius 2)
func (b *builder) cylinder(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if err := b.requireKernel("cylinder"); err != nil {
		return zygo.SexpNull, err
	}
	pa := parseArgs(args)
	h, err := pa.float("height", 1)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("cylinder: %w", err)
	}
	r, err := pa.float("radius", 0.5)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("cylinder: %w", err)
	}
	ks, err := b.kernel.Cylinder(h, r)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("cylinder: %w", err)
	}
	return b.addShape(pa, "cylinder", ks)
}

// (sphere :radius 3)
func (b *builder) sphere(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if err := b.requireKernel("sphere"); err != nil {
		return zygo.SexpNull, err
	}
	pa := parseArgs(args)
	r, err := pa.float("radius", 0.5)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("sphere: %w", err)
	}
	ks, err := b.kernel.Sphere(r)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("sphere: %w", err)
	}
	return b.addShape(pa, "sphere", ks)
}

// csg wraps a boolean operation: (union a b :name "u"). Both operands are
// consumed and removed from the scene.
func (b *builder) csg(op func(kernel.Kernel, kernel.Solid, kernel.Solid) kernel.Solid) func(*zygo.Zlisp, string, []zygo.Sexp) (zygo.Sexp, error) {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if err := b.requireKernel(name); err != nil {
			return zygo.SexpNull, err
		}
		pa := parseArgs(args)
		if len(pa.positional) != 2 {
			return zygo.SexpNull, fmt.Errorf("%s requires exactly 2 operands, got %d", name, len(pa.positional))
		}
		var operands [2]kernel.Solid
		var ids [2]scene.ID
		for i, a := range pa.positional {
			e, err := b.entry(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: operand %d: %w", name, i, err)
			}
			ks, ok := b.shapes[e.ID]
			if !ok {
				return zygo.SexpNull, fmt.Errorf("%s: operand %d: %s is not a kernel solid", name, i, e)
			}
			operands[i], ids[i] = ks, e.ID
		}
		if ids[0] == ids[1] {
			return zygo.SexpNull, fmt.Errorf("%s: operands must differ", name)
		}

		ref, err := b.addShape(pa, name, op(b.kernel, operands[0], operands[1]))
		if err != nil {
			return zygo.SexpNull, err
		}
		for _, id := range ids {
			b.scene.Remove(id)
			delete(b.shapes, id)
		}
		return ref, nil
	}
}

// ---------------------------------------------------------------------------
// Transforms and presentation
// ---------------------------------------------------------------------------

// (translate ref (vec3 1 0 0))
func (b *builder) translate(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 2 {
		return zygo.SexpNull, fmt.Errorf("translate requires a reference and a vec3")
	}
	e, err := b.entry(args[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("translate: %w", err)
	}
	v, err := toVec3(args[1])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("translate: %w", err)
	}
	e.Geometry.Transform().Translate(v)
	if ks, ok := b.shapes[e.ID]; ok {
		b.shapes[e.ID] = b.kernel.Translate(ks, v.X, v.Y, v.Z)
	}
	return refOf(e), nil
}

// (rotate ref 90 :z) or (rotate ref 45 (vec3 1 1 0))
func (b *builder) rotate(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 3 {
		return zygo.SexpNull, fmt.Errorf("rotate requires a reference, an angle and an axis")
	}
	e, err := b.entry(args[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("rotate: %w", err)
	}
	deg, err := toFloat64(args[1])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("rotate: angle: %w", err)
	}
	axis, err := toAxis(args[2])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("rotate: %w", err)
	}
	if err := e.Geometry.Transform().Rotate(deg, axis); err != nil {
		return zygo.SexpNull, fmt.Errorf("rotate: %w", err)
	}

	if ks, ok := b.shapes[e.ID]; ok {
		switch axis {
		case vec.Vec3{X: 1}:
			b.shapes[e.ID] = b.kernel.Rotate(ks, deg, 0, 0)
		case vec.Vec3{Y: 1}:
			b.shapes[e.ID] = b.kernel.Rotate(ks, 0, deg, 0)
		case vec.Vec3{Z: 1}:
			b.shapes[e.ID] = b.kernel.Rotate(ks, 0, 0, deg)
		default:
			delete(b.shapes, e.ID)
		}
	}
	return refOf(e), nil
}

// (scale ref 2) or (scale ref (vec3 1 2 1))
func (b *builder) scale(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 2 {
		return zygo.SexpNull, fmt.Errorf("scale requires a reference and a factor")
	}
	e, err := b.entry(args[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("scale: %w", err)
	}
	var s vec.Vec3
	if v, ok := args[1].(*sexpVec3); ok {
		s = v.vec
	} else {
		k, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("scale: %w", err)
		}
		s = vec.Vec3{X: k, Y: k, Z: k}
	}
	e.Geometry.Transform().Scale(s)
	delete(b.shapes, e.ID)
	return refOf(e), nil
}

// (color ref "#ff8800") or (color ref 1 0.5 0)
func (b *builder) color(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 2 && len(args) != 4 {
		return zygo.SexpNull, fmt.Errorf("color requires a reference and a hex string or 3 components")
	}
	e, err := b.entry(args[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("color: %w", err)
	}
	var c geom.Color
	if len(args) == 2 {
		hex, err := toString(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("color: %w", err)
		}
		if c, err = geom.ParseHex(hex); err != nil {
			return zygo.SexpNull, fmt.Errorf("color: %w", err)
		}
	} else {
		var rgb [3]float32
		for i, a := range args[1:] {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("color: %w", err)
			}
			rgb[i] = float32(f)
		}
		c = geom.RGB(rgb[0], rgb[1], rgb[2])
	}
	e.Geometry.SetColor(c)
	return refOf(e), nil
}

// ---------------------------------------------------------------------------
// Queries and algorithms
// ---------------------------------------------------------------------------

// (random-points 10 :min (vec3 0 0 0) :max (vec3 1 1 0) :seed 7)
//
// The default seed is fixed so evaluation stays deterministic.
func (b *builder) randomPoints(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	if len(pa.positional) != 1 {
		return zygo.SexpNull, fmt.Errorf("random-points requires a count")
	}
	n, err := toInt(pa.positional[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("random-points: count: %w", err)
	}
	lo, hi := vec.Pt(0, 0, 0), vec.Pt(1, 1, 0)
	if v, ok := pa.kw["min"]; ok {
		if lo, err = toPoint(v); err != nil {
			return zygo.SexpNull, fmt.Errorf("random-points: min: %w", err)
		}
	}
	if v, ok := pa.kw["max"]; ok {
		if hi, err = toPoint(v); err != nil {
			return zygo.SexpNull, fmt.Errorf("random-points: max: %w", err)
		}
	}
	var seed uint64
	if v, ok := pa.kw["seed"]; ok {
		s, err := toInt(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("random-points: seed: %w", err)
		}
		seed = uint64(s)
	}

	pts, err := geom.RandomPoints(geom.BoxOf(lo, hi), n, rand.New(rand.NewPCG(seed, seed)))
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("random-points: %w", err)
	}
	refs := make([]zygo.Sexp, len(pts))
	for i, p := range pts {
		refs[i] = &sexpRef{id: b.scene.Add("", p)}
	}
	return zygo.MakeList(refs), nil
}

// (centroid a b ...) averages vec3 values and point references.
func (b *builder) centroid(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	pts := make([]vec.Point, 0, len(args))
	for i, a := range args {
		if _, ok := a.(*sexpRef); ok {
			e, err := b.entry(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("centroid: argument %d: %w", i, err)
			}
			p, ok := e.Geometry.(*geom.Point)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("centroid: argument %d: %s is not a point", i, e)
			}
			pts = append(pts, p.Position())
			continue
		}
		p, err := toPoint(a)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("centroid: argument %d: %w", i, err)
		}
		pts = append(pts, p)
	}
	c, err := vec.Centroid(pts)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("centroid: %w", err)
	}
	return &sexpVec3{vec: c.Vec()}, nil
}

func (b *builder) selection(op string, args []zygo.Sexp) (*geom.SelectionBox, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("%s requires two corners", op)
	}
	pts, err := toPoints(args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return geom.NewSelectionBox(pts[0], pts[1]), nil
}

// (select (vec3 0 0 0) (vec3 5 5 0)) returns the entries fully inside.
func (b *builder) selectBox(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	sb, err := b.selection("select", args)
	if err != nil {
		return zygo.SexpNull, err
	}
	var refs []zygo.Sexp
	for _, e := range b.scene.Select(sb) {
		refs = append(refs, refOf(e))
	}
	return zygo.MakeList(refs), nil
}

// (erase (vec3 0 0 0) (vec3 5 5 0)) removes the entries fully inside and
// returns how many there were.
func (b *builder) erase(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	sb, err := b.selection("erase", args)
	if err != nil {
		return zygo.SexpNull, err
	}
	for _, e := range b.scene.Select(sb) {
		delete(b.shapes, e.ID)
	}
	return &zygo.SexpInt{Val: int64(b.scene.Erase(sb))}, nil
}

// algorithm exposes a scene algorithm as a zero-argument builtin returning
// its report.
func (b *builder) algorithm(alg scene.Algorithm) func(*zygo.Zlisp, string, []zygo.Sexp) (zygo.Sexp, error) {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 0 {
			return zygo.SexpNull, fmt.Errorf("%s takes no arguments", name)
		}
		msg, err := alg(b.scene)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
		}
		return &zygo.SexpStr{S: msg}, nil
	}
}
