package main

import (
	"log/slog"

	"github.com/aucupo/dcelkit/pkg/config"
	"github.com/aucupo/dcelkit/pkg/engine"
	"github.com/aucupo/dcelkit/pkg/geom"
	"github.com/aucupo/dcelkit/pkg/kernel"
	"github.com/aucupo/dcelkit/pkg/kernel/sdfx"
	"github.com/aucupo/dcelkit/pkg/scene"
	"github.com/aucupo/dcelkit/pkg/tessellate"
)

// App ties the engine, the solid kernel and tessellation together. It is
// the single entry point front ends call.
type App struct {
	engine  *engine.Engine
	cfg     *config.Config
	palette []geom.Color
	log     *slog.Logger
}

// MeshData is the JSON-serializable mesh format sent to front ends.
type MeshData struct {
	Vertices  []float32 `json:"vertices"`
	Normals   []float32 `json:"normals,omitempty"`
	Indices   []uint32  `json:"indices"`
	Outline   []uint32  `json:"outline,omitempty"`
	Primitive string    `json:"primitive"`
	PartName  string    `json:"partName"`
	Color     string    `json:"color"`
}

// EvalErrorData is a JSON-serializable evaluation error.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full result of one evaluation.
type EvalResult struct {
	Meshes   []MeshData      `json:"meshes"`
	Grid     *MeshData       `json:"grid,omitempty"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
}

// NewApp creates an App from cfg; nil selects config.Default().
func NewApp(cfg *config.Config, log *slog.Logger) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = slog.Default()
	}
	palette, err := cfg.Palette()
	if err != nil {
		return nil, err
	}
	return &App{
		engine:  engine.NewEngine(sdfx.New(cfg.Kernel.MeshCells), cfg.EngineOptions()),
		cfg:     cfg,
		palette: palette,
		log:     log,
	}, nil
}

// Build evaluates source into a scene. On failure the scene is nil and the
// errors say why.
func (a *App) Build(source string) (*scene.Scene, []EvalErrorData) {
	s, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal: panic, timeout or superseded.
		a.log.Error("evaluate", "err", err)
		return nil, []EvalErrorData{{Message: err.Error()}}
	}
	if len(evalErrs) > 0 {
		out := make([]EvalErrorData, len(evalErrs))
		for i, e := range evalErrs {
			out[i] = EvalErrorData{Line: e.Line, Col: e.Col, Message: e.Message}
		}
		a.log.Debug("evaluate", "errors", len(out))
		return nil, out
	}
	return s, nil
}

// Evaluate takes scene-language source and returns meshes plus errors.
// Scene validation errors are reported as errors; invalid geometries as
// warnings.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{
		Meshes:   []MeshData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	s, errs := a.Build(source)
	if s == nil {
		result.Errors = append(result.Errors, errs...)
		return result
	}

	for _, v := range scene.Validate(s) {
		d := EvalErrorData{Message: v.Error()}
		if v.Severity == scene.SeverityWarning {
			result.Warnings = append(result.Warnings, d)
		} else {
			result.Errors = append(result.Errors, d)
		}
	}
	if len(result.Errors) > 0 {
		a.log.Error("validate", "errors", len(result.Errors))
		return result
	}

	meshes, err := tessellate.Tessellate(s, tessellate.Options{Palette: a.palette, Logger: a.log})
	if err != nil {
		a.log.Error("tessellate", "err", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: "tessellation failed: " + err.Error()})
		return result
	}
	for _, m := range meshes {
		result.Meshes = append(result.Meshes, meshData(m))
	}

	if a.cfg.Render.Grid.Show {
		grid, err := tessellate.Grid(a.cfg.GridOptions())
		if err != nil {
			a.log.Error("grid", "err", err)
		} else {
			md := meshData(grid)
			result.Grid = &md
		}
	}
	a.log.Debug("evaluate", "entries", s.Count(), "meshes", len(result.Meshes), "warnings", len(result.Warnings))
	return result
}

func meshData(m *kernel.Mesh) MeshData {
	c := geom.Color{R: m.Color[0], G: m.Color[1], B: m.Color[2], A: m.Color[3]}
	return MeshData{
		Vertices:  m.Vertices,
		Normals:   m.Normals,
		Indices:   m.Indices,
		Outline:   m.Outline,
		Primitive: m.Primitive,
		PartName:  m.PartName,
		Color:     c.Hex(),
	}
}
