// Package config loads dcelkit settings from YAML.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/aucupo/dcelkit/pkg/engine"
	"github.com/aucupo/dcelkit/pkg/geom"
	"github.com/aucupo/dcelkit/pkg/geomerr"
	"github.com/aucupo/dcelkit/pkg/kernel/sdfx"
	"github.com/aucupo/dcelkit/pkg/tessellate"
	"gopkg.in/yaml.v3"
)

// Config is the full settings tree.
type Config struct {
	Kernel KernelConfig `yaml:"kernel"`
	Engine EngineConfig `yaml:"engine"`
	Render RenderConfig `yaml:"render"`
}

type KernelConfig struct {
	MeshCells     int     `yaml:"mesh_cells"`
	WeldTolerance float64 `yaml:"weld_tolerance"`
}

type EngineConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}

type RenderConfig struct {
	Palette   []string   `yaml:"palette"`
	Grid      GridConfig `yaml:"grid"`
	PointSize float64    `yaml:"point_size"`
	LineWidth float64    `yaml:"line_width"`
}

type GridConfig struct {
	Show bool    `yaml:"show"`
	Size float64 `yaml:"size"`
	Step float64 `yaml:"step"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Kernel: KernelConfig{
			MeshCells:     sdfx.DefaultMeshCells,
			WeldTolerance: 1e-6,
		},
		Engine: EngineConfig{Timeout: engine.DefaultTimeout},
		Render: RenderConfig{
			Palette:   append([]string(nil), tessellate.DefaultPalette...),
			Grid:      GridConfig{Show: true, Size: 10, Step: 1},
			PointSize: 5,
			LineWidth: 1,
		},
	}
}

// Load reads path over the defaults. A missing file yields Default().
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads YAML from r over the defaults and validates the result.
// Unknown keys are rejected.
func Decode(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Encode writes cfg as YAML.
func (c *Config) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}
	return enc.Close()
}

// Validate checks every setting.
func (c *Config) Validate() error {
	const op = "config.Validate"
	if c.Kernel.MeshCells <= 0 {
		return geomerr.InvalidArgument(op, "kernel.mesh_cells must be positive, got %d", c.Kernel.MeshCells)
	}
	if c.Kernel.WeldTolerance < 0 {
		return geomerr.InvalidArgument(op, "kernel.weld_tolerance must not be negative, got %g", c.Kernel.WeldTolerance)
	}
	if c.Engine.Timeout <= 0 {
		return geomerr.InvalidArgument(op, "engine.timeout must be positive, got %s", c.Engine.Timeout)
	}
	if c.Render.Grid.Step <= 0 || c.Render.Grid.Size <= 0 {
		return geomerr.InvalidArgument(op, "render.grid size and step must be positive")
	}
	if c.Render.PointSize <= 0 || c.Render.LineWidth <= 0 {
		return geomerr.InvalidArgument(op, "render.point_size and render.line_width must be positive")
	}
	if _, err := c.Palette(); err != nil {
		return fmt.Errorf("render.palette: %w", err)
	}
	return nil
}

// Palette parses the render palette.
func (c *Config) Palette() ([]geom.Color, error) {
	return tessellate.ParsePalette(c.Render.Palette)
}

// EngineOptions returns the engine settings.
func (c *Config) EngineOptions() engine.Options {
	return engine.Options{Timeout: c.Engine.Timeout, WeldTolerance: c.Kernel.WeldTolerance}
}

// GridOptions returns the reference grid settings.
func (c *Config) GridOptions() tessellate.GridOptions {
	return tessellate.GridOptions{Size: c.Render.Grid.Size, Step: c.Render.Grid.Step}
}
