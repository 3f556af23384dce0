// Command dcelkit evaluates scene-language files and prints the result as
// render meshes (JSON), WKT or GeoJSON.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aucupo/dcelkit/pkg/config"
	"github.com/jessevdk/go-flags"
)

// GlobalOptions are accepted by every command.
type GlobalOptions struct {
	Config  string `short:"c" long:"config" description:"YAML configuration file" default:"dcelkit.yaml"`
	Verbose bool   `short:"v" long:"verbose" description:"Log at debug level"`

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// logger returns a text logger on stderr honoring --verbose.
func (g *GlobalOptions) logger() *slog.Logger {
	level := slog.LevelInfo
	if g.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(g.stderr, &slog.HandlerOptions{Level: level}))
}

// app loads the configuration and builds an App.
func (g *GlobalOptions) app() (*App, *config.Config, error) {
	log := g.logger()
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, nil, err
	}
	log.Debug("config", "path", g.Config, "mesh_cells", cfg.Kernel.MeshCells, "timeout", cfg.Engine.Timeout)
	a, err := NewApp(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return a, cfg, nil
}

// readSource reads path, or standard input for "-".
func (g *GlobalOptions) readSource(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(g.stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func newParser(g *GlobalOptions) *flags.Parser {
	parser := flags.NewParser(g, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = "dcelkit"

	mustAdd := func(name, short, long string, cmd any) {
		if _, err := parser.AddCommand(name, short, long, cmd); err != nil {
			panic(err)
		}
	}
	mustAdd("eval", "Evaluate a scene file",
		"Evaluate a scene-language file (or - for stdin) and print meshes, WKT or GeoJSON",
		&CmdEval{global: g})
	mustAdd("validate", "Validate a scene file",
		"Evaluate a scene-language file and report scene validation findings",
		&CmdValidate{global: g})
	mustAdd("config", "Print the effective configuration",
		"Print the configuration after merging the config file over the defaults",
		&CmdConfig{global: g})
	return parser
}

// run parses args and executes the selected command.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	g := &GlobalOptions{stdin: stdin, stdout: stdout, stderr: stderr}
	parser := newParser(g)
	_, err := parser.ParseArgs(args)
	if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
		parser.WriteHelp(stdout)
		return nil
	}
	return err
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
