package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aucupo/dcelkit/pkg/export"
	"github.com/aucupo/dcelkit/pkg/scene"
)

// CmdEval evaluates a scene file.
type CmdEval struct {
	global *GlobalOptions

	Format string `short:"f" long:"format" description:"Output format" choice:"json" choice:"wkt" choice:"geojson" default:"json"`
	Args   struct {
		File string `positional-arg-name:"FILE" required:"yes"`
	} `positional-args:"yes"`
}

// errEvaluation reports that the script itself failed; details have
// already been written.
var errEvaluation = errors.New("evaluation failed")

func (cmd *CmdEval) Execute(args []string) error {
	src, err := cmd.global.readSource(cmd.Args.File)
	if err != nil {
		return err
	}
	a, _, err := cmd.global.app()
	if err != nil {
		return err
	}
	out := cmd.global.stdout

	if cmd.Format == "json" {
		res := a.Evaluate(src)
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return err
		}
		if len(res.Errors) > 0 {
			return errEvaluation
		}
		return nil
	}

	s, errs := a.Build(src)
	if s == nil {
		writeErrors(cmd.global.stderr, errs)
		return errEvaluation
	}
	switch cmd.Format {
	case "wkt":
		_, err = io.WriteString(out, export.WKT(s))
	case "geojson":
		err = export.WriteGeoJSON(out, s)
	default:
		err = fmt.Errorf("unknown format %q", cmd.Format)
	}
	return err
}

// CmdValidate reports scene validation findings.
type CmdValidate struct {
	global *GlobalOptions

	Args struct {
		File string `positional-arg-name:"FILE" required:"yes"`
	} `positional-args:"yes"`
}

func (cmd *CmdValidate) Execute(args []string) error {
	src, err := cmd.global.readSource(cmd.Args.File)
	if err != nil {
		return err
	}
	a, _, err := cmd.global.app()
	if err != nil {
		return err
	}
	s, errs := a.Build(src)
	if s == nil {
		writeErrors(cmd.global.stderr, errs)
		return errEvaluation
	}

	findings := scene.Validate(s)
	for _, f := range findings {
		fmt.Fprintln(cmd.global.stdout, f.Error())
	}
	if scene.HasErrors(findings) {
		return fmt.Errorf("%d validation findings", len(findings))
	}
	fmt.Fprintf(cmd.global.stdout, "ok: %d entries\n", s.Count())
	return nil
}

// CmdConfig prints the effective configuration.
type CmdConfig struct {
	global *GlobalOptions
}

func (cmd *CmdConfig) Execute(args []string) error {
	_, cfg, err := cmd.global.app()
	if err != nil {
		return err
	}
	return cfg.Encode(cmd.global.stdout)
}

func writeErrors(w io.Writer, errs []EvalErrorData) {
	for _, e := range errs {
		if e.Line > 0 {
			fmt.Fprintf(w, "line %d: %s\n", e.Line, e.Message)
		} else {
			fmt.Fprintln(w, e.Message)
		}
	}
}
