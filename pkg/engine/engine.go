// Package engine evaluates the dcelkit scene language. Source is a small
// Lisp run by zygomys in a sandbox; builtins construct geometries into a
// fresh scene.Scene on every evaluation.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aucupo/dcelkit/pkg/kernel"
	"github.com/aucupo/dcelkit/pkg/scene"
	zygo "github.com/glycerine/zygomys/zygo"
)

// EvalError is a non-fatal problem in user code, such as a parse error or
// a builtin rejecting its arguments.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Options configures an Engine.
type Options struct {
	// Timeout bounds one evaluation; zero selects DefaultTimeout.
	Timeout time.Duration
	// WeldTolerance merges kernel mesh vertices closer than this before
	// they become solids.
	WeldTolerance float64
}

// Engine wraps the zygomys interpreter. It is safe for concurrent use;
// each call to Evaluate runs in a fresh sandbox, and only the most recent
// call's result is delivered.
type Engine struct {
	mu         sync.Mutex
	generation uint64

	kernel kernel.Kernel
	opts   Options
}

// NewEngine creates an engine. k backs the box, cylinder and sphere
// builtins and the CSG operations; it may be nil, in which case those
// builtins report an error.
func NewEngine(k kernel.Kernel, opts Options) *Engine {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Engine{kernel: k, opts: opts}
}

// Timeout returns the per-evaluation time limit.
func (e *Engine) Timeout() time.Duration { return e.opts.Timeout }

// Evaluate runs source and returns the scene it built.
//
// Return semantics:
//   - On success: scene, nil, nil
//   - On parse or eval failure: nil, eval errors, nil
//   - On fatal failure (timeout, panic, superseded): nil, nil, error
func (e *Engine) Evaluate(source string) (*scene.Scene, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		s, evalErrs, err := e.evaluate(source)
		ch <- evalResult{scene: s, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, e.opts.Timeout, gen, &e.mu, &e.generation)
}

func (e *Engine) evaluate(source string) (*scene.Scene, []EvalError, error) {
	s := scene.New()
	if strings.TrimSpace(source) == "" {
		return s, nil, nil
	}

	// Sandbox mode keeps user code away from the filesystem and syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	b := &builder{scene: s, kernel: e.kernel, weld: e.opts.WeldTolerance}
	b.register(env)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err), nil
	}
	return s, nil, nil
}

// linePattern matches zygomys messages of the form "Error on line N: ...".
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches "line N: ...".
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into EvalErrors, extracting a
// line number when the message carries one.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
		}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
