package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/aucupo/dcelkit/pkg/scene"
)

// DefaultTimeout bounds a single evaluation when the engine has no
// explicit timeout.
const DefaultTimeout = 5 * time.Second

// evalResult carries one evaluation's output from the worker goroutine.
type evalResult struct {
	scene  *scene.Scene
	errors []EvalError
	err    error
}

// waitWithTimeout waits for a result on ch for at most timeout. A result
// whose generation is no longer current is discarded.
//
// On timeout the worker may still be running; its result is dropped when
// it eventually arrives because ch is buffered.
func waitWithTimeout(
	ch <-chan evalResult,
	timeout time.Duration,
	gen uint64,
	mu *sync.Mutex,
	currentGen *uint64,
) (*scene.Scene, []EvalError, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		mu.Lock()
		current := *currentGen
		mu.Unlock()

		if gen != current {
			return nil, nil, fmt.Errorf("evaluation superseded by newer request")
		}
		return res.scene, res.errors, res.err

	case <-timer.C:
		return nil, nil, fmt.Errorf("evaluation timed out after %s", timeout)
	}
}
