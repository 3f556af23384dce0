// Package geomerr defines the error taxonomy shared by the geometry kernel.
// Every kernel failure wraps one of the sentinels below, so callers can
// classify errors with errors.Is regardless of how much context was added
// on the way up.
package geomerr

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument reports wrong type, arity or cardinality passed to
	// a constructor or predicate.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrMalformedTopology reports a half-edge structure that violates the
	// DCEL invariants: a missing twin, or an edge left incomplete by mesh
	// construction.
	ErrMalformedTopology = errors.New("malformed topology")

	// ErrDegenerateGeometry reports coincident or collinear input where a
	// well-defined line, plane or point set is required.
	ErrDegenerateGeometry = errors.New("degenerate geometry")
)

// InvalidArgument returns an error wrapping ErrInvalidArgument.
func InvalidArgument(op, format string, args ...any) error {
	return wrap(op, ErrInvalidArgument, format, args...)
}

// MalformedTopology returns an error wrapping ErrMalformedTopology.
func MalformedTopology(op, format string, args ...any) error {
	return wrap(op, ErrMalformedTopology, format, args...)
}

// DegenerateGeometry returns an error wrapping ErrDegenerateGeometry.
func DegenerateGeometry(op, format string, args ...any) error {
	return wrap(op, ErrDegenerateGeometry, format, args...)
}

func wrap(op string, sentinel error, format string, args ...any) error {
	return fmt.Errorf("%s: %w: %s", op, sentinel, fmt.Sprintf(format, args...))
}
