package scene

import (
	"errors"
	"fmt"
	"sort"
)

// ValidationSeverity indicates whether a finding makes the scene unusable
// or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // scene cannot be rendered as is
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	EntryID  ID                 // which entry has the problem (zero if scene-level)
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.EntryID.IsZero() {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] entry %s: %s", e.Severity, e.EntryID.Short(), e.Message)
}

// Validate checks the scene and returns its findings; an empty slice means
// the scene is valid. It never mutates the scene.
func Validate(s *Scene) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateGeometries(s)...)
	errs = append(errs, validateTopology(s)...)
	errs = append(errs, validateNames(s)...)
	return errs
}

// HasErrors reports whether errs contains an error-severity finding.
func HasErrors(errs []ValidationError) bool {
	for _, e := range errs {
		if e.Severity == SeverityError {
			return true
		}
	}
	return false
}

// validateGeometries warns about geometries that are not valid for their
// kind, such as a polygon with fewer than three vertices.
func validateGeometries(s *Scene) []ValidationError {
	var errs []ValidationError
	for _, e := range s.Entries() {
		if !e.Geometry.IsValid() {
			errs = append(errs, ValidationError{
				EntryID:  e.ID,
				Message:  fmt.Sprintf("%s is not valid", e.Geometry.Kind()),
				Severity: SeverityWarning,
			})
		}
	}
	return errs
}

// validateTopology reports every DCEL invariant violation.
func validateTopology(s *Scene) []ValidationError {
	var errs []ValidationError
	for _, e := range s.Entries() {
		err := e.Geometry.DCEL().Validate()
		if err == nil {
			continue
		}
		var joined interface{ Unwrap() []error }
		violations := []error{err}
		if errors.As(err, &joined) {
			violations = joined.Unwrap()
		}
		for _, v := range violations {
			errs = append(errs, ValidationError{
				EntryID:  e.ID,
				Message:  v.Error(),
				Severity: SeverityError,
			})
		}
	}
	return errs
}

// validateNames checks that the name index and the entries agree.
func validateNames(s *Scene) []ValidationError {
	var errs []ValidationError

	names := make([]string, 0, len(s.NameIndex))
	for name := range s.NameIndex {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		id := s.NameIndex[name]
		e := s.entries[id]
		switch {
		case name == "":
			errs = append(errs, ValidationError{
				EntryID:  id,
				Message:  "empty name in name index",
				Severity: SeverityError,
			})
		case e == nil:
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("name %q references missing entry %s", name, id.Short()),
				Severity: SeverityError,
			})
		case e.Name != name:
			errs = append(errs, ValidationError{
				EntryID:  id,
				Message:  fmt.Sprintf("name %q indexes an entry named %q", name, e.Name),
				Severity: SeverityError,
			})
		}
	}

	for _, e := range s.Entries() {
		if e.Name != "" && s.NameIndex[e.Name] != e.ID {
			errs = append(errs, ValidationError{
				EntryID:  e.ID,
				Message:  fmt.Sprintf("name %q is not indexed", e.Name),
				Severity: SeverityError,
			})
		}
	}
	return errs
}
