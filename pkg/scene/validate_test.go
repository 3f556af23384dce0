package scene

import (
	"strings"
	"testing"

	"github.com/aucupo/dcelkit/pkg/geom"
	"github.com/aucupo/dcelkit/pkg/vec"
)

// hasFinding returns true if errs contains a finding of the given severity
// whose message contains substr.
func hasFinding(errs []ValidationError, sev ValidationSeverity, substr string) bool {
	for _, e := range errs {
		if e.Severity == sev && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func buildValidScene() *Scene {
	s := New()
	s.Add("p", geom.NewPoint(vec.Pt(1, 1, 0)))
	s.Add("square", geom.NewPolygonFromPoints(vec.Pt(0, 0, 0), vec.Pt(1, 0, 0), vec.Pt(1, 1, 0), vec.Pt(0, 1, 0)))
	s.Add("cube", geom.NewCube())
	return s
}

func TestValidateValidScene(t *testing.T) {
	if errs := Validate(buildValidScene()); len(errs) != 0 {
		t.Errorf("expected no findings, got %v", errs)
	}
}

func TestValidateWarnsOnInvalidGeometry(t *testing.T) {
	s := buildValidScene()
	id := s.Add("stub", geom.NewLineString(vec.Origin))

	errs := Validate(s)
	if !hasFinding(errs, SeverityWarning, "linestring is not valid") {
		t.Errorf("expected an invalid-geometry warning, got %v", errs)
	}
	if HasErrors(errs) {
		t.Errorf("invalid geometry should only warn, got %v", errs)
	}
	if errs[0].EntryID != id {
		t.Errorf("finding should reference the stub entry")
	}
}

func TestValidateNameIndex(t *testing.T) {
	s := buildValidScene()
	s.NameIndex["ghost"] = NewID()
	s.NameIndex["p"] = s.Lookup("cube").ID

	errs := Validate(s)
	if !hasFinding(errs, SeverityError, `name "ghost" references missing entry`) {
		t.Errorf("expected a missing-entry error, got %v", errs)
	}
	if !hasFinding(errs, SeverityError, `name "p" indexes an entry named "cube"`) {
		t.Errorf("expected a mismatched-name error, got %v", errs)
	}
	if !hasFinding(errs, SeverityError, `name "p" is not indexed`) {
		t.Errorf("expected an unindexed-name error, got %v", errs)
	}
}

func TestValidationErrorString(t *testing.T) {
	e := ValidationError{Message: "boom", Severity: SeverityError}
	if got := e.Error(); got != "[error] boom" {
		t.Errorf("Error() = %q", got)
	}
	e.EntryID = ID("0123456789abcdef")
	if got := e.Error(); got != "[error] entry 01234567: boom" {
		t.Errorf("Error() = %q", got)
	}
	if SeverityWarning.String() != "warning" {
		t.Errorf("SeverityWarning.String() = %q", SeverityWarning.String())
	}
}
