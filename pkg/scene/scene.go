package scene

import (
	"fmt"

	"github.com/aucupo/dcelkit/pkg/geom"
	"github.com/google/uuid"
)

// ID identifies an entry for the lifetime of a scene.
type ID string

// NewID returns a fresh random ID.
func NewID() ID {
	return ID(uuid.NewString())
}

// Short returns the first eight characters, for log and error messages.
func (id ID) Short() string {
	if len(id) > 8 {
		return string(id[:8])
	}
	return string(id)
}

// IsZero reports whether id is unset.
func (id ID) IsZero() bool { return id == "" }

// Entry is one geometry in the scene.
type Entry struct {
	ID       ID
	Name     string
	Geometry geom.Renderable
}

func (e *Entry) String() string {
	if e.Name != "" {
		return fmt.Sprintf("%s %q (%s)", e.Geometry.Kind(), e.Name, e.ID.Short())
	}
	return fmt.Sprintf("%s (%s)", e.Geometry.Kind(), e.ID.Short())
}

// Scene is an insertion-ordered set of geometries. Names are optional and
// unique; adding a second entry under a taken name moves the name to the
// new entry.
type Scene struct {
	NameIndex map[string]ID
	Version   uint64

	entries map[ID]*Entry
	order   []ID
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{
		NameIndex: make(map[string]ID),
		entries:   make(map[ID]*Entry),
	}
}

// Add appends g under name (which may be empty) and returns its ID.
func (s *Scene) Add(name string, g geom.Renderable) ID {
	id := NewID()
	if old, ok := s.NameIndex[name]; ok && name != "" {
		if e := s.entries[old]; e != nil {
			e.Name = ""
		}
	}
	s.entries[id] = &Entry{ID: id, Name: name, Geometry: g}
	s.order = append(s.order, id)
	if name != "" {
		s.NameIndex[name] = id
	}
	s.Version++
	return id
}

// Remove deletes the entry with the given ID and reports whether it existed.
func (s *Scene) Remove(id ID) bool {
	e, ok := s.entries[id]
	if !ok {
		return false
	}
	delete(s.entries, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if e.Name != "" && s.NameIndex[e.Name] == id {
		delete(s.NameIndex, e.Name)
	}
	s.Version++
	return true
}

// Get returns the entry with the given ID, or nil.
func (s *Scene) Get(id ID) *Entry {
	return s.entries[id]
}

// Lookup returns the entry with the given name, or nil.
func (s *Scene) Lookup(name string) *Entry {
	id, ok := s.NameIndex[name]
	if !ok {
		return nil
	}
	return s.entries[id]
}

// Entries returns the entries in insertion order.
func (s *Scene) Entries() []*Entry {
	out := make([]*Entry, 0, len(s.order))
	for _, id := range s.order {
		if e := s.entries[id]; e != nil {
			out = append(out, e)
		}
	}
	return out
}

// Geometries returns the geometries in insertion order.
func (s *Scene) Geometries() []geom.Geometry {
	entries := s.Entries()
	out := make([]geom.Geometry, len(entries))
	for i, e := range entries {
		out[i] = e.Geometry
	}
	return out
}

// Count returns the number of entries.
func (s *Scene) Count() int {
	return len(s.entries)
}

// Select returns the entries picked by sb, in insertion order.
func (s *Scene) Select(sb *geom.SelectionBox) []*Entry {
	var out []*Entry
	for _, e := range s.Entries() {
		if sb.Selects(e.Geometry) {
			out = append(out, e)
		}
	}
	return out
}

// Erase removes every entry picked by sb and returns how many were removed.
func (s *Scene) Erase(sb *geom.SelectionBox) int {
	selected := s.Select(sb)
	for _, e := range selected {
		s.Remove(e.ID)
	}
	return len(selected)
}

// BoundingBox returns the union of the world-space boxes of the visible
// entries.
func (s *Scene) BoundingBox() geom.Box {
	b := geom.EmptyBox()
	for _, e := range s.Entries() {
		if !e.Geometry.Visible() {
			continue
		}
		b = b.Union(e.Geometry.BoundingBox().Transformed(*e.Geometry.Transform()))
	}
	return b
}
