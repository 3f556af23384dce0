package dcel

import (
	"errors"

	"github.com/aucupo/dcelkit/pkg/geomerr"
)

// Validate checks the structural invariants of d and returns every
// violation joined into one error, or nil.
//
// Checked invariants: twins are mutual and reverse each other, next/prev
// links are mutual and connect head to tail, closed chains registered on a
// face stay on that face, and every outgoing edge starts at its vertex.
func (d *DCEL) Validate() error {
	const op = "dcel.Validate"
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, geomerr.MalformedTopology(op, format, args...))
	}

	for i, e := range d.edges {
		id := EdgeID(i)
		if !d.validVertex(e.Target) {
			fail("edge %d has no valid target", id)
			continue
		}
		if e.Twin != NoEdge {
			if !d.validEdge(e.Twin) || d.edges[e.Twin].Twin != id {
				fail("edge %d and its twin %d are not mutual", id, e.Twin)
			} else if e.Twin == id {
				fail("edge %d is its own twin", id)
			}
		}
		if e.Next != NoEdge {
			if !d.validEdge(e.Next) || d.edges[e.Next].Prev != id {
				fail("edge %d next %d does not point back", id, e.Next)
			} else if src, err := d.Source(e.Next); err == nil && src != e.Target {
				fail("edge %d ends at vertex %d but its next %d starts at %d", id, e.Target, e.Next, src)
			}
		}
		if e.Prev != NoEdge && (!d.validEdge(e.Prev) || d.edges[e.Prev].Next != id) {
			fail("edge %d prev %d does not point forward", id, e.Prev)
		}
	}

	for i, f := range d.faces {
		id := FaceID(i)
		for _, c := range f.Chains {
			if !d.validEdge(c.Edge) {
				fail("face %d lists unknown edge %d", id, c.Edge)
				continue
			}
			chain, err := d.Chain(c.Edge)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			closed := d.ChainIsClosed(chain)
			if closed == (c.Kind == ChainOpen) {
				fail("face %d chain at edge %d is tagged %s", id, c.Edge, c.Kind)
			}
			if !closed {
				continue
			}
			for _, e := range chain {
				if d.edges[e].Face != id {
					fail("edge %d in a closed chain of face %d belongs to face %d", e, id, d.edges[e].Face)
				}
			}
		}
		for _, v := range f.Isolated {
			if !d.validVertex(v) {
				fail("face %d lists unknown isolated vertex %d", id, v)
			}
		}
	}

	for i, v := range d.vertices {
		id := VertexID(i)
		if v.Outgoing == NoEdge {
			continue
		}
		if !d.validEdge(v.Outgoing) {
			fail("vertex %d has unknown outgoing edge %d", id, v.Outgoing)
			continue
		}
		if src, err := d.Source(v.Outgoing); err != nil {
			errs = append(errs, err)
		} else if src != id {
			fail("outgoing edge %d of vertex %d starts at vertex %d", v.Outgoing, id, src)
		}
		if _, err := d.OutgoingEdges(id); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
