// Package front implements the edge front: the evolving boundary of the
// partially reconstructed mesh. It combines a FIFO queue (for
// deterministic, oldest-first pivoting) with an unordered-key index (for
// gluing an edge to its reverse and rejecting duplicate emissions) because
// neither structure alone is enough to enforce the mesh's edge invariants:
// a plain queue cannot dedupe or glue, and a plain map loses the ordering
// pivoting needs to be deterministic.
package front

import (
	"github.com/golang/geo/r3"

	"github.com/bpalib/reconstruct/meshpoint"
)

// Status is the current disposition of a front edge.
type Status int

const (
	// Active edges are still waiting to be pivoted.
	Active Status = iota
	// Boundary edges had pivoting fail; they will not be retried.
	Boundary
	// Frozen edges have been matched with their reverse and are now an
	// interior edge of the mesh.
	Frozen
)

// Edge is a directed front edge (a, b), together with the opposite vertex
// and ball center of the triangle it bounds.
type Edge struct {
	A, B, Opposite meshpoint.ID
	Center         r3.Vector
	Status         Status
}

type key struct {
	lo, hi meshpoint.ID
}

func keyOf(a, b meshpoint.ID) key {
	if a < b {
		return key{a, b}
	}
	return key{b, a}
}

// Front is the queue of active edges plus the key index used to glue and
// dedupe. The zero value is not usable; construct with New.
type Front struct {
	queue []*Edge
	head  int
	byKey map[key][]*Edge
	// active counts, per vertex, the number of Active edges currently
	// touching it. A vertex with a positive count is on the front.
	active map[meshpoint.ID]int
}

// New returns an empty Front.
func New() *Front {
	return &Front{
		byKey:  make(map[key][]*Edge),
		active: make(map[meshpoint.ID]int),
	}
}

// Offer inserts e into the front, gluing it to its reverse if one is
// already present as Active or Boundary, or dropping it if a duplicate of
// e (same key, same direction) already exists. Gluing to a Boundary edge
// lets a later-discovered reverse still close off a triangle whose other
// side previously failed to pivot. It returns true iff e was glued.
func (f *Front) Offer(e *Edge) bool {
	k := keyOf(e.A, e.B)
	existing := f.byKey[k]

	for _, other := range existing {
		if other.A == e.A && other.B == e.B {
			// Same directed edge already on the front: a duplicate
			// emission. Drop it silently rather than re-adding.
			return false
		}
	}
	for _, other := range existing {
		if other.A == e.B && other.B == e.A && (other.Status == Active || other.Status == Boundary) {
			if other.Status == Active {
				f.active[other.A]--
				f.active[other.B]--
			}
			other.Status = Frozen
			e.Status = Frozen
			f.byKey[k] = append(existing, e)
			return true
		}
	}

	e.Status = Active
	f.byKey[k] = append(existing, e)
	f.queue = append(f.queue, e)
	f.active[e.A]++
	f.active[e.B]++
	return false
}

// PopActive removes and returns the oldest Active edge, or ok=false if
// none remain. Edges already resolved (Frozen or Boundary) are discarded
// as they are skipped over.
func (f *Front) PopActive() (e *Edge, ok bool) {
	for f.head < len(f.queue) {
		candidate := f.queue[f.head]
		f.head++
		if candidate.Status == Active {
			return candidate, true
		}
	}
	return nil, false
}

// MarkBoundary marks e as Boundary: pivoting failed and it will not be
// retried, but it stays in the key index so a future reverse edge can
// still glue to it.
func (f *Front) MarkBoundary(e *Edge) {
	e.Status = Boundary
	f.active[e.A]--
	f.active[e.B]--
}

// Freeze marks e as Frozen directly, without consulting the key index.
// Used when the driver already knows e's exact interior partner (the
// triangle pivoted off of e), rather than discovering it via Offer.
func (f *Front) Freeze(e *Edge) {
	e.Status = Frozen
	f.active[e.A]--
	f.active[e.B]--
}

// ActiveCount returns the number of Active edges currently touching id.
// A vertex with a zero count has no remaining front edges.
func (f *Front) ActiveCount(id meshpoint.ID) int {
	return f.active[id]
}
