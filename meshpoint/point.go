// Package meshpoint holds the point registry the reconstruction driver
// consults and mutates: an arena of immutable input points addressed by a
// stable integer identity, paired with a parallel array of mutable
// per-point state. Keeping state in a flat array indexed by ID (rather
// than, say, a pointer graph of mutually-referencing vertices and edges)
// avoids the cyclic-reference problem a naive shared-mutable-cell design
// would run into once points, edges and triangles all point at each other.
package meshpoint

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// ID is a point's stable identity: its index in the input sequence.
type ID int

// Point is an immutable input position paired with its caller-supplied
// unit normal. The normal is taken as-is and never renormalized.
type Point struct {
	Position r3.Vector
	Normal   r3.Vector
}

// State is a point's current role in the evolving mesh front.
type State int

const (
	// Free points have not yet been claimed by any triangle.
	Free State = iota
	// Front points are a vertex of at least one edge currently on the front.
	Front
	// Used points are interior: every front edge touching them has been
	// resolved (frozen or boundary), so they can no longer be pivoted onto.
	Used
)

// String implements fmt.Stringer for State, mostly for test failure output.
func (s State) String() string {
	switch s {
	case Free:
		return "Free"
	case Front:
		return "Front"
	case Used:
		return "Used"
	default:
		return "Unknown"
	}
}

// Registry owns the point arena and per-point state for one reconstruction
// call. It is not safe for concurrent use; the driver owns it exclusively
// for the duration of Reconstruct.
type Registry struct {
	points []Point
	states []State
}

// NewRegistry builds a Registry over cloud. It does not validate cloud;
// callers validate radius and finiteness before constructing one.
func NewRegistry(cloud []Point) *Registry {
	return &Registry{
		points: cloud,
		states: make([]State, len(cloud)),
	}
}

// Len returns the number of points in the registry.
func (r *Registry) Len() int {
	return len(r.points)
}

// Position returns the position of id.
func (r *Registry) Position(id ID) r3.Vector {
	return r.points[id].Position
}

// Normal returns the normal of id.
func (r *Registry) Normal(id ID) r3.Vector {
	return r.points[id].Normal
}

// State returns the current state of id.
func (r *Registry) State(id ID) State {
	return r.states[id]
}

// SetState sets the current state of id.
func (r *Registry) SetState(id ID, s State) {
	r.states[id] = s
}

// Positions returns the positions of every point, in ID order.
func (r *Registry) Positions() []r3.Vector {
	out := make([]r3.Vector, len(r.points))
	for i, p := range r.points {
		out[i] = p.Position
	}
	return out
}

// Cloud returns a copy of the registry's backing points, in ID order.
func (r *Registry) Cloud() []Point {
	out := make([]Point, len(r.points))
	copy(out, r.points)
	return out
}

// FromCloud validates cloud and wraps it in a fresh Registry, letting a
// reconstruction's output vertices (via Cloud) be fed into another
// reconstruction without the caller hand-building a []Point.
func FromCloud(cloud []Point) (*Registry, error) {
	if err := Validate(cloud); err != nil {
		return nil, err
	}
	return NewRegistry(cloud), nil
}

// Validate checks the input-level invariants a reconstruction requires:
// a non-empty cloud, finite positions and normals, and non-zero normals.
// It does not check for coincident points; that is the grid's job, since
// the grid is what buckets points by exact position.
func Validate(cloud []Point) error {
	if len(cloud) == 0 {
		return errors.New("point cloud is empty")
	}
	for i, p := range cloud {
		if !finite(p.Position) {
			return errors.Errorf("point %d has a non-finite position", i)
		}
		if !finite(p.Normal) {
			return errors.Errorf("point %d has a non-finite normal", i)
		}
		if p.Normal.Norm2() < 1e-20 {
			return errors.Errorf("point %d has a zero-length normal", i)
		}
	}
	return nil
}

func finite(v r3.Vector) bool {
	return isFinite(v.X) && isFinite(v.Y) && isFinite(v.Z)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
