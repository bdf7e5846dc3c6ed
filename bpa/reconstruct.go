package bpa

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/bpalib/reconstruct/front"
	"github.com/bpalib/reconstruct/grid"
	"github.com/bpalib/reconstruct/meshpoint"
)

// Reconstruct builds a triangle mesh from cloud by ball-pivoting with the
// given radius: a seed triangle is found whenever the front is empty, and
// every active front edge is pivoted until the front closes or no further
// candidate accepts. It returns ErrNoMesh if no triangle could be emitted
// and ErrInvalidInput if cloud or radius fail validation.
func Reconstruct(cloud []Point, radius float32, opts ...Option) ([]Triangle, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	if radius <= 0 {
		return nil, errors.Wrapf(ErrInvalidInput, "radius must be positive, got %v", radius)
	}
	if err := meshpoint.Validate(cloud); err != nil {
		return nil, errors.Wrap(ErrInvalidInput, err.Error())
	}

	reg := meshpoint.NewRegistry(cloud)
	g, err := grid.Build(reg.Positions(), radius)
	if err != nil {
		if errors.Is(err, grid.ErrInvalidInput) {
			return nil, errors.Wrap(ErrInvalidInput, err.Error())
		}
		return nil, errors.Wrap(err, "building spatial index")
	}

	fr := front.New()
	var triangles []Triangle
	seen := make(map[triangleKey]struct{})

	iterations := 0
	for {
		if o.shouldContinue != nil && !o.shouldContinue() {
			return triangles, nil
		}
		if o.iterationCap > 0 && iterations >= o.iterationCap {
			return triangles, ErrTimeout
		}
		iterations++

		if e, ok := fr.PopActive(); ok {
			stepPivot(e, reg, g, fr, radius, &triangles, seen, o)
			continue
		}

		s, ok := findSeed(reg, g, radius)
		if !ok {
			break
		}
		stepSeed(s, reg, fr, &triangles, seen, o)
	}

	if len(triangles) == 0 {
		return nil, ErrNoMesh
	}
	return triangles, nil
}

// stepPivot advances the driver by one pivot attempt on e, emitting a
// triangle and two new front edges on success or marking e Boundary on
// failure.
func stepPivot(
	e *front.Edge,
	reg *meshpoint.Registry,
	g *grid.Grid,
	fr *front.Front,
	radius float32,
	triangles *[]Triangle,
	seen map[triangleKey]struct{},
	o *options,
) {
	result, ok := pivot(e, reg, g, radius)
	if !ok {
		fr.MarkBoundary(e)
		updateState(reg, fr, e.A)
		updateState(reg, fr, e.B)
		o.logger.Debugw("edge became boundary", "a", e.A, "b", e.B)
		return
	}

	fr.Freeze(e)

	emitted := emitTriangle(triangles, seen, reg, [3]meshpoint.ID{e.B, e.A, result.k})
	if !emitted {
		o.logger.Debugw("dropped duplicate triangle emission", "a", e.B, "b", e.A, "c", result.k)
	} else if o.progress != nil {
		o.progress(len(*triangles))
	}

	center := result.center.R3()
	ak := &front.Edge{A: e.A, B: result.k, Opposite: e.B, Center: center}
	kb := &front.Edge{A: result.k, B: e.B, Opposite: e.A, Center: center}
	fr.Offer(ak)
	fr.Offer(kb)
	updateState(reg, fr, e.A)
	updateState(reg, fr, e.B)
	updateState(reg, fr, result.k)
}

// stepSeed advances the driver by emitting s as a new seed triangle and
// offering its three edges to the front.
func stepSeed(
	s seed,
	reg *meshpoint.Registry,
	fr *front.Front,
	triangles *[]Triangle,
	seen map[triangleKey]struct{},
	o *options,
) {
	emitted := emitTriangle(triangles, seen, reg, [3]meshpoint.ID{s.a, s.b, s.c})
	if !emitted {
		o.logger.Debugw("dropped duplicate seed emission", "a", s.a, "b", s.b, "c", s.c)
	} else if o.progress != nil {
		o.progress(len(*triangles))
	}

	center := s.center.R3()
	fr.Offer(&front.Edge{A: s.a, B: s.b, Opposite: s.c, Center: center})
	fr.Offer(&front.Edge{A: s.b, B: s.c, Opposite: s.a, Center: center})
	fr.Offer(&front.Edge{A: s.c, B: s.a, Opposite: s.b, Center: center})
	updateState(reg, fr, s.a)
	updateState(reg, fr, s.b)
	updateState(reg, fr, s.c)
}

// updateState derives id's point state from its current count of Active
// front edges, rather than an eagerly-set flag: Free becomes Front the
// first time id touches an Active edge, and Front becomes Used once no
// Active edge touches it any longer.
func updateState(reg *meshpoint.Registry, fr *front.Front, id meshpoint.ID) {
	if fr.ActiveCount(id) > 0 {
		if reg.State(id) == meshpoint.Free {
			reg.SetState(id, meshpoint.Front)
		}
		return
	}
	if reg.State(id) == meshpoint.Front {
		reg.SetState(id, meshpoint.Used)
	}
}

// triangleKey is the canonical (sorted) form of a triangle's vertex
// identities, used to enforce I2/P2 (no unordered triple emitted twice)
// as a safety net beyond what front gluing already guarantees.
type triangleKey [3]meshpoint.ID

func canonicalKey(tri [3]meshpoint.ID) triangleKey {
	sorted := tri
	sort.Slice(sorted[:], func(i, j int) bool { return sorted[i] < sorted[j] })
	return triangleKey(sorted)
}

// emitTriangle appends tri to triangles in its given vertex order unless
// its unordered identity already appears in seen, in which case it is
// dropped. It reports whether the triangle was newly emitted.
func emitTriangle(
	triangles *[]Triangle,
	seen map[triangleKey]struct{},
	reg *meshpoint.Registry,
	tri [3]meshpoint.ID,
) bool {
	key := canonicalKey(tri)
	if _, dup := seen[key]; dup {
		return false
	}
	seen[key] = struct{}{}
	*triangles = append(*triangles, Triangle{
		reg.Position(tri[0]),
		reg.Position(tri[1]),
		reg.Position(tri[2]),
	})
	return true
}
