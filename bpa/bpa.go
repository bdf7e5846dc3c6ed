// Package bpa implements ball-pivoting surface reconstruction: given an
// oriented point cloud and a ball radius, it grows a triangle mesh by
// seeding a triangle and then rotating ("pivoting") a ball of fixed radius
// around the mesh's boundary edges until the front closes.
package bpa

import (
	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/bpalib/reconstruct/meshpoint"
)

// Point is an oriented input sample: a position and its unit normal.
type Point = meshpoint.Point

// Triangle is an emitted face, as three vertex positions in the order
// produced by the reconstruction (not vertex identities, so the result is
// directly consumable by a caller that never needs to see the registry).
type Triangle [3]r3.Vector

// Sentinel errors, distinguishable with errors.Is.
var (
	// ErrInvalidInput wraps every input-validation failure: a non-positive
	// radius, an empty cloud, a non-finite coordinate or normal, a
	// zero-length normal, or coincident positions.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNoMesh is returned when reconstruction completes with zero
	// triangles. It is a successful, non-fatal outcome, surfaced as an
	// error so callers can test for it with errors.Is rather than having
	// to distinguish a nil slice from a failed call.
	ErrNoMesh = errors.New("reconstruction produced no triangles")
	// ErrTimeout is returned when an iteration cap set with
	// WithIterationCap is exceeded before the front closes.
	ErrTimeout = errors.New("reconstruction exceeded its iteration cap")
)

// options collects the optional knobs Reconstruct accepts.
type options struct {
	logger         golog.Logger
	iterationCap   int
	shouldContinue func() bool
	progress       func(triangleCount int)
}

func defaultOptions() *options {
	return &options{
		logger: zap.NewNop().Sugar(),
	}
}

// Option configures a Reconstruct call.
type Option func(*options)

// WithLogger sets the logger Reconstruct uses for debug-level reporting of
// edges that become Boundary and of dropped duplicate triangle emissions.
// Candidates rejected inside the seed and pivot searches (collinear
// triples, empty-ball violations, orientation ambiguity) are not logged.
// The default is a no-op logger.
func WithLogger(logger golog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithIterationCap bounds the combined seed+pivot iteration count. If the
// cap is exceeded before the front closes, Reconstruct returns ErrTimeout.
// A cap of zero (the default) means no cap.
func WithIterationCap(n int) Option {
	return func(o *options) {
		o.iterationCap = n
	}
}

// WithShouldContinue installs a hook polled at the top of the driver loop.
// When it returns false, Reconstruct returns the triangles accumulated so
// far with a nil error; invariants hold at every loop boundary, so this is
// always a safe place to stop.
func WithShouldContinue(fn func() bool) Option {
	return func(o *options) {
		o.shouldContinue = fn
	}
}

// WithProgress installs a hook called after every triangle Reconstruct
// newly emits, with the total emitted so far. Callers that only care about
// coarse milestones (e.g. every 1000 triangles) should downsample inside
// the hook; Reconstruct calls it unconditionally on every emission.
func WithProgress(fn func(triangleCount int)) Option {
	return func(o *options) {
		o.progress = fn
	}
}

// epsilonFactor is the fraction of radius used as the empty-ball check's
// tolerance, per the numerical policy: a candidate ball is accepted if no
// foreign point lies more than this far inside it.
const epsilonFactor = 1e-7
