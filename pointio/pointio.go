// Package pointio reads and writes the point-cloud and mesh file formats
// the ball-pivoting core itself never needs to know about: ASCII xyz,
// ASCII and binary_little_endian PLY for input, and binary (plus a debug
// ASCII variant) STL for output.
package pointio

import (
	"fmt"

	"github.com/pkg/errors"
)

// ParseError describes one malformed line of an input file. Multiple
// ParseErrors from the same load are combined with go.uber.org/multierr
// rather than aborting on the first one, the way the teacher's LAS loader
// reports lossiness without failing the whole load.
type ParseError struct {
	Path   string
	Line   int
	Reason error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Reason
}

// ErrUnsupportedFormat is returned when a PLY header declares a vertex
// property set or data format this package does not read.
var ErrUnsupportedFormat = errors.New("unsupported file format")
