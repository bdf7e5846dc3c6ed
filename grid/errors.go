package grid

import "github.com/pkg/errors"

// ErrInvalidInput is the sentinel wrapped by every failure Build reports:
// non-positive radius, an empty point set, non-finite coordinates, or
// coincident points.
var ErrInvalidInput = errors.New("invalid input")
