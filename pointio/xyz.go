package pointio

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/utils"

	"github.com/bpalib/reconstruct/bpa"
)

// LoadXYZ parses path as whitespace-separated "x y z nx ny nz" lines.
// Blank lines and lines starting with '#' are ignored. A malformed line is
// recorded as a *ParseError and skipped rather than aborting the load; the
// accumulated warnings are returned alongside the points that did parse,
// unless every line failed, in which case the combined error is returned
// with a nil point slice.
func LoadXYZ(path string) ([]bpa.Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening xyz file")
	}
	defer utils.UncheckedErrorFunc(f.Close)

	var points []bpa.Point
	var warnings error
	lineNo := 0

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		p, err := parseXYZLine(line)
		if err != nil {
			warnings = multierr.Append(warnings, &ParseError{Path: path, Line: lineNo, Reason: err})
			continue
		}
		points = append(points, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading xyz file")
	}

	if len(points) == 0 && warnings != nil {
		return nil, warnings
	}
	return points, warnings
}

func parseXYZLine(line string) (bpa.Point, error) {
	fields := strings.Fields(line)
	if len(fields) < 6 {
		return bpa.Point{}, errors.Errorf("expected 6 fields, got %d", len(fields))
	}

	values := make([]float64, 6)
	for i := 0; i < 6; i++ {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return bpa.Point{}, errors.Wrapf(err, "parsing field %d", i)
		}
		values[i] = v
	}

	return bpa.Point{
		Position: r3.Vector{X: values[0], Y: values[1], Z: values[2]},
		Normal:   r3.Vector{X: values[3], Y: values[4], Z: values[5]},
	}, nil
}
