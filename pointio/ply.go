package pointio

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/utils"

	"github.com/bpalib/reconstruct/bpa"
)

type plyFormat int

const (
	plyASCII plyFormat = iota
	plyBinaryLittleEndian
)

type plyHeader struct {
	format      plyFormat
	vertexCount int
	properties  []string
}

type propertyIndices struct {
	x, y, z, nx, ny, nz int
}

// LoadPLY reads path as a PLY point cloud: ASCII or binary_little_endian,
// with a vertex element carrying at least x, y, z, nx, ny, nz float
// properties (in any order, interleaved with others). Property types in
// the header are not read: in a binary file every vertex property is
// decoded as a 4-byte little-endian float, so vertex elements with
// properties of other sizes are misread. No face element is required or
// read.
func LoadPLY(path string) ([]bpa.Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening ply file")
	}
	defer utils.UncheckedErrorFunc(f.Close)

	r := bufio.NewReader(f)
	header, err := parsePLYHeader(r)
	if err != nil {
		return nil, errors.Wrap(err, "parsing ply header")
	}

	idx, err := vertexPropertyIndices(header.properties)
	if err != nil {
		return nil, err
	}

	switch header.format {
	case plyASCII:
		return readPLYASCII(r, header, idx)
	case plyBinaryLittleEndian:
		return readPLYBinary(r, header, idx)
	default:
		return nil, errors.Wrap(ErrUnsupportedFormat, "ply format")
	}
}

func parsePLYHeader(r *bufio.Reader) (plyHeader, error) {
	header := plyHeader{format: -1}

	magic, err := r.ReadString('\n')
	if err != nil {
		return plyHeader{}, err
	}
	if strings.TrimSpace(magic) != "ply" {
		return plyHeader{}, errors.New("missing ply magic line")
	}

	inVertexElement := false
	for {
		raw, readErr := r.ReadString('\n')
		line := strings.TrimSpace(raw)

		switch {
		case line == "end_header":
			if header.format < 0 {
				return plyHeader{}, errors.New("ply header missing format line")
			}
			return header, nil
		case line == "" || strings.HasPrefix(line, "comment"):
			// skip
		case strings.HasPrefix(line, "format"):
			fields := strings.Fields(line)
			if len(fields) < 2 {
				return plyHeader{}, errors.New("malformed format line")
			}
			switch fields[1] {
			case "ascii":
				header.format = plyASCII
			case "binary_little_endian":
				header.format = plyBinaryLittleEndian
			default:
				return plyHeader{}, errors.Wrapf(ErrUnsupportedFormat, "ply format %q", fields[1])
			}
		case strings.HasPrefix(line, "element"):
			fields := strings.Fields(line)
			if len(fields) < 3 {
				return plyHeader{}, errors.New("malformed element line")
			}
			inVertexElement = fields[1] == "vertex"
			if inVertexElement {
				n, err := strconv.Atoi(fields[2])
				if err != nil {
					return plyHeader{}, errors.Wrap(err, "parsing vertex count")
				}
				header.vertexCount = n
			}
		case strings.HasPrefix(line, "property") && inVertexElement:
			fields := strings.Fields(line)
			if len(fields) < 3 {
				return plyHeader{}, errors.New("malformed property line")
			}
			header.properties = append(header.properties, fields[len(fields)-1])
		}

		if readErr != nil {
			return plyHeader{}, errors.Wrap(readErr, "reading header before end_header")
		}
	}
}

func vertexPropertyIndices(properties []string) (propertyIndices, error) {
	idx := make(map[string]int, len(properties))
	for i, p := range properties {
		idx[p] = i
	}
	for _, name := range []string{"x", "y", "z", "nx", "ny", "nz"} {
		if _, ok := idx[name]; !ok {
			return propertyIndices{}, errors.Wrapf(ErrUnsupportedFormat, "vertex element missing %q property", name)
		}
	}
	return propertyIndices{
		x: idx["x"], y: idx["y"], z: idx["z"],
		nx: idx["nx"], ny: idx["ny"], nz: idx["nz"],
	}, nil
}

func readPLYASCII(r *bufio.Reader, header plyHeader, idx propertyIndices) ([]bpa.Point, error) {
	points := make([]bpa.Point, 0, header.vertexCount)
	scanner := bufio.NewScanner(r)
	for i := 0; i < header.vertexCount; i++ {
		if !scanner.Scan() {
			return nil, errors.Errorf("expected %d vertices, found %d", header.vertexCount, i)
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) < len(header.properties) {
			return nil, errors.Errorf("vertex %d: expected %d fields, got %d", i, len(header.properties), len(fields))
		}

		values := make([]float64, len(fields))
		for j, raw := range fields {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "vertex %d field %d", i, j)
			}
			values[j] = v
		}

		points = append(points, bpa.Point{
			Position: r3.Vector{X: values[idx.x], Y: values[idx.y], Z: values[idx.z]},
			Normal:   r3.Vector{X: values[idx.nx], Y: values[idx.ny], Z: values[idx.nz]},
		})
	}
	return points, nil
}

func readPLYBinary(r *bufio.Reader, header plyHeader, idx propertyIndices) ([]bpa.Point, error) {
	points := make([]bpa.Point, 0, header.vertexCount)
	recordSize := len(header.properties) * 4
	buf := make([]byte, recordSize)

	for i := 0; i < header.vertexCount; i++ {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, errors.Wrapf(err, "reading vertex %d", i)
		}

		values := make([]float64, len(header.properties))
		for j := range header.properties {
			bits := binary.LittleEndian.Uint32(buf[j*4 : j*4+4])
			values[j] = float64(math.Float32frombits(bits))
		}

		points = append(points, bpa.Point{
			Position: r3.Vector{X: values[idx.x], Y: values[idx.y], Z: values[idx.z]},
			Normal:   r3.Vector{X: values[idx.nx], Y: values[idx.ny], Z: values[idx.nz]},
		})
	}
	return points, nil
}
