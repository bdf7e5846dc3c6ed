package pointio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/utils"

	"github.com/bpalib/reconstruct/bpa"
)

// SaveSTL writes triangles to path as a binary STL file: an 80-byte zero
// header, a little-endian uint32 triangle count, then per triangle 12
// little-endian float32s (face normal, then the three vertices) and a
// trailing uint16 attribute of zero. The face normal is recomputed and
// normalized from the triangle's vertex positions rather than trusted from
// the caller.
func SaveSTL(path string, triangles []bpa.Triangle) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating stl file")
	}
	defer utils.UncheckedErrorFunc(f.Close)

	w := bufio.NewWriter(f)

	var header [80]byte
	if _, err := w.Write(header[:]); err != nil {
		return errors.Wrap(err, "writing stl header")
	}
	if len(triangles) > math.MaxUint32 {
		return errors.Errorf("stl format cannot contain more than %d triangles", uint32(math.MaxUint32))
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(triangles))); err != nil {
		return errors.Wrap(err, "writing stl triangle count")
	}

	for _, tri := range triangles {
		normal := faceNormal(tri)
		for _, v := range []r3.Vector{normal, tri[0], tri[1], tri[2]} {
			if err := writeVec3(w, v); err != nil {
				return errors.Wrap(err, "writing stl triangle")
			}
		}
		if err := binary.Write(w, binary.LittleEndian, uint16(0)); err != nil {
			return errors.Wrap(err, "writing stl attribute byte count")
		}
	}

	return errors.Wrap(w.Flush(), "flushing stl file")
}

// SaveSTLASCII writes triangles to path as a human-readable ASCII STL.
// It exists only as a debugging aid; the CLI does not use it by default.
func SaveSTLASCII(path string, triangles []bpa.Triangle) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating ascii stl file")
	}
	defer utils.UncheckedErrorFunc(f.Close)

	w := bufio.NewWriter(f)
	if _, err := fmt.Fprintf(w, "solid %s\n", path); err != nil {
		return errors.Wrap(err, "writing ascii stl")
	}

	for _, tri := range triangles {
		n := faceNormal(tri)
		if _, err := fmt.Fprintf(w, "  facet normal %g %g %g\n", n.X, n.Y, n.Z); err != nil {
			return errors.Wrap(err, "writing ascii stl facet")
		}
		if _, err := fmt.Fprint(w, "    outer loop\n"); err != nil {
			return errors.Wrap(err, "writing ascii stl loop")
		}
		for _, v := range tri {
			if _, err := fmt.Fprintf(w, "      vertex %g %g %g\n", v.X, v.Y, v.Z); err != nil {
				return errors.Wrap(err, "writing ascii stl vertex")
			}
		}
		if _, err := fmt.Fprint(w, "    endloop\n  endfacet\n"); err != nil {
			return errors.Wrap(err, "writing ascii stl endfacet")
		}
	}

	if _, err := fmt.Fprint(w, "endsolid\n"); err != nil {
		return errors.Wrap(err, "writing ascii stl footer")
	}
	return errors.Wrap(w.Flush(), "flushing ascii stl file")
}

func faceNormal(tri bpa.Triangle) r3.Vector {
	normal := tri[1].Sub(tri[0]).Cross(tri[2].Sub(tri[0]))
	if normal.Norm2() == 0 {
		return r3.Vector{}
	}
	return normal.Normalize()
}

func writeVec3(w *bufio.Writer, v r3.Vector) error {
	for _, f := range []float32{float32(v.X), float32(v.Y), float32(v.Z)} {
		if err := binary.Write(w, binary.LittleEndian, f); err != nil {
			return err
		}
	}
	return nil
}
