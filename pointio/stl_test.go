package pointio

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/bpalib/reconstruct/bpa"
)

func TestSaveSTLWritesExpectedBinaryLayout(t *testing.T) {
	triangles := []bpa.Triangle{
		{
			r3.Vector{X: 0, Y: 0, Z: 0},
			r3.Vector{X: 1, Y: 0, Z: 0},
			r3.Vector{X: 0, Y: 1, Z: 0},
		},
	}

	path := filepath.Join(t.TempDir(), "out.stl")
	err := SaveSTL(path, triangles)
	test.That(t, err, test.ShouldBeNil)

	data, err := os.ReadFile(path)
	test.That(t, err, test.ShouldBeNil)

	// 80-byte header + uint32 count + one record (12 float32s + uint16).
	test.That(t, len(data), test.ShouldEqual, 80+4+(12*4+2))

	count := binary.LittleEndian.Uint32(data[80:84])
	test.That(t, count, test.ShouldEqual, uint32(1))

	normal := r3.Vector{
		X: float64(math.Float32frombits(binary.LittleEndian.Uint32(data[84:88]))),
		Y: float64(math.Float32frombits(binary.LittleEndian.Uint32(data[88:92]))),
		Z: float64(math.Float32frombits(binary.LittleEndian.Uint32(data[92:96]))),
	}
	test.That(t, normal.Z, test.ShouldAlmostEqual, 1.0, 1e-6)
}

func TestSaveSTLRoundTripsVertexPositions(t *testing.T) {
	triangles := []bpa.Triangle{
		{
			r3.Vector{X: 1, Y: 2, Z: 3},
			r3.Vector{X: 4, Y: 5, Z: 6},
			r3.Vector{X: 7, Y: 8, Z: 9},
		},
	}
	path := filepath.Join(t.TempDir(), "out.stl")
	test.That(t, SaveSTL(path, triangles), test.ShouldBeNil)

	data, err := os.ReadFile(path)
	test.That(t, err, test.ShouldBeNil)

	firstVertexOffset := 80 + 4 + 12
	x := math.Float32frombits(binary.LittleEndian.Uint32(data[firstVertexOffset : firstVertexOffset+4]))
	test.That(t, float64(x), test.ShouldAlmostEqual, 1.0, 1e-6)
}

func TestSaveSTLASCIIWritesReadableFacets(t *testing.T) {
	triangles := []bpa.Triangle{
		{
			r3.Vector{X: 0, Y: 0, Z: 0},
			r3.Vector{X: 1, Y: 0, Z: 0},
			r3.Vector{X: 0, Y: 1, Z: 0},
		},
	}
	path := filepath.Join(t.TempDir(), "out.stl.ascii")
	test.That(t, SaveSTLASCII(path, triangles), test.ShouldBeNil)

	data, err := os.ReadFile(path)
	test.That(t, err, test.ShouldBeNil)
	contents := string(data)
	test.That(t, contents, test.ShouldContainSubstring, "solid ")
	test.That(t, contents, test.ShouldContainSubstring, "endsolid")
	test.That(t, contents, test.ShouldContainSubstring, "facet normal")
}

func TestSaveSTLHandlesEmptyTriangleList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.stl")
	test.That(t, SaveSTL(path, nil), test.ShouldBeNil)

	data, err := os.ReadFile(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(data), test.ShouldEqual, 84)
}
