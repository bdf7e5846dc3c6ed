package bpa

import (
	"errors"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/bpalib/reconstruct/meshpoint"
)

func TestReconstructTetrahedron(t *testing.T) {
	cloud := tetrahedronCloud()

	triangles, err := Reconstruct(cloud, 1.0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(triangles), test.ShouldEqual, 4)

	normalAt := make(map[r3.Vector]r3.Vector, len(cloud))
	for _, p := range cloud {
		normalAt[p.Position] = p.Normal
	}

	vertexCount := map[r3.Vector]int{}
	for _, tri := range triangles {
		for _, v := range tri {
			vertexCount[v]++
		}

		faceNormal := tri[1].Sub(tri[0]).Cross(tri[2].Sub(tri[0]))
		avgNormal := normalAt[tri[0]].Add(normalAt[tri[1]]).Add(normalAt[tri[2]])
		test.That(t, faceNormal.Dot(avgNormal), test.ShouldBeGreaterThan, 0)
	}

	test.That(t, len(vertexCount), test.ShouldEqual, 4)
	for _, count := range vertexCount {
		test.That(t, count, test.ShouldEqual, 3)
	}
}

func TestReconstructIsDeterministic(t *testing.T) {
	cloud := tetrahedronCloud()

	first, err := Reconstruct(cloud, 1.0)
	test.That(t, err, test.ShouldBeNil)
	second, err := Reconstruct(cloud, 1.0)
	test.That(t, err, test.ShouldBeNil)

	test.That(t, second, test.ShouldResemble, first)
}

func cubeCloud() []Point {
	center := r3.Vector{X: 0.5, Y: 0.5, Z: 0.5}
	cloud := make([]Point, 0, 8)
	for _, x := range []float64{0, 1} {
		for _, y := range []float64{0, 1} {
			for _, z := range []float64{0, 1} {
				pos := r3.Vector{X: x, Y: y, Z: z}
				cloud = append(cloud, Point{Position: pos, Normal: pos.Sub(center).Normalize()})
			}
		}
	}
	return cloud
}

func TestReconstructCube(t *testing.T) {
	triangles, err := Reconstruct(cubeCloud(), 1.2)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(triangles), test.ShouldBeGreaterThanOrEqualTo, 12)

	for _, tri := range triangles {
		test.That(t, tri[0], test.ShouldNotResemble, tri[1])
		test.That(t, tri[1], test.ShouldNotResemble, tri[2])
		test.That(t, tri[0], test.ShouldNotResemble, tri[2])
	}
}

func TestReconstructDisjointTetrahedra(t *testing.T) {
	radius := float32(1.0)
	offset := r3.Vector{X: 10 * float64(radius), Y: 0, Z: 0}

	first := tetrahedronCloud()
	second := make([]Point, len(first))
	for i, p := range first {
		second[i] = Point{Position: p.Position.Add(offset), Normal: p.Normal}
	}

	triangles, err := Reconstruct(append(append([]Point{}, first...), second...), radius)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(triangles), test.ShouldEqual, 8)

	for _, tri := range triangles {
		low := tri[0].X < 5 && tri[1].X < 5 && tri[2].X < 5
		high := tri[0].X >= 5 && tri[1].X >= 5 && tri[2].X >= 5
		test.That(t, low || high, test.ShouldBeTrue)
	}
}

func TestReconstructRejectsNonPositiveRadius(t *testing.T) {
	_, err := Reconstruct(tetrahedronCloud(), 0)
	test.That(t, errors.Is(err, ErrInvalidInput), test.ShouldBeTrue)
}

func TestReconstructRejectsCoincidentPoints(t *testing.T) {
	cloud := tetrahedronCloud()
	cloud = append(cloud, Point{Position: cloud[0].Position, Normal: cloud[0].Normal})
	_, err := Reconstruct(cloud, 1.0)
	test.That(t, errors.Is(err, ErrInvalidInput), test.ShouldBeTrue)
}

func TestReconstructReturnsNoMeshOnTooFewPoints(t *testing.T) {
	cloud := []Point{
		{Position: r3.Vector{X: 0, Y: 0, Z: 0}, Normal: r3.Vector{X: 0, Y: 0, Z: 1}},
		{Position: r3.Vector{X: 1, Y: 0, Z: 0}, Normal: r3.Vector{X: 0, Y: 0, Z: 1}},
	}
	_, err := Reconstruct(cloud, 1.0)
	test.That(t, errors.Is(err, ErrNoMesh), test.ShouldBeTrue)
}

func TestReconstructReturnsNoMeshOnCollinearPoints(t *testing.T) {
	cloud := []Point{
		{Position: r3.Vector{X: 0, Y: 0, Z: 0}, Normal: r3.Vector{X: 0, Y: 0, Z: 1}},
		{Position: r3.Vector{X: 1, Y: 0, Z: 0}, Normal: r3.Vector{X: 0, Y: 0, Z: 1}},
		{Position: r3.Vector{X: 2, Y: 0, Z: 0}, Normal: r3.Vector{X: 0, Y: 0, Z: 1}},
	}
	_, err := Reconstruct(cloud, 1.0)
	test.That(t, errors.Is(err, ErrNoMesh), test.ShouldBeTrue)
}

func TestReconstructReturnsNoMeshOnOverlargeRadius(t *testing.T) {
	_, err := Reconstruct(tetrahedronCloud(), 1e30)
	test.That(t, errors.Is(err, ErrNoMesh), test.ShouldBeTrue)
}

func TestReconstructHonorsShouldContinue(t *testing.T) {
	calls := 0
	triangles, err := Reconstruct(tetrahedronCloud(), 1.0, WithShouldContinue(func() bool {
		calls++
		return calls <= 1
	}))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(triangles), test.ShouldBeLessThan, 4)
}

func TestReconstructHonorsIterationCap(t *testing.T) {
	_, err := Reconstruct(tetrahedronCloud(), 1.0, WithIterationCap(1))
	test.That(t, errors.Is(err, ErrTimeout), test.ShouldBeTrue)
}

func TestReconstructReportsProgressPerEmittedTriangle(t *testing.T) {
	var counts []int
	triangles, err := Reconstruct(tetrahedronCloud(), 1.0, WithProgress(func(count int) {
		counts = append(counts, count)
	}))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(counts), test.ShouldEqual, len(triangles))
	for i, c := range counts {
		test.That(t, c, test.ShouldEqual, i+1)
	}
}

func TestReconstructRoundTripsThroughItsOwnOutputVertices(t *testing.T) {
	cloud := tetrahedronCloud()
	triangles, err := Reconstruct(cloud, 1.0)
	test.That(t, err, test.ShouldBeNil)

	normalAt := make(map[r3.Vector]r3.Vector, len(cloud))
	for _, p := range cloud {
		normalAt[p.Position] = p.Normal
	}
	var output []Point
	seenVertex := map[r3.Vector]bool{}
	for _, tri := range triangles {
		for _, v := range tri {
			if !seenVertex[v] {
				seenVertex[v] = true
				output = append(output, Point{Position: v, Normal: normalAt[v]})
			}
		}
	}

	reg, err := meshpoint.FromCloud(output)
	test.That(t, err, test.ShouldBeNil)

	_, err = Reconstruct(reg.Cloud(), 1.0)
	test.That(t, err, test.ShouldBeNil)
}
