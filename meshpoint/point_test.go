package meshpoint

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestRegistryStateTransitions(t *testing.T) {
	reg := NewRegistry([]Point{
		{Position: r3.Vector{X: 0, Y: 0, Z: 0}, Normal: r3.Vector{X: 0, Y: 0, Z: 1}},
		{Position: r3.Vector{X: 1, Y: 0, Z: 0}, Normal: r3.Vector{X: 0, Y: 0, Z: 1}},
	})
	test.That(t, reg.Len(), test.ShouldEqual, 2)
	test.That(t, reg.State(0), test.ShouldEqual, Free)

	reg.SetState(0, Front)
	test.That(t, reg.State(0), test.ShouldEqual, Front)

	reg.SetState(0, Used)
	test.That(t, reg.State(0), test.ShouldEqual, Used)
	test.That(t, reg.State(1), test.ShouldEqual, Free)
}

func TestRegistryCloudRoundTrip(t *testing.T) {
	points := []Point{
		{Position: r3.Vector{X: 0, Y: 0, Z: 0}, Normal: r3.Vector{X: 1, Y: 0, Z: 0}},
	}
	reg := NewRegistry(points)
	out := reg.Cloud()
	test.That(t, out, test.ShouldResemble, points)

	positions := reg.Positions()
	test.That(t, positions, test.ShouldResemble, []r3.Vector{{X: 0, Y: 0, Z: 0}})
}

func TestValidateRejectsEmptyCloud(t *testing.T) {
	err := Validate(nil)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestValidateRejectsNonFinitePosition(t *testing.T) {
	err := Validate([]Point{{
		Position: r3.Vector{X: math.NaN(), Y: 0, Z: 0},
		Normal:   r3.Vector{X: 0, Y: 0, Z: 1},
	}})
	test.That(t, err, test.ShouldNotBeNil)
}

func TestValidateRejectsZeroNormal(t *testing.T) {
	err := Validate([]Point{{
		Position: r3.Vector{X: 0, Y: 0, Z: 0},
		Normal:   r3.Vector{X: 0, Y: 0, Z: 0},
	}})
	test.That(t, err, test.ShouldNotBeNil)
}

func TestValidateAcceptsWellFormedCloud(t *testing.T) {
	err := Validate([]Point{{
		Position: r3.Vector{X: 0, Y: 0, Z: 0},
		Normal:   r3.Vector{X: 0, Y: 0, Z: 1},
	}})
	test.That(t, err, test.ShouldBeNil)
}
