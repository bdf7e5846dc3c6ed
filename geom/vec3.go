// Package geom holds the small set of single-precision vector primitives
// the ball-pivoting kernel needs. Public APIs elsewhere in this module speak
// r3.Vector, matching the rest of the ecosystem; geom.Vec3 exists only so
// the numerically sensitive parts of the algorithm (the ball-center
// predicate and its neighbors) run in the precision the reference
// implementation uses, rather than silently promoting to float64.
package geom

import (
	"math"

	"github.com/golang/geo/r3"
)

// Vec3 is a single-precision 3D vector.
type Vec3 struct {
	X, Y, Z float32
}

// FromR3 narrows an r3.Vector to single precision.
func FromR3(v r3.Vector) Vec3 {
	return Vec3{float32(v.X), float32(v.Y), float32(v.Z)}
}

// R3 widens a Vec3 back to an r3.Vector.
func (v Vec3) R3() r3.Vector {
	return r3.Vector{X: float64(v.X), Y: float64(v.Y), Z: float64(v.Z)}
}

// Add returns v+w.
func (v Vec3) Add(w Vec3) Vec3 {
	return Vec3{v.X + w.X, v.Y + w.Y, v.Z + w.Z}
}

// Sub returns v-w.
func (v Vec3) Sub(w Vec3) Vec3 {
	return Vec3{v.X - w.X, v.Y - w.Y, v.Z - w.Z}
}

// Scale returns v scaled by s.
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product of v and w.
func (v Vec3) Dot(w Vec3) float32 {
	return v.X*w.X + v.Y*w.Y + v.Z*w.Z
}

// Cross returns the cross product of v and w.
func (v Vec3) Cross(w Vec3) Vec3 {
	return Vec3{
		v.Y*w.Z - v.Z*w.Y,
		v.Z*w.X - v.X*w.Z,
		v.X*w.Y - v.Y*w.X,
	}
}

// Norm2 returns the squared Euclidean norm of v.
func (v Vec3) Norm2() float32 {
	return v.Dot(v)
}

// Norm returns the Euclidean norm of v.
func (v Vec3) Norm() float32 {
	return float32(math.Sqrt(float64(v.Norm2())))
}

// Normalize returns v scaled to unit length. The zero vector is returned
// unchanged.
func (v Vec3) Normalize() Vec3 {
	n := v.Norm()
	if n == 0 {
		return v
	}
	return v.Scale(1 / n)
}

// IsFinite reports whether every component of v is finite.
func (v Vec3) IsFinite() bool {
	return isFiniteFloat(v.X) && isFiniteFloat(v.Y) && isFiniteFloat(v.Z)
}

func isFiniteFloat(f float32) bool {
	f64 := float64(f)
	return !math.IsNaN(f64) && !math.IsInf(f64, 0)
}

// TriangleNormal returns the unit outward normal (b-a)x(c-a) of triangle
// abc. ok is false when the triangle is degenerate (collinear vertices),
// using the same squared-cross-product threshold as BallCenter.
func TriangleNormal(a, b, c Vec3) (Vec3, bool) {
	cross := b.Sub(a).Cross(c.Sub(a))
	if cross.Norm2() < degenerateThreshold {
		return Vec3{}, false
	}
	return cross.Normalize(), true
}
