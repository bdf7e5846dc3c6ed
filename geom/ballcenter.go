package geom

import "math"

// degenerateThreshold is the squared norm below which a triangle's cross
// product is treated as collinear, per the reconstruction's numerical
// policy. Do not lower this to "rescue" near-degenerate triples.
const degenerateThreshold = 1e-24

// BallCenter computes the two candidate centers of a sphere of radius
// radius passing through a, b and c (the circumcenter q offset along the
// triangle normal by ±sqrt(radius^2 - r^2), where r is the circumradius).
// ok is false if the triangle is degenerate or if radius is smaller than
// the circumradius (no such sphere exists).
func BallCenter(a, b, c Vec3, radius float32) (circumcenter, plus, minus Vec3, ok bool) {
	ab := b.Sub(a)
	ac := c.Sub(a)
	abCrossAc := ab.Cross(ac)
	d := abCrossAc.Dot(abCrossAc)
	if d < degenerateThreshold {
		return Vec3{}, Vec3{}, Vec3{}, false
	}

	toCircumcenter := abCrossAc.Cross(ab).Scale(ac.Dot(ac)).
		Add(ac.Cross(abCrossAc).Scale(ab.Dot(ab))).
		Scale(1 / (2 * d))
	circumcenter = a.Add(toCircumcenter)

	heightSq := radius*radius - toCircumcenter.Dot(toCircumcenter)
	if heightSq < 0 || !isFiniteFloat(heightSq) {
		return Vec3{}, Vec3{}, Vec3{}, false
	}

	normal := abCrossAc.Normalize()
	offset := normal.Scale(sqrt32(heightSq))
	plus = circumcenter.Add(offset)
	minus = circumcenter.Sub(offset)
	if !plus.IsFinite() || !minus.IsFinite() {
		return Vec3{}, Vec3{}, Vec3{}, false
	}
	return circumcenter, plus, minus, true
}

// OrientedBallCenter computes BallCenter(a, b, c, radius) and selects the
// candidate center whose direction from the circumcenter agrees with the
// average of the three vertex normals. ok is false when no sphere exists,
// the triangle is degenerate, or the orientation is ambiguous (both or
// neither candidate agrees with the normals).
func OrientedBallCenter(a, b, c, na, nb, nc Vec3, radius float32) (Vec3, bool) {
	q, plus, minus, ok := BallCenter(a, b, c, radius)
	if !ok {
		return Vec3{}, false
	}
	normalSum := na.Add(nb).Add(nc)
	plusOK := plus.Sub(q).Dot(normalSum) > 0
	minusOK := minus.Sub(q).Dot(normalSum) > 0
	switch {
	case plusOK && !minusOK:
		return plus, true
	case minusOK && !plusOK:
		return minus, true
	default:
		return Vec3{}, false
	}
}

func sqrt32(f float32) float32 {
	if f <= 0 {
		return 0
	}
	return float32(math.Sqrt(float64(f)))
}
