package bpa

import (
	"math"
	"sort"

	"github.com/bpalib/reconstruct/front"
	"github.com/bpalib/reconstruct/geom"
	"github.com/bpalib/reconstruct/grid"
	"github.com/bpalib/reconstruct/meshpoint"
)

// pivotResult is the outcome of a successful pivot: the point the ball
// landed on and the center of the ball there.
type pivotResult struct {
	k      meshpoint.ID
	center geom.Vec3
}

// pivot rotates the ball of radius around e's midpoint, away from e's
// opposite vertex, to find the next point it touches. ok is false if no
// candidate accepts (e becomes Boundary).
func pivot(e *front.Edge, reg *meshpoint.Registry, g *grid.Grid, radius float32) (pivotResult, bool) {
	a, b, o := e.A, e.B, e.Opposite
	posA := geom.FromR3(reg.Position(a))
	posB := geom.FromR3(reg.Position(b))
	c0 := geom.FromR3(e.Center)

	m := posA.Add(posB).Scale(0.5)
	toC0 := c0.Sub(m)
	reach := toC0.Norm()
	if reach == 0 {
		return pivotResult{}, false
	}
	oldVec := toC0.Normalize()
	axis := posA.Sub(posB)

	na := geom.FromR3(reg.Normal(a))
	nb := geom.FromR3(reg.Normal(b))

	candidates := g.SphericalNeighbors(m, radius+reach)
	sort.Slice(candidates, func(i, j int) bool { return candidates[i] < candidates[j] })

	bestAngle := float32(math.MaxFloat32)
	var best pivotResult
	found := false

	for _, k := range candidates {
		if k == a || k == b || k == o {
			continue
		}
		if reg.State(k) == meshpoint.Used {
			continue
		}
		posK := geom.FromR3(reg.Position(k))
		nk := geom.FromR3(reg.Normal(k))

		// The triangle the driver emits for a successful pivot is wound
		// (b, a, k), not (a, b, k) — see reconstruct.go's stepPivot. Compute
		// the oriented ball center on that same winding so the half-space
		// it selects agrees with the face normal of the triangle actually
		// emitted, per grid.rs's ball_pivot.
		center, ok := geom.OrientedBallCenter(posB, posA, posK, nb, na, nk, radius)
		if !ok {
			continue
		}
		// OrientedBallCenter only guarantees a center exists on a side that
		// agrees with na+nb+nk; it does not force that side to be the one
		// consistent with the (b, a, k) winding's own face normal. Reject a
		// candidate whose face normal would disagree, matching grid.rs's
		// explicit new_center_vec·new_face_normal >= 0 guard.
		faceNormal := posA.Sub(posB).Cross(posK.Sub(posB))
		if faceNormal.Dot(na.Add(nb).Add(nk)) <= 0 {
			continue
		}

		newVec := center.Sub(m).Normalize()
		angle := acos32(clamp32(oldVec.Dot(newVec), -1, 1))
		if newVec.Cross(oldVec).Dot(axis) < 0 {
			angle += math.Pi
		}

		if angle < bestAngle {
			bestAngle = angle
			best = pivotResult{k: k, center: center}
			found = true
		}
	}

	if !found {
		return pivotResult{}, false
	}
	if !emptyBall(g, best.center, radius, a, b, best.k) {
		return pivotResult{}, false
	}
	return best, true
}

func acos32(f float32) float32 {
	return float32(math.Acos(float64(f)))
}

func clamp32(f, lo, hi float32) float32 {
	if f < lo {
		return lo
	}
	if f > hi {
		return hi
	}
	return f
}
