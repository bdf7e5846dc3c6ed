package bpa

import (
	"github.com/bpalib/reconstruct/geom"
	"github.com/bpalib/reconstruct/grid"
	"github.com/bpalib/reconstruct/meshpoint"
)

// emptyBall reports whether no indexed point other than those in allowed
// lies strictly inside the radius-ball centered at center, within the
// numerical tolerance epsilonFactor*radius on the boundary.
func emptyBall(g *grid.Grid, center geom.Vec3, radius float32, allowed ...meshpoint.ID) bool {
	threshold := radius - epsilonFactor*radius
	for _, id := range g.SphericalNeighbors(center, radius) {
		if containsID(allowed, id) {
			continue
		}
		if geom.FromR3(g.Position(id)).Sub(center).Norm() < threshold {
			return false
		}
	}
	return true
}

func containsID(ids []meshpoint.ID, target meshpoint.ID) bool {
	for _, id := range ids {
		if id == target {
			return true
		}
	}
	return false
}
