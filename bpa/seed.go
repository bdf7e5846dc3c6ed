package bpa

import (
	"sort"

	"github.com/bpalib/reconstruct/geom"
	"github.com/bpalib/reconstruct/grid"
	"github.com/bpalib/reconstruct/meshpoint"
)

// seed is the result of a successful search for a new seed triangle.
type seed struct {
	a, b, c meshpoint.ID
	center  geom.Vec3
}

// findSeed searches for one ball-radius triangle to start a new connected
// component, scanning candidate points in identity order per point-identity
// determinism. It returns ok=false once every Free point has been tried
// without success.
func findSeed(reg *meshpoint.Registry, g *grid.Grid, radius float32) (seed, bool) {
	for a := meshpoint.ID(0); int(a) < reg.Len(); a++ {
		if reg.State(a) != meshpoint.Free {
			continue
		}
		posA := geom.FromR3(reg.Position(a))

		candidates := distinctFrom(g.SphericalNeighbors(posA, 2*radius), a)
		sort.Slice(candidates, func(i, j int) bool {
			di := geom.FromR3(reg.Position(candidates[i])).Sub(posA).Norm2()
			dj := geom.FromR3(reg.Position(candidates[j])).Sub(posA).Norm2()
			if di != dj {
				return di < dj
			}
			return candidates[i] < candidates[j]
		})

		na := geom.FromR3(reg.Normal(a))

		for _, b := range candidates {
			if reg.State(b) == meshpoint.Used {
				continue
			}
			posB := geom.FromR3(reg.Position(b))
			nb := geom.FromR3(reg.Normal(b))

			for _, c := range candidates {
				if c == b || reg.State(c) == meshpoint.Used {
					continue
				}
				posC := geom.FromR3(reg.Position(c))
				nc := geom.FromR3(reg.Normal(c))

				center, ok := geom.OrientedBallCenter(posA, posB, posC, na, nb, nc, radius)
				if !ok {
					continue
				}
				if !emptyBall(g, center, radius, a, b, c) {
					continue
				}

				// OrientedBallCenter only picks which side of the plane the
				// ball sits on; it says nothing about whether the winding
				// (a, b, c) itself is the one that agrees with the vertex
				// normals, since the same ball accepts a triple in either
				// winding (with plus/minus swapped accordingly). Flip the
				// emitted winding here so the face normal agrees with the
				// sum of vertex normals, per grid.rs's find_seed_triangle.
				outB, outC := b, c
				faceNormal := posB.Sub(posA).Cross(posC.Sub(posA))
				if faceNormal.Dot(na.Add(nb).Add(nc)) < 0 {
					outB, outC = c, b
				}
				return seed{a: a, b: outB, c: outC, center: center}, true
			}
		}
	}
	return seed{}, false
}

func distinctFrom(ids []meshpoint.ID, exclude meshpoint.ID) []meshpoint.ID {
	out := make([]meshpoint.ID, 0, len(ids))
	for _, id := range ids {
		if id != exclude {
			out = append(out, id)
		}
	}
	return out
}
