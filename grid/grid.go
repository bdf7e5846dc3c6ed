// Package grid implements the uniform spatial index the reconstruction
// driver uses for neighborhood queries: a sparse map from cell coordinate
// to the point identities that fall in it, cell side fixed at 2*radius for
// the lifetime of the index. It is grounded on the sparse VoxelGrid
// (map[VoxelCoords]*Voxel, 26-connectivity neighbor walk) pattern this
// module's teacher uses for point-cloud voxelization, generalized here to
// answer arbitrary-radius sphere queries rather than a fixed 1-ring.
package grid

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/bpalib/reconstruct/geom"
	"github.com/bpalib/reconstruct/meshpoint"
)

// Cell is the integer coordinate of a grid cell.
type Cell struct {
	I, J, K int32
}

// Grid is a uniform axis-aligned lattice with cell side 2*radius, built
// once over a fixed set of point positions.
type Grid struct {
	cellSize  float32
	lower     geom.Vec3
	positions []geom.Vec3
	cells     map[Cell][]meshpoint.ID
}

// Build constructs a Grid over positions with cell side 2*radius. It fails
// with an error wrapping InvalidInput if radius is non-positive, positions
// is empty, any position is non-finite, or two distinct positions coincide
// exactly (the caller is responsible for deduplicating its input cloud).
func Build(positions []r3.Vector, radius float32) (*Grid, error) {
	if radius <= 0 {
		return nil, errors.Wrapf(ErrInvalidInput, "radius must be positive, got %v", radius)
	}
	if len(positions) == 0 {
		return nil, errors.Wrap(ErrInvalidInput, "no points to index")
	}

	vecs := make([]geom.Vec3, len(positions))
	lower := geom.FromR3(positions[0])
	for i, p := range positions {
		v := geom.FromR3(p)
		if !v.IsFinite() {
			return nil, errors.Wrapf(ErrInvalidInput, "point %d has a non-finite position", i)
		}
		vecs[i] = v
		lower = componentMin(lower, v)
	}

	g := &Grid{
		cellSize:  2 * radius,
		lower:     lower,
		positions: vecs,
		cells:     make(map[Cell][]meshpoint.ID, len(positions)),
	}

	seen := make(map[geom.Vec3]meshpoint.ID, len(positions))
	for i, v := range vecs {
		if dup, ok := seen[v]; ok {
			return nil, errors.Wrapf(ErrInvalidInput, "points %d and %d coincide", dup, i)
		}
		seen[v] = meshpoint.ID(i)

		cell := g.cellOf(v)
		g.cells[cell] = append(g.cells[cell], meshpoint.ID(i))
	}
	return g, nil
}

func componentMin(a, b geom.Vec3) geom.Vec3 {
	return geom.Vec3{X: min32(a.X, b.X), Y: min32(a.Y, b.Y), Z: min32(a.Z, b.Z)}
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func (g *Grid) cellOf(v geom.Vec3) Cell {
	return Cell{
		I: floorDiv(v.X-g.lower.X, g.cellSize),
		J: floorDiv(v.Y-g.lower.Y, g.cellSize),
		K: floorDiv(v.Z-g.lower.Z, g.cellSize),
	}
}

func floorDiv(x, cellSize float32) int32 {
	return int32(math.Floor(float64(x / cellSize)))
}

// Position returns the indexed position of id.
func (g *Grid) Position(id meshpoint.ID) r3.Vector {
	return g.positions[id].R3()
}

// SphericalNeighbors returns, in unspecified order, the identities of every
// indexed point within radius of center (inclusive). It correctly answers
// any query with radius <= cellSize (the grid's own 2*rho cell side);
// larger radii are answered correctly too, at a cost linear in the number
// of cells the query sphere's bounding box overlaps.
func (g *Grid) SphericalNeighbors(center geom.Vec3, radius float32) []meshpoint.ID {
	reach := int32(math.Ceil(float64(radius/g.cellSize))) + 1
	centerCell := g.cellOf(center)
	r2 := radius * radius

	var result []meshpoint.ID
	for di := -reach; di <= reach; di++ {
		for dj := -reach; dj <= reach; dj++ {
			for dk := -reach; dk <= reach; dk++ {
				cell := Cell{centerCell.I + di, centerCell.J + dj, centerCell.K + dk}
				ids, ok := g.cells[cell]
				if !ok {
					continue
				}
				for _, id := range ids {
					if g.positions[id].Sub(center).Norm2() <= r2 {
						result = append(result, id)
					}
				}
			}
		}
	}
	return result
}
