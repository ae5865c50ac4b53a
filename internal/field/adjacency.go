package field

import (
	"context"

	"github.com/osse101/Critterfield_Go/internal/repository"
	"github.com/osse101/Critterfield_Go/internal/utils"
)

// Resolver picks where a spawned creature lands around the consumable that attracted it
type Resolver struct {
	grid      Grid
	occupancy *Occupancy
	rng       *utils.Rand
}

// NewResolver creates a Resolver over grid reading occupancy from r
func NewResolver(grid Grid, r repository.CellReader, rng *utils.Rand) *Resolver {
	return &Resolver{grid: grid, occupancy: NewOccupancy(r), rng: rng}
}

// Using returns a copy of the resolver that reads through r, typically a transaction
func (res *Resolver) Using(r repository.CellReader) *Resolver {
	return &Resolver{grid: res.grid, occupancy: NewOccupancy(r), rng: res.rng}
}

// FreeNeighbors returns the unoccupied Moore neighbours of origin
func (res *Resolver) FreeNeighbors(ctx context.Context, ownerID string, origin int) ([]int, error) {
	neighbors := res.grid.Neighbors(origin)
	if len(neighbors) == 0 {
		return nil, nil
	}
	occupied, err := res.occupancy.OccupiedCells(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	free := neighbors[:0]
	for _, n := range neighbors {
		if _, taken := occupied[n]; !taken {
			free = append(free, n)
		}
	}
	return free, nil
}

// PickSpawnCell chooses one free neighbour of origin uniformly at random.
// ok is false when every neighbour is taken; a full field is not an error.
func (res *Resolver) PickSpawnCell(ctx context.Context, ownerID string, origin int) (cell int, ok bool, err error) {
	free, err := res.FreeNeighbors(ctx, ownerID, origin)
	if err != nil {
		return 0, false, err
	}
	if len(free) == 0 {
		return 0, false, nil
	}
	return free[res.rng.Intn(len(free))], true, nil
}
