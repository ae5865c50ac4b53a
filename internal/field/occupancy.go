package field

import (
	"context"
	"fmt"

	"github.com/osse101/Critterfield_Go/internal/repository"
)

// Occupancy answers which cells of an owner's field are in use. It never caches:
// every call reads through the bound CellReader, which may be an open transaction.
type Occupancy struct {
	reader repository.CellReader
}

// NewOccupancy creates an Occupancy reading from r
func NewOccupancy(r repository.CellReader) *Occupancy {
	return &Occupancy{reader: r}
}

// OccupiedCells unions the cells held by consumables, wild creatures and fixtures
func (o *Occupancy) OccupiedCells(ctx context.Context, ownerID string) (map[int]struct{}, error) {
	sources := []struct {
		name string
		list func(context.Context, string) ([]int, error)
	}{
		{"consumables", o.reader.ConsumableCells},
		{"creatures", o.reader.FieldCreatureCells},
		{"fixtures", o.reader.FixtureCells},
	}

	occupied := make(map[int]struct{})
	for _, src := range sources {
		cells, err := src.list(ctx, ownerID)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s cells: %w", src.name, err)
		}
		for _, c := range cells {
			occupied[c] = struct{}{}
		}
	}
	return occupied, nil
}

// IsFree reports whether no object of any category holds the cell
func (o *Occupancy) IsFree(ctx context.Context, ownerID string, index int) (bool, error) {
	occupied, err := o.OccupiedCells(ctx, ownerID)
	if err != nil {
		return false, err
	}
	_, taken := occupied[index]
	return !taken, nil
}
