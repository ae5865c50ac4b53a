// Package economytest provides an in-memory economy matching configs/economy.yaml
// so package tests do not depend on the working directory.
package economytest

import (
	"github.com/osse101/Critterfield_Go/internal/config"
	"github.com/osse101/Critterfield_Go/internal/domain"
)

// Tier ordinals of Economy()
const (
	Common domain.Rarity = iota
	Uncommon
	Rare
	Epic
	Legendary
)

const (
	hourMs = int64(60 * 60 * 1000)
	minMs  = int64(60 * 1000)
)

// Economy returns a fresh copy of the default tuning
func Economy() *config.Economy {
	return &config.Economy{
		IDSpace: domain.IDRange{Min: 1, Max: 1000},
		Tiers: []config.TierConfig{
			tier("common", 50, 1, 501, 24, 10, 1, 50),
			tier("uncommon", 25, 101, 601, 36, 25, 3, 120),
			tier("rare", 15, 201, 701, 48, 100, 10, 400),
			tier("epic", 7, 301, 801, 60, 250, 25, 1000),
			tier("legendary", 3, 401, 901, 72, 600, 60, 2500),
		},
		DecayWindowMs: 72 * hourMs,
		SweepIntervalMs: config.SweepIntervals{
			Spawn:   minMs,
			Income:  minMs,
			Despawn: 5 * minMs,
		},
		SpawnCountRange:      []int{2, 4},
		SpawnDelayRangeMs:    []int64{minMs, 5 * minMs},
		ConsumableLifetimeMs: 72 * hourMs,
		CreatureLifetimeMs:   24 * hourMs,
		HarvestShift:         config.HarvestShift{Up: 0.15, Down: 0.30},
		LikeDiscountMs:       minMs,
		Grid:                 config.Grid{Width: 8, Height: 8},
		ExhibitSlots:         6,
		SweepParallelism:     4,
	}
}

func tier(name string, weight int, creatureMin, seedMin int64, maturationHours int64, start, floor float64, sell int64) config.TierConfig {
	return config.TierConfig{
		Name:               name,
		Weight:             weight,
		CreatureIDs:        domain.IDRange{Min: creatureMin, Max: creatureMin + 99},
		SeedIDs:            domain.IDRange{Min: seedMin, Max: seedMin + 99},
		MaturationWindowMs: maturationHours * hourMs,
		IncomeStartPerHour: start,
		IncomeFloorPerHour: floor,
		SellValue:          sell,
	}
}
