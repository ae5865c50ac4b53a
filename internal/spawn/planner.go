package spawn

import (
	"fmt"
	"time"

	"github.com/osse101/Critterfield_Go/internal/config"
	"github.com/osse101/Critterfield_Go/internal/domain"
	"github.com/osse101/Critterfield_Go/internal/rarity"
	"github.com/osse101/Critterfield_Go/internal/utils"
)

// Planner draws the randomised parts of a consumable's life: its spawn budget and
// first spawn time at placement, and its seed reward at harvest.
type Planner struct {
	econ  *config.Economy
	table *rarity.Table
	rng   *utils.Rand
}

// NewPlanner creates a Planner
func NewPlanner(econ *config.Economy, table *rarity.Table, rng *utils.Rand) *Planner {
	return &Planner{econ: econ, table: table, rng: rng}
}

// Plan builds the consumable placed by seedID at fieldIndex. maxSpawns is drawn once
// from the spawn count range, independent of rarity.
func (p *Planner) Plan(ownerID string, fieldIndex int, seedID int64, now time.Time) *domain.PlacedConsumable {
	countMin, countMax := p.econ.SpawnCountBounds()
	return &domain.PlacedConsumable{
		OwnerID:     ownerID,
		FieldIndex:  fieldIndex,
		AssetID:     seedID,
		Rarity:      p.table.Classify(seedID).Rarity,
		PlacedAt:    now,
		ExpiresAt:   now.Add(p.econ.ConsumableLifetime()),
		NextSpawnAt: now.Add(p.NextDelay()),
		MaxSpawns:   p.rng.IntRange(countMin, countMax),
	}
}

// NextDelay draws the wait before the next spawn in whole seconds
func (p *Planner) NextDelay() time.Duration {
	lo, hi := p.econ.SpawnDelayBounds()
	return p.rng.DurationRange(lo, hi, time.Second)
}

// Creature builds the wild creature c attracts onto cell
func (p *Planner) Creature(c *domain.PlacedConsumable, cell int, now time.Time) *domain.SpawnedCreature {
	tier := p.table.Tier(c.Rarity)
	source := c.ID
	creature := &domain.SpawnedCreature{
		OwnerID:            c.OwnerID,
		Location:           domain.LocationField,
		Slot:               cell,
		Rarity:             tier.Rarity,
		AssetID:            p.table.SampleAssetID(tier),
		SourceConsumableID: &source,
		PlacedAt:           now,
	}
	if lifetime := p.econ.CreatureLifetime(); lifetime > 0 {
		despawnAt := now.Add(lifetime)
		creature.DespawnAt = &despawnAt
	}
	return creature
}

// Harvest computes the one seed returned by an expired or exhausted consumable.
// The reward tier may shift one step up or down from the consumable's own.
func (p *Planner) Harvest(c *domain.PlacedConsumable, now time.Time) (*domain.HarvestResult, error) {
	if !c.IsHarvestable(now) {
		return nil, domain.NewConflictError(domain.ReasonNotHarvestable,
			fmt.Sprintf("%d of %d spawns, expires %s", c.SpawnCount, c.MaxSpawns, c.ExpiresAt.Format(time.RFC3339)))
	}
	reward := p.table.ShiftHarvest(p.table.Tier(c.Rarity))
	return &domain.HarvestResult{
		ConsumableID:   c.ID,
		SourceRarity:   c.Rarity,
		RewardRarity:   reward.Rarity,
		RewardAssetID:  p.table.SampleSeedID(reward),
		RewardQuantity: 1,
		SpawnCount:     c.SpawnCount,
	}, nil
}
