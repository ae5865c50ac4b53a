package spawn

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/Critterfield_Go/internal/domain"
	"github.com/osse101/Critterfield_Go/internal/rarity"
	"github.com/osse101/Critterfield_Go/internal/testing/economytest"
	"github.com/osse101/Critterfield_Go/internal/utils"
)

func newPlanner(t *testing.T, seed int64) (*Planner, *rarity.Table) {
	t.Helper()
	econ := economytest.Economy()
	rng := utils.NewRand(seed)
	table, err := rarity.NewTable(econ, rng)
	require.NoError(t, err)
	return NewPlanner(econ, table, rng), table
}

func TestPlanner_Plan(t *testing.T) {
	p, _ := newPlanner(t, 1)
	counts := map[int]int{}

	for i := 0; i < 500; i++ {
		c := p.Plan("owner", 10, 905, baseTime)

		assert.Equal(t, economytest.Legendary, c.Rarity)
		assert.Equal(t, baseTime.Add(72*time.Hour), c.ExpiresAt)
		delay := c.NextSpawnAt.Sub(baseTime)
		assert.GreaterOrEqual(t, delay, time.Minute)
		assert.LessOrEqual(t, delay, 5*time.Minute)
		assert.Zero(t, delay%time.Second)
		counts[c.MaxSpawns]++
	}

	assert.Len(t, counts, 3, "2, 3 and 4 are all drawn")
	for n := range counts {
		assert.GreaterOrEqual(t, n, 2)
		assert.LessOrEqual(t, n, 4)
	}
}

func TestPlanner_HarvestRequiresTerminalState(t *testing.T) {
	p, _ := newPlanner(t, 2)
	c := &domain.PlacedConsumable{
		ID: 1, Rarity: economytest.Rare, PlacedAt: baseTime,
		ExpiresAt: baseTime.Add(time.Hour), SpawnCount: 1, MaxSpawns: 3,
	}

	_, err := p.Harvest(c, baseTime.Add(time.Minute))
	reason, ok := domain.ConflictReasonOf(err)
	require.True(t, ok)
	assert.Equal(t, domain.ReasonNotHarvestable, reason)

	res, err := p.Harvest(c, baseTime.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, res.RewardQuantity)
	assert.Equal(t, economytest.Rare, res.SourceRarity)
}

func TestPlanner_HarvestRewardIsSeedOfShiftedTier(t *testing.T) {
	p, table := newPlanner(t, 3)
	c := &domain.PlacedConsumable{ID: 1, Rarity: economytest.Rare, SpawnCount: 3, MaxSpawns: 3, Exhausted: true}
	seen := map[domain.Rarity]int{}

	for i := 0; i < 2000; i++ {
		res, err := p.Harvest(c, baseTime)
		require.NoError(t, err)
		seen[res.RewardRarity]++
		assert.Equal(t, domain.AssetKindSeed, table.Kind(res.RewardAssetID))
		assert.Equal(t, res.RewardRarity, table.Classify(res.RewardAssetID).Rarity)
	}

	assert.Len(t, seen, 3)
	assert.Greater(t, seen[economytest.Rare], seen[economytest.Epic])
	assert.Zero(t, seen[economytest.Common])
}

func TestPlanner_CreatureWithoutLifetime(t *testing.T) {
	econ := economytest.Economy()
	econ.CreatureLifetimeMs = 0
	rng := utils.NewRand(4)
	table, err := rarity.NewTable(econ, rng)
	require.NoError(t, err)
	p := NewPlanner(econ, table, rng)

	cr := p.Creature(&domain.PlacedConsumable{ID: 9, OwnerID: "o", Rarity: economytest.Epic}, 3, baseTime)

	assert.Nil(t, cr.DespawnAt)
	assert.Equal(t, domain.LocationField, cr.Location)
	assert.Equal(t, 3, cr.Slot)
	assert.True(t, table.Tier(economytest.Epic).CreatureIDs.Contains(cr.AssetID))
}
