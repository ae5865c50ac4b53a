package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSellStatus_JSONRemainingInMilliseconds(t *testing.T) {
	status := SellStatus{CreatureID: 7, CanSell: false, Remaining: 90 * time.Second}

	data, err := json.Marshal(status)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, float64(90000), raw["remaining_ms"])
	assert.Equal(t, float64(7), raw["creature_id"])
	assert.Equal(t, false, raw["can_sell"])

	var decoded SellStatus
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, status, decoded)
}

func TestSpawnedCreature_JSONDiscountInMilliseconds(t *testing.T) {
	placed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	creature := SpawnedCreature{
		ID:       3,
		OwnerID:  "owner-1",
		Location: LocationField,
		Slot:     4,
		Rarity:   Rarity(2),
		AssetID:  11,
		PlacedAt: placed,
		Discount: 1500 * time.Millisecond,
	}

	data, err := json.Marshal(creature)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, float64(1500), raw["discount_ms"])
	assert.NotContains(t, raw, "discount")
	assert.Equal(t, "owner-1", raw["owner_id"])
	assert.Equal(t, float64(4), raw["slot"])

	var decoded SpawnedCreature
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, creature, decoded)
}

func TestSweepReport_JSONDurationInMilliseconds(t *testing.T) {
	report := SweepReport{
		Sweep:     SweepIncome,
		StartedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Duration:  250 * time.Millisecond,
		Scanned:   4,
		Applied:   3,
		Failed:    1,
	}

	data, err := json.Marshal(report)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, float64(250), raw["duration_ms"])
	assert.Equal(t, SweepIncome, raw["sweep"])
	assert.Equal(t, float64(3), raw["applied"])

	var decoded SweepReport
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, report, decoded)
}
