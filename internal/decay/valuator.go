package decay

import (
	"time"

	"github.com/osse101/Critterfield_Go/internal/domain"
	"github.com/osse101/Critterfield_Go/internal/rarity"
)

// Valuator binds the curves to rarity-specific parameters
type Valuator struct {
	table  *rarity.Table
	window time.Duration
}

// NewValuator creates a Valuator. window is the income decay window shared by all tiers.
func NewValuator(table *rarity.Table, window time.Duration) *Valuator {
	return &Valuator{table: table, window: window}
}

// IncomeRate is the creature's current hourly income, decaying with time on display
func (v *Valuator) IncomeRate(c *domain.SpawnedCreature, now time.Time) float64 {
	if c.Location != domain.LocationExhibit {
		return 0
	}
	tier := v.table.Tier(c.Rarity)
	return LinearValue(tier.IncomeStartPerHour, tier.IncomeFloorPerHour, v.window, now.Sub(c.PlacedAt))
}

// HourlyRate sums IncomeRate over an owner's creatures
func (v *Valuator) HourlyRate(creatures []domain.SpawnedCreature, now time.Time) float64 {
	var total float64
	for i := range creatures {
		total += v.IncomeRate(&creatures[i], now)
	}
	return total
}

// Remaining is the creature's maturation countdown
func (v *Valuator) Remaining(c *domain.SpawnedCreature, now time.Time) time.Duration {
	if c.MaturedAt != nil {
		return 0
	}
	tier := v.table.Tier(c.Rarity)
	return Remaining(tier.MaturationWindow, now.Sub(c.PlacedAt), c.Discount)
}

// SellStatus reports whether an exhibited creature can be sold
func (v *Valuator) SellStatus(c *domain.SpawnedCreature, now time.Time) domain.SellStatus {
	if c.Location != domain.LocationExhibit {
		tier := v.table.Tier(c.Rarity)
		return domain.SellStatus{CreatureID: c.ID, CanSell: false, Remaining: tier.MaturationWindow}
	}
	if c.MaturedAt != nil {
		return domain.SellStatus{CreatureID: c.ID, CanSell: true}
	}
	tier := v.table.Tier(c.Rarity)
	elapsed := now.Sub(c.PlacedAt)
	return domain.SellStatus{
		CreatureID: c.ID,
		CanSell:    Matured(tier.MaturationWindow, elapsed, c.Discount),
		Remaining:  Remaining(tier.MaturationWindow, elapsed, c.Discount),
	}
}

// SellValue is what a matured creature sells for
func (v *Valuator) SellValue(c *domain.SpawnedCreature) int64 {
	return v.table.Tier(c.Rarity).SellValue
}
