package rarity

import (
	"fmt"
	"sort"
	"time"

	"github.com/osse101/Critterfield_Go/internal/config"
	"github.com/osse101/Critterfield_Go/internal/domain"
	"github.com/osse101/Critterfield_Go/internal/utils"
)

// Tier is one rarity bucket: a sampling weight, the asset ids it owns and the
// curve parameters creatures of this tier follow.
type Tier struct {
	Rarity             domain.Rarity
	Name               string
	Weight             int
	CreatureIDs        domain.IDRange
	SeedIDs            domain.IDRange
	MaturationWindow   time.Duration
	IncomeStartPerHour float64
	IncomeFloorPerHour float64
	SellValue          int64
}

// span is one id range in the classification index
type span struct {
	ids    domain.IDRange
	rarity domain.Rarity
	kind   domain.AssetKind
}

// Table classifies and samples asset ids. It is immutable after NewTable.
type Table struct {
	tiers       []Tier
	spans       []span // sorted by ids.Min
	cumulative  []int
	totalWeight int
	shiftUp     float64
	shiftDown   float64
	rng         *utils.Rand
}

// NewTable builds the table from the economy config. Every creature and seed range
// must be disjoint from every other, and together they must tile the id space.
func NewTable(econ *config.Economy, rng *utils.Rand) (*Table, error) {
	if len(econ.Tiers) == 0 {
		return nil, fmt.Errorf("rarity table needs at least one tier")
	}

	t := &Table{
		tiers:     make([]Tier, 0, len(econ.Tiers)),
		shiftUp:   econ.HarvestShift.Up,
		shiftDown: econ.HarvestShift.Down,
		rng:       rng,
	}

	for i, tc := range econ.Tiers {
		if tc.Weight <= 0 {
			return nil, fmt.Errorf("tier %s: weight must be positive, got %d", tc.Name, tc.Weight)
		}
		tier := Tier{
			Rarity:             domain.Rarity(i),
			Name:               tc.Name,
			Weight:             tc.Weight,
			CreatureIDs:        tc.CreatureIDs,
			SeedIDs:            tc.SeedIDs,
			MaturationWindow:   tc.MaturationWindow(),
			IncomeStartPerHour: tc.IncomeStartPerHour,
			IncomeFloorPerHour: tc.IncomeFloorPerHour,
			SellValue:          tc.SellValue,
		}
		t.tiers = append(t.tiers, tier)
		t.totalWeight += tc.Weight
		t.cumulative = append(t.cumulative, t.totalWeight)
		t.spans = append(t.spans,
			span{ids: tc.CreatureIDs, rarity: tier.Rarity, kind: domain.AssetKindCreature},
			span{ids: tc.SeedIDs, rarity: tier.Rarity, kind: domain.AssetKindSeed},
		)
	}

	sort.Slice(t.spans, func(i, j int) bool { return t.spans[i].ids.Min < t.spans[j].ids.Min })

	if err := checkTiling(t.spans, econ.IDSpace); err != nil {
		return nil, err
	}
	return t, nil
}

func checkTiling(spans []span, space domain.IDRange) error {
	for i, s := range spans {
		if s.ids.Size() == 0 {
			return fmt.Errorf("%s range [%d,%d] of rarity %d is empty", s.kind, s.ids.Min, s.ids.Max, s.rarity)
		}
		if i == 0 {
			if s.ids.Min != space.Min {
				return fmt.Errorf("id space starts at %d but the first range starts at %d", space.Min, s.ids.Min)
			}
			continue
		}
		prev := spans[i-1]
		if prev.ids.Overlaps(s.ids) {
			return fmt.Errorf("ranges [%d,%d] and [%d,%d] overlap", prev.ids.Min, prev.ids.Max, s.ids.Min, s.ids.Max)
		}
		if s.ids.Min != prev.ids.Max+1 {
			return fmt.Errorf("ids %d..%d are not covered by any tier", prev.ids.Max+1, s.ids.Min-1)
		}
	}
	if last := spans[len(spans)-1]; last.ids.Max != space.Max {
		return fmt.Errorf("id space ends at %d but the last range ends at %d", space.Max, last.ids.Max)
	}
	return nil
}

// lookup finds the span containing id
func (t *Table) lookup(id int64) (span, bool) {
	i := sort.Search(len(t.spans), func(i int) bool { return t.spans[i].ids.Max >= id })
	if i < len(t.spans) && t.spans[i].ids.Contains(id) {
		return t.spans[i], true
	}
	return span{}, false
}

// Classify returns the tier that owns assetID. Ids outside every range resolve to
// the lowest tier.
func (t *Table) Classify(assetID int64) Tier {
	if s, ok := t.lookup(assetID); ok {
		return t.tiers[s.rarity]
	}
	return t.tiers[0]
}

// Kind tells whether assetID is a creature, a seed, or unknown
func (t *Table) Kind(assetID int64) domain.AssetKind {
	if s, ok := t.lookup(assetID); ok {
		return s.kind
	}
	return domain.AssetKindUnknown
}

// SampleTier draws a tier with probability proportional to its weight
func (t *Table) SampleTier() Tier {
	r := t.rng.Intn(t.totalWeight)
	for i, c := range t.cumulative {
		if r < c {
			return t.tiers[i]
		}
	}
	return t.tiers[len(t.tiers)-1]
}

// SampleAssetID draws a creature id uniformly from the tier's creature range
func (t *Table) SampleAssetID(tier Tier) int64 {
	return t.rng.Int64Range(tier.CreatureIDs.Min, tier.CreatureIDs.Max)
}

// SampleSeedID draws a seed id uniformly from the tier's seed range
func (t *Table) SampleSeedID(tier Tier) int64 {
	return t.rng.Int64Range(tier.SeedIDs.Min, tier.SeedIDs.Max)
}

// ShiftHarvest rolls the rarity of a harvest reward: one tier up, one tier down,
// or unchanged, clamped to the table.
func (t *Table) ShiftHarvest(tier Tier) Tier {
	roll := t.rng.Float64()
	idx := int(tier.Rarity)
	switch {
	case roll < t.shiftUp:
		idx++
	case roll < t.shiftUp+t.shiftDown:
		idx--
	}
	return t.tiers[clamp(idx, 0, len(t.tiers)-1)]
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Tier returns the tier for a rarity ordinal, clamped to the table
func (t *Table) Tier(r domain.Rarity) Tier {
	return t.tiers[clamp(int(r), 0, len(t.tiers)-1)]
}

// Tiers returns a copy of all tiers, most common first
func (t *Table) Tiers() []Tier {
	out := make([]Tier, len(t.tiers))
	copy(out, t.tiers)
	return out
}

// Lowest returns the most common tier
func (t *Table) Lowest() Tier {
	return t.tiers[0]
}
