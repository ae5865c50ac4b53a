package config

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/osse101/Critterfield_Go/internal/domain"
)

// TierConfig declares one rarity tier. Tiers are listed from most common to rarest.
type TierConfig struct {
	Name               string         `yaml:"name"`
	Weight             int            `yaml:"weight"`
	CreatureIDs        domain.IDRange `yaml:"creature_ids"`
	SeedIDs            domain.IDRange `yaml:"seed_ids"`
	MaturationWindowMs int64          `yaml:"maturation_window_ms"`
	IncomeStartPerHour float64        `yaml:"income_start_per_hour"`
	IncomeFloorPerHour float64        `yaml:"income_floor_per_hour"`
	SellValue          int64          `yaml:"sell_value"`
}

// MaturationWindow returns the tier's countdown length
func (t TierConfig) MaturationWindow() time.Duration {
	return time.Duration(t.MaturationWindowMs) * time.Millisecond
}

// SweepIntervals holds the cadence of each periodic sweep in milliseconds
type SweepIntervals struct {
	Spawn   int64 `yaml:"spawn"`
	Income  int64 `yaml:"income"`
	Despawn int64 `yaml:"despawn"`
}

// HarvestShift holds the probabilities of a harvest reward moving one tier
type HarvestShift struct {
	Up   float64 `yaml:"up"`
	Down float64 `yaml:"down"`
}

// Grid is the size of every owner's field
type Grid struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Economy is the static tuning of the spawn and decay economy.
// It is loaded once at startup and passed by pointer; nothing mutates it afterwards.
type Economy struct {
	Tiers                []TierConfig   `yaml:"tiers"`
	IDSpace              domain.IDRange `yaml:"id_space"`
	DecayWindowMs        int64          `yaml:"decay_window_ms"`
	SweepIntervalMs      SweepIntervals `yaml:"sweep_interval_ms"`
	SpawnCountRange      []int          `yaml:"spawn_count_range"`
	SpawnDelayRangeMs    []int64        `yaml:"spawn_delay_range_ms"`
	ConsumableLifetimeMs int64          `yaml:"consumable_lifetime_ms"`
	CreatureLifetimeMs   int64          `yaml:"creature_lifetime_ms"`
	HarvestShift         HarvestShift   `yaml:"harvest_shift"`
	LikeDiscountMs       int64          `yaml:"like_discount_ms"`
	Grid                 Grid           `yaml:"grid"`
	ExhibitSlots         int            `yaml:"exhibit_slots"`
	SweepParallelism     int            `yaml:"sweep_parallelism"`
}

// DecayWindow is the window over which income rates fall to their floor
func (e *Economy) DecayWindow() time.Duration {
	return ms(e.DecayWindowMs)
}

// SpawnInterval is the spawn sweep cadence
func (e *Economy) SpawnInterval() time.Duration {
	return ms(e.SweepIntervalMs.Spawn)
}

// IncomeInterval is the income/countdown sweep cadence
func (e *Economy) IncomeInterval() time.Duration {
	return ms(e.SweepIntervalMs.Income)
}

// DespawnInterval is the despawn sweep cadence
func (e *Economy) DespawnInterval() time.Duration {
	return ms(e.SweepIntervalMs.Despawn)
}

// SpawnCountBounds returns the inclusive bounds maxSpawns is drawn from
func (e *Economy) SpawnCountBounds() (min, max int) {
	return e.SpawnCountRange[0], e.SpawnCountRange[1]
}

// SpawnDelayBounds returns the inclusive bounds of the delay between spawns
func (e *Economy) SpawnDelayBounds() (min, max time.Duration) {
	return ms(e.SpawnDelayRangeMs[0]), ms(e.SpawnDelayRangeMs[1])
}

// ConsumableLifetime is how long a placed consumable stays active
func (e *Economy) ConsumableLifetime() time.Duration {
	return ms(e.ConsumableLifetimeMs)
}

// CreatureLifetime is how long a wild creature waits on the field. Zero means forever.
func (e *Economy) CreatureLifetime() time.Duration {
	return ms(e.CreatureLifetimeMs)
}

// LikeDiscount is the countdown credit granted per like
func (e *Economy) LikeDiscount() time.Duration {
	return ms(e.LikeDiscountMs)
}

// Cells returns the number of cells in a field
func (e *Economy) Cells() int {
	return e.Grid.Width * e.Grid.Height
}

func ms(v int64) time.Duration {
	return time.Duration(v) * time.Millisecond
}

// LoadEconomy reads and validates the economy file at path
func LoadEconomy(path string) (*Economy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read economy config %s: %w", path, err)
	}
	econ, err := ParseEconomy(data)
	if err != nil {
		return nil, fmt.Errorf("economy config %s: %w", path, err)
	}
	return econ, nil
}

// ParseEconomy validates YAML bytes against the embedded schema and decodes them.
// Cross-field rules the schema cannot express are checked afterwards.
func ParseEconomy(data []byte) (*Economy, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := newSchemaValidator().validateDocument(doc, SchemaEconomy); err != nil {
		return nil, err
	}

	var econ Economy
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&econ); err != nil {
		return nil, fmt.Errorf("failed to decode economy config: %w", err)
	}

	if err := econ.validate(); err != nil {
		return nil, err
	}
	return &econ, nil
}

func (e *Economy) validate() error {
	if e.IDSpace.Min > e.IDSpace.Max {
		return fmt.Errorf("id_space: min %d is greater than max %d", e.IDSpace.Min, e.IDSpace.Max)
	}
	if lo, hi := e.SpawnCountBounds(); lo > hi {
		return fmt.Errorf("spawn_count_range: %d is greater than %d", lo, hi)
	}
	if lo, hi := e.SpawnDelayBounds(); lo > hi {
		return fmt.Errorf("spawn_delay_range_ms: %s is greater than %s", lo, hi)
	}
	if e.HarvestShift.Up+e.HarvestShift.Down > 1 {
		return fmt.Errorf("harvest_shift: up + down must not exceed 1")
	}
	for i, t := range e.Tiers {
		if t.CreatureIDs.Min > t.CreatureIDs.Max || t.SeedIDs.Min > t.SeedIDs.Max {
			return fmt.Errorf("tiers[%d] %s: id range min is greater than max", i, t.Name)
		}
		if t.IncomeFloorPerHour > t.IncomeStartPerHour {
			return fmt.Errorf("tiers[%d] %s: income floor exceeds income start", i, t.Name)
		}
	}
	return nil
}
