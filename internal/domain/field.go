package domain

import (
	"encoding/json"
	"time"
)

// CreatureLocation tells where a creature currently lives
type CreatureLocation string

const (
	// LocationField is a wild creature sitting on a grid cell, waiting to be collected
	LocationField CreatureLocation = "field"
	// LocationExhibit is an owned creature on display, earning income and maturing
	LocationExhibit CreatureLocation = "exhibit"
)

// FixtureKind is a placed-object category managed outside the spawn economy
type FixtureKind string

const (
	FixturePlant      FixtureKind = "plant"
	FixtureDecoration FixtureKind = "decoration"
)

// PlacedConsumable is a seed placed on a field cell that attracts creatures until it
// is exhausted or expires.
type PlacedConsumable struct {
	ID          int64     `json:"id"`
	OwnerID     string    `json:"owner_id"`
	FieldIndex  int       `json:"field_index"`
	AssetID     int64     `json:"asset_id"`
	Rarity      Rarity    `json:"rarity"`
	PlacedAt    time.Time `json:"placed_at"`
	ExpiresAt   time.Time `json:"expires_at"`
	NextSpawnAt time.Time `json:"next_spawn_at"`
	SpawnCount  int       `json:"spawn_count"`
	MaxSpawns   int       `json:"max_spawns"`
	Exhausted   bool      `json:"exhausted"`
}

// IsExpired reports whether the consumable's lifetime has run out
func (c *PlacedConsumable) IsExpired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// IsExhausted reports whether the consumable has produced all of its spawns
func (c *PlacedConsumable) IsExhausted() bool {
	return c.Exhausted || c.SpawnCount >= c.MaxSpawns
}

// IsHarvestable reports whether the consumable reached one of its terminal states
func (c *PlacedConsumable) IsHarvestable(now time.Time) bool {
	return c.IsExpired(now) || c.IsExhausted()
}

// SpawnedCreature is a collectible creature, either wild on the field or exhibited
type SpawnedCreature struct {
	ID                 int64            `json:"id"`
	OwnerID            string           `json:"owner_id"`
	Location           CreatureLocation `json:"location"`
	Slot               int              `json:"slot"`
	Rarity             Rarity           `json:"rarity"`
	AssetID            int64            `json:"asset_id"`
	SourceConsumableID *int64           `json:"source_consumable_id,omitempty"`
	PlacedAt           time.Time        `json:"placed_at"`
	DespawnAt          *time.Time       `json:"despawn_at,omitempty"`
	Discount           time.Duration    `json:"-"` // encoded as "discount_ms"
	MaturedAt          *time.Time       `json:"matured_at,omitempty"`
}

type spawnedCreatureAlias SpawnedCreature

type spawnedCreatureJSON struct {
	spawnedCreatureAlias
	DiscountMs int64 `json:"discount_ms"`
}

// MarshalJSON implements json.Marshaler, writing the discount in milliseconds
func (c SpawnedCreature) MarshalJSON() ([]byte, error) {
	return json.Marshal(spawnedCreatureJSON{
		spawnedCreatureAlias: spawnedCreatureAlias(c),
		DiscountMs:           c.Discount.Milliseconds(),
	})
}

// UnmarshalJSON implements json.Unmarshaler
func (c *SpawnedCreature) UnmarshalJSON(data []byte) error {
	var raw spawnedCreatureJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = SpawnedCreature(raw.spawnedCreatureAlias)
	c.Discount = time.Duration(raw.DiscountMs) * time.Millisecond
	return nil
}

// FieldFixture is any other object occupying a field cell (plants, decorations)
type FieldFixture struct {
	ID         int64       `json:"id"`
	OwnerID    string      `json:"owner_id"`
	FieldIndex int         `json:"field_index"`
	Kind       FixtureKind `json:"kind"`
	PlacedAt   time.Time   `json:"placed_at"`
}
