package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/osse101/Critterfield_Go/internal/domain"
)

// Type represents the type of an event
type Type string

// Metadata defines the type for event metadata
type Metadata interface{}

// Event represents a generic event in the system
type Event struct {
	Version  string      `json:"version"` // Event schema version (e.g., "1.0")
	Type     Type        `json:"type"`
	Payload  interface{} `json:"payload"`
	Metadata Metadata    `json:"metadata"`
}

// GetMetadataValue extracts a value from the event metadata safely
func (e Event) GetMetadataValue(key string) interface{} {
	if m, ok := e.Metadata.(map[string]interface{}); ok {
		return m[key]
	}
	return nil
}

// Economy event types
const (
	ConsumablePlaced    Type = domain.EventTypeConsumablePlaced
	ConsumableHarvested Type = domain.EventTypeConsumableHarvested
	CreatureSpawned     Type = domain.EventTypeCreatureSpawned
	CreatureCollected   Type = domain.EventTypeCreatureCollected
	CreatureExhibited   Type = domain.EventTypeCreatureExhibited
	CreatureLiked       Type = domain.EventTypeCreatureLiked
	CreatureMatured     Type = domain.EventTypeCreatureMatured
	CreatureSold        Type = domain.EventTypeCreatureSold
	CreaturesDespawned  Type = domain.EventTypeCreaturesDespawned
	IncomeCredited      Type = domain.EventTypeIncomeCredited
	SweepCompleted      Type = domain.EventTypeSweepCompleted
)

// EconomyTypes lists every type the economy publishes, for subscribers that want all of them
var EconomyTypes = []Type{
	ConsumablePlaced,
	ConsumableHarvested,
	CreatureSpawned,
	CreatureCollected,
	CreatureExhibited,
	CreatureLiked,
	CreatureMatured,
	CreatureSold,
	CreaturesDespawned,
	IncomeCredited,
	SweepCompleted,
}

// Typed event payloads for type safety

// ConsumablePlacedPayloadV1 is the typed payload for placement events
type ConsumablePlacedPayloadV1 struct {
	OwnerID      string        `json:"owner_id"`
	ConsumableID int64         `json:"consumable_id"`
	FieldIndex   int           `json:"field_index"`
	AssetID      int64         `json:"asset_id"`
	Rarity       domain.Rarity `json:"rarity"`
	MaxSpawns    int           `json:"max_spawns"`
	Timestamp    time.Time     `json:"timestamp"`
}

// ConsumableHarvestedPayloadV1 is the typed payload for harvest events
type ConsumableHarvestedPayloadV1 struct {
	OwnerID   string               `json:"owner_id"`
	Result    domain.HarvestResult `json:"result"`
	Timestamp time.Time            `json:"timestamp"`
}

// CreaturePayloadV1 is the shared payload of single-creature events
type CreaturePayloadV1 struct {
	OwnerID      string        `json:"owner_id"`
	CreatureID   int64         `json:"creature_id"`
	AssetID      int64         `json:"asset_id"`
	Rarity       domain.Rarity `json:"rarity"`
	Slot         int           `json:"slot"`
	ConsumableID *int64        `json:"consumable_id,omitempty"`
	Timestamp    time.Time     `json:"timestamp"`
}

// CreatureLikedPayloadV1 is the typed payload for like events
type CreatureLikedPayloadV1 struct {
	CreatureID int64     `json:"creature_id"`
	LikerID    string    `json:"liker_id"`
	DiscountMs int64     `json:"discount_ms"`
	Timestamp  time.Time `json:"timestamp"`
}

// CreatureSoldPayloadV1 is the typed payload for sale events
type CreatureSoldPayloadV1 struct {
	OwnerID    string    `json:"owner_id"`
	CreatureID int64     `json:"creature_id"`
	Amount     int64     `json:"amount"`
	Timestamp  time.Time `json:"timestamp"`
}

// CreaturesDespawnedPayloadV1 summarises one despawn sweep
type CreaturesDespawnedPayloadV1 struct {
	Count     int64     `json:"count"`
	Timestamp time.Time `json:"timestamp"`
}

// IncomeCreditedPayloadV1 is the typed payload for income payouts
type IncomeCreditedPayloadV1 struct {
	OwnerID    string    `json:"owner_id"`
	Amount     int64     `json:"amount"`
	Minutes    int64     `json:"minutes"`
	HourlyRate float64   `json:"hourly_rate"`
	Timestamp  time.Time `json:"timestamp"`
}

// Type-safe event constructors

func newEvent(t Type, payload interface{}) Event {
	return Event{Version: EventSchemaVersion, Type: t, Payload: payload}
}

// NewConsumablePlacedEvent creates a placement event
func NewConsumablePlacedEvent(c *domain.PlacedConsumable) Event {
	return newEvent(ConsumablePlaced, ConsumablePlacedPayloadV1{
		OwnerID:      c.OwnerID,
		ConsumableID: c.ID,
		FieldIndex:   c.FieldIndex,
		AssetID:      c.AssetID,
		Rarity:       c.Rarity,
		MaxSpawns:    c.MaxSpawns,
		Timestamp:    c.PlacedAt,
	})
}

// NewConsumableHarvestedEvent creates a harvest event
func NewConsumableHarvestedEvent(ownerID string, result domain.HarvestResult, at time.Time) Event {
	return newEvent(ConsumableHarvested, ConsumableHarvestedPayloadV1{OwnerID: ownerID, Result: result, Timestamp: at})
}

// NewCreatureEvent creates a single-creature event of type t
func NewCreatureEvent(t Type, c *domain.SpawnedCreature, at time.Time) Event {
	return newEvent(t, CreaturePayloadV1{
		OwnerID:      c.OwnerID,
		CreatureID:   c.ID,
		AssetID:      c.AssetID,
		Rarity:       c.Rarity,
		Slot:         c.Slot,
		ConsumableID: c.SourceConsumableID,
		Timestamp:    at,
	})
}

// NewCreatureLikedEvent creates a like event
func NewCreatureLikedEvent(creatureID int64, likerID string, discount time.Duration, at time.Time) Event {
	return newEvent(CreatureLiked, CreatureLikedPayloadV1{
		CreatureID: creatureID,
		LikerID:    likerID,
		DiscountMs: discount.Milliseconds(),
		Timestamp:  at,
	})
}

// NewCreatureSoldEvent creates a sale event
func NewCreatureSoldEvent(ownerID string, creatureID, amount int64, at time.Time) Event {
	return newEvent(CreatureSold, CreatureSoldPayloadV1{OwnerID: ownerID, CreatureID: creatureID, Amount: amount, Timestamp: at})
}

// NewCreaturesDespawnedEvent creates a despawn summary event
func NewCreaturesDespawnedEvent(count int64, at time.Time) Event {
	return newEvent(CreaturesDespawned, CreaturesDespawnedPayloadV1{Count: count, Timestamp: at})
}

// NewIncomeCreditedEvent creates an income payout event
func NewIncomeCreditedEvent(ownerID string, amount, minutes int64, rate float64, at time.Time) Event {
	return newEvent(IncomeCredited, IncomeCreditedPayloadV1{
		OwnerID:    ownerID,
		Amount:     amount,
		Minutes:    minutes,
		HourlyRate: rate,
		Timestamp:  at,
	})
}

// NewSweepCompletedEvent wraps a sweep report
func NewSweepCompletedEvent(report domain.SweepReport) Event {
	e := newEvent(SweepCompleted, report)
	e.Metadata = map[string]interface{}{"sweep": report.Sweep}
	return e
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers. Handlers run synchronously.
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers, ok := b.handlers[event.Type]
	b.mu.RUnlock()

	if !ok {
		return nil
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// SubscribeAll subscribes handler to every type in types
func SubscribeAll(bus Bus, types []Type, handler Handler) {
	for _, t := range types {
		bus.Subscribe(t, handler)
	}
}
