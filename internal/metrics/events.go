package metrics

import (
	"context"
	"strconv"

	"github.com/osse101/Critterfield_Go/internal/domain"
	"github.com/osse101/Critterfield_Go/internal/event"
	"github.com/osse101/Critterfield_Go/internal/logger"
)

// TierNamer resolves a rarity ordinal to its configured tier name
type TierNamer func(r domain.Rarity) string

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct {
	tierName TierNamer
}

// NewEventMetricsCollector creates a new event metrics collector.
// A nil namer labels rarities by ordinal.
func NewEventMetricsCollector(namer TierNamer) *EventMetricsCollector {
	if namer == nil {
		namer = func(r domain.Rarity) string { return strconv.Itoa(int(r)) }
	}
	return &EventMetricsCollector{tierName: namer}
}

// Register subscribes to every economy event
func (e *EventMetricsCollector) Register(bus event.Bus) error {
	event.SubscribeAll(bus, event.EconomyTypes, e.HandleEvent)
	return nil
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	switch p := evt.Payload.(type) {
	case event.ConsumablePlacedPayloadV1:
		ConsumablesPlaced.WithLabelValues(e.tierName(p.Rarity)).Inc()
	case event.CreaturePayloadV1:
		switch evt.Type {
		case event.CreatureSpawned:
			CreaturesSpawned.WithLabelValues(e.tierName(p.Rarity)).Inc()
		case event.CreatureCollected:
			CreaturesCollected.WithLabelValues(e.tierName(p.Rarity)).Inc()
		case event.CreatureMatured:
			CreaturesMatured.WithLabelValues(e.tierName(p.Rarity)).Inc()
		}
	case event.CreaturesDespawnedPayloadV1:
		CreaturesDespawned.Add(float64(p.Count))
	case event.CreatureLikedPayloadV1:
		Likes.Inc()
	case event.CreatureSoldPayloadV1:
		CreaturesSold.Inc()
		SalesCredited.Add(float64(p.Amount))
	case event.IncomeCreditedPayloadV1:
		IncomeCredited.Add(float64(p.Amount))
	case event.ConsumableHarvestedPayloadV1, domain.SweepReport:
	default:
		logger.FromContext(ctx).Debug(LogMsgUnexpectedPayload, "type", evt.Type)
	}
	return nil
}
