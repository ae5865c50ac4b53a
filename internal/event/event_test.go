package event

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/osse101/Critterfield_Go/internal/domain"
)

func TestMemoryBus_PublishSubscribe(t *testing.T) {
	bus := NewMemoryBus()
	eventType := Type("test_event")
	handled := false

	bus.Subscribe(eventType, func(ctx context.Context, event Event) error {
		if event.Type != eventType {
			t.Errorf("Expected event type %s, got %s", eventType, event.Type)
		}
		if event.Payload.(string) != "payload" {
			t.Errorf("Expected payload 'payload', got %v", event.Payload)
		}
		handled = true
		return nil
	})

	err := bus.Publish(context.Background(), Event{
		Version: "1.0",
		Type:    eventType,
		Payload: "payload",
	})

	if err != nil {
		t.Errorf("Publish returned error: %v", err)
	}

	if !handled {
		t.Error("Handler was not called")
	}
}

func TestMemoryBus_PublishMultipleHandlers(t *testing.T) {
	bus := NewMemoryBus()
	eventType := Type("test_event")
	count := 0

	handler := func(ctx context.Context, event Event) error {
		count++
		return nil
	}

	bus.Subscribe(eventType, handler)
	bus.Subscribe(eventType, handler)

	err := bus.Publish(context.Background(), Event{Version: "1.0", Type: eventType})
	if err != nil {
		t.Errorf("Publish returned error: %v", err)
	}

	if count != 2 {
		t.Errorf("Expected 2 handlers to be called, got %d", count)
	}
}

func TestMemoryBus_PublishError(t *testing.T) {
	bus := NewMemoryBus()
	eventType := Type("test_event")

	bus.Subscribe(eventType, func(ctx context.Context, event Event) error {
		return errors.New("handler error")
	})

	err := bus.Publish(context.Background(), Event{Version: "1.0", Type: eventType})
	if err == nil {
		t.Error("Expected error from Publish, got nil")
	}
}

func TestSubscribeAll_ReceivesEveryEconomyType(t *testing.T) {
	bus := NewMemoryBus()
	seen := map[Type]int{}

	SubscribeAll(bus, EconomyTypes, func(ctx context.Context, event Event) error {
		seen[event.Type]++
		return nil
	})

	for _, typ := range EconomyTypes {
		if err := bus.Publish(context.Background(), Event{Version: EventSchemaVersion, Type: typ}); err != nil {
			t.Fatalf("Publish returned error: %v", err)
		}
	}

	if len(seen) != len(EconomyTypes) {
		t.Errorf("Expected %d types, got %d", len(EconomyTypes), len(seen))
	}
}

func TestNewCreatureEvent_DecodesAfterJSONRoundTrip(t *testing.T) {
	source := int64(12)
	at := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	c := &domain.SpawnedCreature{ID: 99, OwnerID: "owner", AssetID: 250, Rarity: 2, Slot: 14, SourceConsumableID: &source}

	evt := NewCreatureEvent(CreatureSpawned, c, at)
	if evt.Version != EventSchemaVersion || evt.Type != CreatureSpawned {
		t.Fatalf("unexpected envelope: %+v", evt)
	}

	// Simulate a serialized source: payload arrives as a generic map
	raw, err := json.Marshal(evt.Payload)
	if err != nil {
		t.Fatal(err)
	}
	var generic map[string]interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		t.Fatal(err)
	}

	payload, err := DecodePayload[CreaturePayloadV1](generic)
	if err != nil {
		t.Fatalf("DecodePayload failed: %v", err)
	}
	if payload.CreatureID != 99 || payload.Slot != 14 || *payload.ConsumableID != 12 || !payload.Timestamp.Equal(at) {
		t.Errorf("payload mismatch: %+v", payload)
	}
}

func TestNewSweepCompletedEvent_Metadata(t *testing.T) {
	evt := NewSweepCompletedEvent(domain.SweepReport{Sweep: domain.SweepIncome, Applied: 3})

	if evt.GetMetadataValue("sweep") != domain.SweepIncome {
		t.Errorf("Expected sweep metadata, got %v", evt.GetMetadataValue("sweep"))
	}
	if evt.GetMetadataValue("missing") != nil {
		t.Error("Expected nil for missing key")
	}
}
