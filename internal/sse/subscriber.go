package sse

import (
	"context"
	"log/slog"

	"github.com/osse101/Critterfield_Go/internal/event"
)

// Subscriber bridges the internal event bus to the SSE hub
type Subscriber struct {
	hub *Hub
	bus event.Bus
}

// NewSubscriber creates a new SSE subscriber
func NewSubscriber(hub *Hub, bus event.Bus) *Subscriber {
	return &Subscriber{hub: hub, bus: bus}
}

// Subscribe forwards every economy event type to the hub
func (s *Subscriber) Subscribe() {
	event.SubscribeAll(s.bus, event.EconomyTypes, s.handleEvent)

	types := make([]string, len(event.EconomyTypes))
	for i, t := range event.EconomyTypes {
		types[i] = string(t)
	}
	slog.Info(LogMsgSubscriberReady, "types", types)
}

// handleEvent always returns nil; events the hub drops are not retried
func (s *Subscriber) handleEvent(_ context.Context, evt event.Event) error {
	s.hub.Broadcast(string(evt.Type), evt.Payload)
	slog.Debug(LogMsgEventBroadcast, "event_type", evt.Type, "clients", s.hub.ClientCount())
	return nil
}
