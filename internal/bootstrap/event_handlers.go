package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/osse101/Critterfield_Go/internal/domain"
	"github.com/osse101/Critterfield_Go/internal/event"
	"github.com/osse101/Critterfield_Go/internal/eventlog"
	"github.com/osse101/Critterfield_Go/internal/metrics"
	"github.com/osse101/Critterfield_Go/internal/rarity"
	"github.com/osse101/Critterfield_Go/internal/sse"
)

// EventHandlerDependencies holds the dependencies needed for event handler registration.
type EventHandlerDependencies struct {
	EventBus        event.Bus
	EventLogService eventlog.Service
	Table           *rarity.Table
	EventStream     *sse.Hub
}

// RegisterEventHandlers subscribes the metrics collector, the audit logger and the
// ops event stream
func RegisterEventHandlers(deps EventHandlerDependencies) error {
	var namer metrics.TierNamer
	if deps.Table != nil {
		namer = func(r domain.Rarity) string { return deps.Table.Tier(r).Name }
	}
	metricsCollector := metrics.NewEventMetricsCollector(namer)
	if err := metricsCollector.Register(deps.EventBus); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedRegisterMetrics, err)
	}
	slog.Info(LogMsgMetricsCollectorRegistered)

	if deps.EventLogService != nil {
		if err := deps.EventLogService.Subscribe(deps.EventBus); err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedSubscribeEventLogger, err)
		}
		slog.Info(LogMsgEventLoggerInitialized)
	}

	if deps.EventStream != nil {
		sse.NewSubscriber(deps.EventStream, deps.EventBus).Subscribe()
	}

	return nil
}
