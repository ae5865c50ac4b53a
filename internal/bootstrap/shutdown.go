package bootstrap

import (
	"context"
	"log/slog"

	"github.com/osse101/Critterfield_Go/internal/event"
	"github.com/osse101/Critterfield_Go/internal/eventlog"
	"github.com/osse101/Critterfield_Go/internal/repository"
	"github.com/osse101/Critterfield_Go/internal/scheduler"
	"github.com/osse101/Critterfield_Go/internal/server"
	"github.com/osse101/Critterfield_Go/internal/sse"
)

// ShutdownComponents holds all components that need graceful shutdown.
type ShutdownComponents struct {
	Server             *server.Server
	EventStream        *sse.Hub
	Scheduler          *scheduler.Scheduler
	ResilientPublisher *event.ResilientPublisher
	EventLog           eventlog.Service
	Store              repository.Store
}

// GracefulShutdown performs graceful shutdown of all application components.
// It shuts down in the correct order:
// 1. Event stream and HTTP server (stop accepting manual triggers)
// 2. Scheduler (let in-flight sweeps finish)
// 3. Event publisher (flush pending events)
// 4. Audit log and store
//
// Errors during shutdown are logged but do not stop the shutdown sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	// Open streams never end on their own, so they are closed before the server drains
	if components.EventStream != nil {
		components.EventStream.Stop()
	}

	if components.Server != nil {
		slog.Info(LogMsgShuttingDownServer)
		if err := components.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	if components.Scheduler != nil {
		slog.Info(LogMsgShuttingDownScheduler)
		if err := components.Scheduler.Stop(ctx); err != nil {
			slog.Error(LogMsgSchedulerStopFailed, "error", err)
		}
	}

	// Publisher goes after the scheduler so events from the last sweeps are flushed
	if components.ResilientPublisher != nil {
		slog.Info(LogMsgShuttingDownEventPublisher)
		if err := components.ResilientPublisher.Shutdown(ctx); err != nil {
			slog.Error(LogMsgResilientPublisherFailed, "error", err)
		}
	}

	if components.EventLog != nil {
		if err := components.EventLog.Close(); err != nil {
			slog.Error(LogMsgEventLogCloseFailed, "error", err)
		}
	}

	if components.Store != nil {
		slog.Info(LogMsgClosingStore)
		components.Store.Close()
	}

	slog.Info(LogMsgServerStopped)
}
