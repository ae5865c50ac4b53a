package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/osse101/Critterfield_Go/internal/bootstrap"
	"github.com/osse101/Critterfield_Go/internal/clock"
	"github.com/osse101/Critterfield_Go/internal/config"
	"github.com/osse101/Critterfield_Go/internal/eventlog"
	"github.com/osse101/Critterfield_Go/internal/server"
	"github.com/osse101/Critterfield_Go/internal/sse"
	"github.com/osse101/Critterfield_Go/internal/utils"
)

//go:generate go run github.com/swaggo/swag/cmd/swag init -g cmd/app/main.go -d ../.. -o ../../docs --outputTypes go

// @title Critterfield Ops API
// @version 1.0
// @description Operations surface of the critterfield economy engine: health, metrics, sweeps and the event stream.
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		slog.Error("Failed to set up logging", "error", err)
		os.Exit(1)
	}
	defer logFile.Close()

	if err := run(cfg); err != nil {
		slog.Error("Engine exited with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}

	rng := utils.NewTimeSeededRand()
	econ, table, err := bootstrap.LoadEconomy(cfg, rng)
	if err != nil {
		store.Close()
		return err
	}

	bus, publisher, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		store.Close()
		return err
	}

	clk := clock.NewRealClock()
	stream := sse.NewHub(clk.Now)
	stream.Start()

	audit := eventlog.NewService(cfg.AuditDir, nil)
	if err := bootstrap.RegisterEventHandlers(bootstrap.EventHandlerDependencies{
		EventBus:        bus,
		EventLogService: audit,
		Table:           table,
		EventStream:     stream,
	}); err != nil {
		stream.Stop()
		store.Close()
		return err
	}

	economy, err := bootstrap.BuildEconomy(bootstrap.EconomyDependencies{
		Config:   cfg,
		Economy:  econ,
		Table:    table,
		Rand:     rng,
		Store:    store,
		Bus:      publisher,
		Clock:    clk,
		EventLog: audit,
	})
	if err != nil {
		stream.Stop()
		store.Close()
		return err
	}

	srv := server.NewServer(server.Options{
		Port:           cfg.Port,
		APIKey:         cfg.APIKey,
		TrustedProxies: cfg.TrustedProxies,
		Clock:          clk,
		Events:         stream,
	}, store, economy.Scheduler)

	economy.Scheduler.Start(ctx)

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- srv.Start()
	}()

	var runErr error
	select {
	case <-ctx.Done():
		slog.Info("Shutdown signal received")
	case runErr = <-srvErr:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		Server:             srv,
		EventStream:        stream,
		Scheduler:          economy.Scheduler,
		ResilientPublisher: publisher,
		EventLog:           audit,
		Store:              store,
	})

	return runErr
}
