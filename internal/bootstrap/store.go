package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/osse101/Critterfield_Go/internal/config"
	"github.com/osse101/Critterfield_Go/internal/database"
	"github.com/osse101/Critterfield_Go/internal/database/postgres"
	"github.com/osse101/Critterfield_Go/internal/database/sqlite"
	"github.com/osse101/Critterfield_Go/internal/repository"
)

// OpenStore connects the store selected by DB_DRIVER and applies pending migrations
func OpenStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	switch cfg.DBDriver {
	case config.DBDriverPostgres:
		pool, err := database.NewPool(ctx, cfg.GetDBConnString(), PoolMaxConnections, PoolMaxConnIdle, PoolMaxConnLife)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedOpenStore, err)
		}
		if err := database.MigratePool(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedMigrate, err)
		}
		slog.Info(LogMsgStoreOpened, "driver", cfg.DBDriver, "host", cfg.DBHost, "db", cfg.DBName)
		return postgres.NewStore(pool), nil

	case config.DBDriverSQLite:
		store, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedOpenStore, err)
		}
		slog.Info(LogMsgStoreOpened, "driver", cfg.DBDriver, "path", cfg.SQLitePath)
		return store, nil

	default:
		return nil, fmt.Errorf("%s: %q", ErrMsgUnsupportedDriver, cfg.DBDriver)
	}
}
