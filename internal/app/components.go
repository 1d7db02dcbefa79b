package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"pooltemps/internal/config"
	"pooltemps/internal/db"
	"pooltemps/internal/monitor"
	"pooltemps/internal/readings"
)

// Components is the wired core shared by the server and the CLI commands.
type Components struct {
	DB      *sql.DB
	Pools   *config.Pools
	Store   readings.Store
	Monitor monitor.Monitor
}

// Open loads the pool table, opens the database, ensures the schema and
// builds the monitor. Callers must Close the result.
func Open(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Components, error) {
	if logger == nil {
		logger = slog.Default()
	}
	pools, err := config.LoadPools(cfg)
	if err != nil {
		return nil, err
	}

	dbConn, err := db.Open(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	store := readings.NewStore(dbConn, pools.Location())
	if err := store.EnsureSchema(ctx); err != nil {
		if closeErr := db.Close(dbConn); closeErr != nil {
			logger.Error("db close", "error", closeErr)
		}
		return nil, err
	}

	return &Components{
		DB:      dbConn,
		Pools:   pools,
		Store:   store,
		Monitor: monitor.New(pools, store, logger),
	}, nil
}

func (c *Components) Close() error {
	return db.Close(c.DB)
}
