package app

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"pooltemps/internal/config"
	"pooltemps/internal/httpapi"
	"pooltemps/internal/views"
)

const shutdownTimeout = 10 * time.Second

// Run serves the dashboard until ctx is cancelled or the listener fails.
func Run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("config loaded",
		"appEnv", cfg.AppEnv,
		"logLevel", cfg.LogLevel.String(),
		"httpAddr", cfg.HTTPAddr,
		"sqliteDriver", cfg.SQLiteDriver,
		"sqlitePath", cfg.SQLitePath,
		"sqliteMaxOpenConns", cfg.SQLiteMaxOpenConns,
		"sqliteMaxIdleConns", cfg.SQLiteMaxIdleConns,
		"sqliteConnMaxLifetime", cfg.SQLiteConnMaxLifetime,
		"sqliteLogStatements", cfg.SQLiteLogStatements,
		"poolsFile", cfg.PoolsFile,
		"timezone", cfg.Timezone,
	)

	if err := views.LoadTemplates(); err != nil {
		return err
	}

	comps, err := Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := comps.Close(); closeErr != nil {
			logger.Error("db close", "error", closeErr)
		}
	}()
	logger.Info("database ready", "pools", comps.Pools.Names(), "timezone", comps.Pools.Location().String())

	mux := httpapi.NewMux(comps.DB, comps.Monitor, comps.Pools.Location())
	srv := httpapi.NewServer(cfg, mux, logger)

	ln, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		return err
	}
	return serve(ctx, srv, ln, logger)
}

func serve(ctx context.Context, srv *http.Server, ln net.Listener, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("http listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logger.Info("http shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	err := <-errCh
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return ctx.Err()
}
