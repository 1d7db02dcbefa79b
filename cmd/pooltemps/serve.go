package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"pooltemps/internal/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local dashboard",
	Long: `Start the dashboard on HTTP_ADDR. The database and its schema are created
on first run. The server runs until interrupted (Ctrl+C) or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	logger.Info("starting", "version", version, "env", cfg.AppEnv, "log_level", cfg.LogLevel.String())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("run failed", "error", err)
		return err
	}
	logger.Info("shutting down")
	return nil
}
