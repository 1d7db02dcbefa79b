// Package main is the entry point for the pooltemps CLI.
//
// Usage:
//
//	pooltemps serve                          # Start the local dashboard
//	pooltemps submit "Big Pool=93.5" Well=101 # Record readings
//	pooltemps readings --pool Well --all     # Print stored readings
//	pooltemps migrate                        # Create or upgrade the schema
//	pooltemps validate -c pools.yaml         # Validate a pool table
//	pooltemps version                        # Show version info
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"pooltemps/internal/config"
	"pooltemps/internal/logging"
)

const appName = "pooltemps"

// Set with -ldflags "-X main.version=...".
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "pooltemps",
	Short: "Log and chart pool temperatures",
	Long: `pooltemps records manually measured pool temperatures in a local SQLite
database, warns when a pool is outside its thresholds and charts today's
readings per pool.

Configuration comes from the environment (and an optional .env file):
  SQLITE_PATH   database file (default pool_temperatures.db)
  POOLS_FILE    YAML pool table (default: built-in pools)
  TIMEZONE      local zone for the day window (default America/Denver)
  HTTP_ADDR     dashboard listener (default 127.0.0.1:8080)`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads the environment config and installs the process logger.
func setup() (config.Config, *slog.Logger, error) {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("config error: %w", err)
	}
	logger := logging.New(cfg, version, appName)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "pooltemps %s\n", version)
		fmt.Fprintf(out, "  commit: %s\n", commit)
		fmt.Fprintf(out, "  built:  %s\n", date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
