package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pooltemps/internal/db"
	"pooltemps/internal/migrate"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	Long: `Create the temperatures table in SQLITE_PATH if it does not exist and
apply any newer migrations. Running it again is a no-op. serve, submit and
readings do the same on startup.`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	conn, err := db.Open(cfg, logger)
	if err != nil {
		return fmt.Errorf("db open: %w", err)
	}
	defer func() {
		if closeErr := db.Close(conn); closeErr != nil {
			logger.Error("db close", "error", closeErr)
		}
	}()

	n, err := migrate.Run(cmd.Context(), conn)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "migrations applied: %d\n", n)
	return nil
}
