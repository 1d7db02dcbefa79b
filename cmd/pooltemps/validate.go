package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pooltemps/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a pool table file",
	Long: `Parse a YAML pool table, expand environment variables and check every
pool without touching the database.

Exit codes:
  0 - pool table is valid
  1 - pool table is invalid (error details printed to stderr)

Example:
  pooltemps validate -c pools.yaml`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringP("config", "c", "", "path to pool table file (required)")
	_ = validateCmd.MarkFlagRequired("config")
}

func runValidate(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")
	pools, err := config.LoadPoolsFile(path)
	if err != nil {
		return fmt.Errorf("invalid pool table: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Pool table is valid!\n")
	if pools.Timezone != "" {
		fmt.Fprintf(out, "  Timezone: %s\n", pools.Timezone)
	}
	fmt.Fprintf(out, "  Pools:    %d\n", len(pools.Pools))
	for _, p := range pools.Pools {
		fmt.Fprintf(out, "    %-14s low %.1f  ideal %.1f  high %.1f\n", p.Name, p.Low, p.Ideal, p.High)
	}
	return nil
}
