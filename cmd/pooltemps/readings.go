package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"pooltemps/internal/app"
	"pooltemps/internal/monitor"
)

var readingsCmd = &cobra.Command{
	Use:   "readings",
	Short: "Print stored readings for a pool",
	Long: `Print a pool's readings in local time, oldest first. By default only
today's readings are shown; --all prints the full history.`,
	Args: cobra.NoArgs,
	RunE: runReadings,
}

func init() {
	rootCmd.AddCommand(readingsCmd)

	readingsCmd.Flags().StringP("pool", "p", "", "pool name (required)")
	readingsCmd.Flags().Bool("all", false, "print every stored reading instead of today's")
	_ = readingsCmd.MarkFlagRequired("pool")
}

func runReadings(cmd *cobra.Command, args []string) error {
	pool, _ := cmd.Flags().GetString("pool")
	all, _ := cmd.Flags().GetBool("all")

	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	comps, err := app.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = comps.Close() }()

	var rf monitor.Refresh
	if all {
		rf, err = comps.Monitor.History(ctx, pool)
	} else {
		rf, err = comps.Monitor.Today(ctx, pool)
	}
	if err != nil {
		return err
	}

	loc := comps.Pools.Location()
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "TIME (%s)\tTEMPERATURE\n", loc)
	for _, p := range rf.Points {
		fmt.Fprintf(tw, "%s\t%.1f\n", p.Time.In(loc).Format(time.DateTime), p.Temperature)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d readings for %s (ideal %.1f)\n", len(rf.Points), rf.Pool, rf.Ideal)
	return nil
}
