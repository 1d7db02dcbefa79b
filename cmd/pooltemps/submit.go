package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"pooltemps/internal/app"
	"pooltemps/internal/monitor"
)

var submitCmd = &cobra.Command{
	Use:   "submit POOL=VALUE...",
	Short: "Record one reading per pool",
	Long: `Record readings the same way the dashboard form does. Every configured
pool is processed in order; pools not named on the command line are
reported as empty and skipped.

Example:
  pooltemps submit "Big Pool=93.5" "Covered Pool=104" Well=101`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSubmit,
}

func init() {
	rootCmd.AddCommand(submitCmd)
}

func parseAssignments(args []string) (map[string]string, error) {
	inputs := make(map[string]string, len(args))
	for _, arg := range args {
		pool, value, ok := strings.Cut(arg, "=")
		pool = strings.TrimSpace(pool)
		if !ok || pool == "" {
			return nil, fmt.Errorf("invalid argument %q (want POOL=VALUE)", arg)
		}
		inputs[pool] = value
	}
	return inputs, nil
}

// printSink writes events as they happen.
type printSink struct{ out io.Writer }

func (s printSink) Warn(w monitor.Warning) {
	fmt.Fprintf(s.out, "%s: %s\n", w.Title(), w.Message())
}

func (s printSink) Refresh(rf monitor.Refresh) {
	fmt.Fprintf(s.out, "saved %s (%d readings today)\n", rf.Pool, len(rf.Points))
}

func runSubmit(cmd *cobra.Command, args []string) error {
	inputs, err := parseAssignments(args)
	if err != nil {
		return err
	}
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

	for pool := range inputs {
		if _, ok := comps.Pools.Lookup(pool); !ok {
			return fmt.Errorf("%w: %q (known: %s)", monitor.ErrUnknownPool, pool, strings.Join(comps.Pools.Names(), ", "))
		}
	}

	res, err := comps.Monitor.Submit(ctx, inputs, printSink{out: cmd.OutOrStdout()})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "submission %s: %d saved, %d warnings\n", res.SubmissionID, len(res.Refreshed), len(res.Warnings))
	return nil
}
