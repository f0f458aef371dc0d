package cmd

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/solarcar/core/history"
)

var historyOpts struct {
	scenario string
	outcome  string
	since    time.Duration
	limit    int
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded calculations",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	f := historyCmd.Flags()
	f.StringVar(&historyOpts.scenario, "scenario", "", "only this scenario (time, speed, distance, required-speed)")
	f.StringVar(&historyOpts.outcome, "outcome", "", "only this outcome (ok, invalid, not_found, error)")
	f.DurationVar(&historyOpts.since, "since", 0, "only calculations newer than this, e.g. 24h")
	f.IntVarP(&historyOpts.limit, "limit", "n", 20, "most recent records to show, 0 for all")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}
	defer svc.Close()

	q := history.Query{Scenario: historyOpts.scenario, Outcome: historyOpts.outcome, Limit: historyOpts.limit}
	if historyOpts.since > 0 {
		q.Start = time.Now().Add(-historyOpts.since)
	}
	records, err := svc.Calculator.History(context.Background(), q)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tSCENARIO\tOUTCOME\tSTATUS")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			r.Timestamp.Local().Format(time.DateTime), r.Scenario, r.Outcome,
			strings.ReplaceAll(r.Status, "\n", "; "))
	}
	return tw.Flush()
}
