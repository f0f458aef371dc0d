package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kilianp07/solarcar/core/input"
	"github.com/kilianp07/solarcar/core/model"
	"github.com/kilianp07/solarcar/infra/logger"
)

var fieldHelp = map[string]string{
	input.FieldDistanceKm:   "trip distance in km",
	input.FieldSpeedKmh:     "cruising speed in km/h",
	input.FieldTimeHours:    "whole hours of travel",
	input.FieldTimeMinutes:  "additional minutes of travel",
	input.FieldCurrentSoCWh: "battery state of charge now, in Wh",
	input.FieldSolarPowerW:  "average solar power in W",
	input.FieldTargetSoCWh:  "state of charge wanted on arrival, in Wh",
}

// flagName turns a form field into its command line flag: distance_km -> distance-km.
func flagName(field string) string { return strings.ReplaceAll(field, "_", "-") }

func init() {
	for _, sc := range model.Scenarios {
		rootCmd.AddCommand(newScenarioCmd(sc))
	}
}

// newScenarioCmd builds one command per scenario. Flags are read as raw text
// so they go through the same parsing as any other form input.
func newScenarioCmd(sc model.ScenarioType) *cobra.Command {
	fields := input.Fields(sc)
	values := make(map[string]*string, len(fields))
	cmd := &cobra.Command{
		Use:   sc.String(),
		Short: sc.Title(),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			form := make(map[string]string, len(fields))
			for _, f := range fields {
				if cmd.Flags().Changed(flagName(f)) {
					form[f] = *values[f]
				}
			}
			svc, err := newService()
			if err != nil {
				return err
			}
			defer func() {
				if err := svc.Close(); err != nil {
					logger.New("cli").Errorf("service close: %v", err)
				}
			}()
			rec, err := svc.Calculator.Calculate(context.Background(), sc, form)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), rec.Status)
			return err
		},
	}
	for _, f := range fields {
		values[f] = cmd.Flags().String(flagName(f), "", fieldHelp[f])
	}
	return cmd
}
