package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kilianp07/solarcar/core/input"
	"github.com/kilianp07/solarcar/core/model"
	"github.com/kilianp07/solarcar/pkg/export"
)

var sweepOpts struct {
	distance, solar, current, target string
	format, output                   string
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Tabulate trip energy over the candidate speeds",
	Long: "Evaluates the trip at every speed the required-speed search considers. " +
		"With --current-soc-wh and --target-soc-wh the budget and the chosen speed are included.",
	Args: cobra.NoArgs,
	RunE: runSweep,
}

func init() {
	f := sweepCmd.Flags()
	f.StringVar(&sweepOpts.distance, flagName(input.FieldDistanceKm), "", fieldHelp[input.FieldDistanceKm])
	f.StringVar(&sweepOpts.solar, flagName(input.FieldSolarPowerW), "", fieldHelp[input.FieldSolarPowerW])
	f.StringVar(&sweepOpts.current, flagName(input.FieldCurrentSoCWh), "", fieldHelp[input.FieldCurrentSoCWh])
	f.StringVar(&sweepOpts.target, flagName(input.FieldTargetSoCWh), "", fieldHelp[input.FieldTargetSoCWh])
	f.StringVarP(&sweepOpts.format, "format", "f", "csv", "output format: csv, json or html")
	f.StringVarP(&sweepOpts.output, "output", "o", "", "output file, stdout when empty")
	rootCmd.AddCommand(sweepCmd)
}

func runSweep(cmd *cobra.Command, args []string) error {
	format, err := export.ParseFormat(sweepOpts.format)
	if err != nil {
		return err
	}
	form := input.Form{
		input.FieldDistanceKm:   sweepOpts.distance,
		input.FieldSolarPowerW:  sweepOpts.solar,
		input.FieldCurrentSoCWh: sweepOpts.current,
		input.FieldTargetSoCWh:  sweepOpts.target,
	}
	withBudget := cmd.Flags().Changed(flagName(input.FieldCurrentSoCWh)) || cmd.Flags().Changed(flagName(input.FieldTargetSoCWh))
	var in model.RequiredSpeedInput
	if withBudget {
		in, err = form.RequiredSpeed()
	} else {
		if in.DistanceKm, err = form.Number(input.FieldDistanceKm); err == nil {
			in.SolarPowerW, err = form.Number(input.FieldSolarPowerW)
		}
	}
	if err != nil {
		return err
	}

	svc, err := newService()
	if err != nil {
		return err
	}
	defer svc.Close()
	pts, speed, err := svc.Calculator.Sweep(in, withBudget)
	if err != nil {
		return err
	}
	s := export.Sweep{DistanceKm: in.DistanceKm, SolarPowerW: in.SolarPowerW, RequiredKmh: speed, Points: pts}
	if withBudget {
		s.BudgetWh = in.CurrentSoCWh - in.TargetSoCWh
	}

	var w io.Writer = cmd.OutOrStdout()
	if sweepOpts.output != "" {
		f, err := os.Create(sweepOpts.output)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}
	return export.Write(w, format, s)
}
