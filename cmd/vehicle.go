package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kilianp07/solarcar/config"
	"github.com/kilianp07/solarcar/core/energy"
)

var vehicleSpeeds []float64

var vehicleCmd = &cobra.Command{
	Use:   "vehicle",
	Short: "Show the vehicle profile and its power loss at a few speeds",
	Args:  cobra.NoArgs,
	RunE:  runVehicle,
}

func init() {
	vehicleCmd.Flags().Float64SliceVar(&vehicleSpeeds, "speeds", []float64{40, 60, 80, 100, 120}, "speeds in km/h")
	rootCmd.AddCommand(vehicleCmd)
}

func runVehicle(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	v := cfg.Vehicle
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Vehicle: %s\n", v.Name)
	fmt.Fprintf(out, "Mass: %g kg\nRolling resistance: %g\nFrontal area: %g m²\nDrag coefficient: %g\nAir density: %g kg/m³\n\n",
		v.MassKg, v.RollingResistance, v.FrontalAreaM2, v.DragCoefficient, v.AirDensity)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "km/h\trolling W\tdrag W\ttotal W\t")
	for _, s := range vehicleSpeeds {
		b := energy.LossBreakdown(v, s)
		fmt.Fprintf(tw, "%.0f\t%.1f\t%.1f\t%.1f\t\n", s, b.RollingW, b.DragW, b.TotalW())
	}
	return tw.Flush()
}
