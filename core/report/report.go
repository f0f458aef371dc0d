// Package report renders scenario results as the short status text shown to
// a driver.
package report

import (
	"fmt"
	"strings"

	"github.com/kilianp07/solarcar/core/model"
)

// Format renders a successful result. Power based scenarios report W,
// the required-speed scenario reports Wh over the trip.
func Format(r model.Result) string {
	var b strings.Builder
	switch r.Scenario {
	case model.ScenarioTimeFromSpeed:
		powerLines(&b, r, true)
		fmt.Fprintf(&b, "Time to arrival: %dh %dm\n", r.Hours, r.Minutes)
		fmt.Fprintf(&b, "SOC at arrival: %.2f Wh", r.ArrivalSoCWh)
	case model.ScenarioSpeedFromTime:
		powerLines(&b, r, true)
		fmt.Fprintf(&b, "Required speed: %.2f km/h\n", r.SpeedKmh)
		fmt.Fprintf(&b, "SOC at arrival: %.2f Wh", r.ArrivalSoCWh)
	case model.ScenarioDistanceFromSpeedTime:
		powerLines(&b, r, false)
		fmt.Fprintf(&b, "Distance traveled: %.2f km\n", r.DistanceKm)
		fmt.Fprintf(&b, "SOC at arrival: %.2f Wh", r.ArrivalSoCWh)
	case model.ScenarioRequiredSpeed:
		fmt.Fprintf(&b, "Total loss: -%.0f Wh\n", r.LossWh)
		fmt.Fprintf(&b, "Total gain: %.0f Wh\n", r.GainWh)
		fmt.Fprintf(&b, "Net gain/loss: %.0f Wh\n", r.NetUsedWh())
		fmt.Fprintf(&b, "Required speed: %.1f km/h\n", r.SpeedKmh)
		fmt.Fprintf(&b, "Time to arrival: %dh %dm", r.Hours, r.Minutes)
	default:
		return ""
	}
	return b.String()
}

func powerLines(b *strings.Builder, r model.Result, net bool) {
	fmt.Fprintf(b, "Total loss: -%.1f W\n", r.LossW)
	fmt.Fprintf(b, "Total gain: %.1f W\n", r.GainW)
	if net {
		fmt.Fprintf(b, "Net gain/loss: %.1f W\n", r.NetW)
	}
}

// Status returns the text to display for a calculation outcome: the
// rendered result, or the user-facing message of err.
func Status(r model.Result, err error) string {
	if err != nil {
		return err.Error()
	}
	return Format(r)
}
