// Package export writes speed sweeps as JSON, CSV or an HTML line chart.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	json "github.com/goccy/go-json"

	"github.com/kilianp07/solarcar/core/solver"
)

// Format names an output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatHTML Format = "html"
)

// ParseFormat accepts json, csv and html. Empty means json.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case "":
		return FormatJSON, nil
	case FormatJSON, FormatCSV, FormatHTML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown export format %q", s)
	}
}

// ContentType is the HTTP content type of f.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatHTML:
		return "text/html; charset=utf-8"
	default:
		return "application/json"
	}
}

// Sweep is a speed sweep with the context needed to render it.
type Sweep struct {
	DistanceKm  float64             `json:"distance_km"`
	SolarPowerW float64             `json:"solar_power_w"`
	BudgetWh    float64             `json:"budget_wh,omitempty"`
	RequiredKmh float64             `json:"required_speed_kmh,omitempty"`
	Points      []solver.SweepPoint `json:"points"`
}

// Write encodes s in the given format.
func Write(w io.Writer, f Format, s Sweep) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, s.Points)
	case FormatHTML:
		return WriteChart(w, s)
	default:
		return WriteJSON(w, s)
	}
}

// WriteJSON writes the sweep to w in JSON format.
func WriteJSON(w io.Writer, s Sweep) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// WriteCSV writes one row per speed.
func WriteCSV(w io.Writer, pts []solver.SweepPoint) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"speed_kmh", "time_hours", "loss_w", "loss_wh", "gain_wh", "net_used_wh"}); err != nil {
		return err
	}
	for _, p := range pts {
		rec := []string{
			formatFloat(p.SpeedKmh),
			formatFloat(p.TimeHours),
			formatFloat(p.LossW),
			formatFloat(p.LossWh),
			formatFloat(p.GainWh),
			formatFloat(p.NetUsedWh),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteChart renders the energy used at each speed as an HTML line chart.
// When a budget is set it is drawn as a flat series so the crossing speed is
// visible.
func WriteChart(w io.Writer, s Sweep) error {
	line := charts.NewLine()
	subtitle := fmt.Sprintf("%.0f km, %.0f W solar", s.DistanceKm, s.SolarPowerW)
	if s.RequiredKmh > 0 {
		subtitle += fmt.Sprintf(", required speed %.1f km/h", s.RequiredKmh)
	}
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Speed sweep"}),
		charts.WithTitleOpts(opts.Title{Title: "Trip energy by speed", Subtitle: subtitle}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Speed (km/h)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Energy (Wh)"}),
	)

	xAxis := make([]string, 0, len(s.Points))
	lost := make([]opts.LineData, 0, len(s.Points))
	gained := make([]opts.LineData, 0, len(s.Points))
	net := make([]opts.LineData, 0, len(s.Points))
	budget := make([]opts.LineData, 0, len(s.Points))
	for _, p := range s.Points {
		xAxis = append(xAxis, formatFloat(p.SpeedKmh))
		lost = append(lost, opts.LineData{Value: round1(p.LossWh)})
		gained = append(gained, opts.LineData{Value: round1(p.GainWh)})
		net = append(net, opts.LineData{Value: round1(p.NetUsedWh)})
		budget = append(budget, opts.LineData{Value: round1(s.BudgetWh)})
	}
	line.SetXAxis(xAxis).
		AddSeries("Energy lost", lost).
		AddSeries("Energy gained", gained).
		AddSeries("Net energy used", net)
	if s.BudgetWh != 0 {
		line.AddSeries("Energy budget", budget)
	}

	if err := line.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func round1(v float64) float64 {
	f, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 1, 64), 64)
	return f
}
