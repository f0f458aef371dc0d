package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/solarcar/core/solver"
)

func samplePoints() []solver.SweepPoint {
	return []solver.SweepPoint{
		{SpeedKmh: 50, TimeHours: 2, LossW: 400, LossWh: 800, GainWh: 1000, NetUsedWh: -200},
		{SpeedKmh: 100, TimeHours: 1, LossW: 1802.5, LossWh: 1802.5, GainWh: 500, NetUsedWh: 1302.5},
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatJSON, "json": FormatJSON, "csv": FormatCSV, "html": FormatHTML} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
	assert.Equal(t, "text/csv", FormatCSV.ContentType())
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, samplePoints()))
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"speed_kmh", "time_hours", "loss_w", "loss_wh", "gain_wh", "net_used_wh"}, rows[0])
	assert.Equal(t, []string{"100", "1", "1802.5", "1802.5", "500", "1302.5"}, rows[2])
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	s := Sweep{DistanceKm: 100, SolarPowerW: 500, RequiredKmh: 90, Points: samplePoints()}
	require.NoError(t, Write(&buf, FormatJSON, s))
	var got Sweep
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, s, got)
	assert.NotContains(t, buf.String(), "budget_wh")
}

func TestWriteChart(t *testing.T) {
	var buf bytes.Buffer
	s := Sweep{DistanceKm: 100, SolarPowerW: 500, BudgetWh: 1000, RequiredKmh: 90, Points: samplePoints()}
	require.NoError(t, Write(&buf, FormatHTML, s))
	html := buf.String()
	assert.True(t, strings.Contains(html, "<html"), "rendered page")
	assert.Contains(t, html, "Trip energy by speed")
	assert.Contains(t, html, "required speed 90.0 km/h")
	assert.Contains(t, html, "Energy budget")
}

func TestWriteChartWithoutBudget(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteChart(&buf, Sweep{DistanceKm: 10, Points: samplePoints()}))
	assert.NotContains(t, buf.String(), "Energy budget")
}
