package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/solarcar/core/model"
)

// run executes the CLI with args and returns what it wrote to stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	_, err := rootCmd.ExecuteC()
	return out.String(), err
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Changed = false
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			var vals []string
			if d := strings.Trim(f.DefValue, "[]"); d != "" {
				vals = strings.Split(d, ",")
			}
			_ = sv.Replace(vals)
			return
		}
		_ = f.Value.Set(f.DefValue)
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func TestScenarioCommands(t *testing.T) {
	out, err := run(t, "time", "--distance-km", "100", "--speed-kmh", "100", "--current-soc-wh", "3000", "--solar-power-w", "500")
	require.NoError(t, err)
	assert.Contains(t, out, "Time to arrival: 1h 0m")
	assert.Contains(t, out, "SOC at arrival: 1697.11 Wh")

	out, err = run(t, "required-speed", "--distance-km", "100", "--current-soc-wh", "3000", "--target-soc-wh", "2000", "--solar-power-w", "500")
	require.NoError(t, err)
	assert.Contains(t, out, "Required speed: 90.0 km/h")

	out, err = run(t, "distance", "--speed-kmh", "60", "--time-hours", "1", "--time-minutes", "30", "--current-soc-wh", "3000", "--solar-power-w", "500")
	require.NoError(t, err)
	assert.Contains(t, out, "Distance traveled: 90.00 km")
}

func TestScenarioCommandErrors(t *testing.T) {
	_, err := run(t, "speed", "--distance-km", "100", "--current-soc-wh", "3000", "--solar-power-w", "500")
	assert.EqualError(t, err, model.MsgArrivalTimeNotPositive)

	_, err = run(t, "time", "--distance-km", "100")
	assert.EqualError(t, err, model.MsgInvalidNumbers)
}

func TestSweepCommand(t *testing.T) {
	out, err := run(t, "sweep", "--distance-km", "100", "--solar-power-w", "500")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 146)
	assert.Equal(t, "speed_kmh,time_hours,loss_w,loss_wh,gain_wh,net_used_wh", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "5,20,"))

	path := filepath.Join(t.TempDir(), "sweep.html")
	_, err = run(t, "sweep", "--distance-km", "100", "--solar-power-w", "500",
		"--current-soc-wh", "3000", "--target-soc-wh", "2000", "-f", "html", "-o", path)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "required speed 90.0 km/h")

	_, err = run(t, "sweep", "--distance-km", "100", "--solar-power-w", "500", "-f", "xml")
	assert.Error(t, err)
}

func TestVehicleCommand(t *testing.T) {
	out, err := run(t, "vehicle", "--speeds", "100")
	require.NoError(t, err)
	assert.Contains(t, out, "Vehicle: eclipse")
	assert.Contains(t, out, "1802.9")
}

func TestHistoryCommand(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("history:\n  type: jsonl\n  conf:\n    path: "+filepath.Join(dir, "calc.jsonl")+"\n"), 0o644))

	_, err := run(t, "-c", cfg, "distance", "--speed-kmh", "60", "--time-hours", "2", "--current-soc-wh", "3000", "--solar-power-w", "500")
	require.NoError(t, err)
	_, err = run(t, "-c", cfg, "time", "--distance-km", "x")
	require.Error(t, err)

	out, err := run(t, "-c", cfg, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "distance")
	assert.Contains(t, out, "Distance traveled: 120.00 km")
	assert.Contains(t, out, "invalid")

	out, err = run(t, "-c", cfg, "history", "--outcome", "ok")
	require.NoError(t, err)
	assert.NotContains(t, out, "invalid")
}

func TestLoadEnvMissingFileIsIgnored(t *testing.T) {
	assert.NoError(t, loadEnv(filepath.Join(t.TempDir(), "absent.env")))

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("SOLAR_TEST_ONLY_VALUE=42\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("SOLAR_TEST_ONLY_VALUE") })
	require.NoError(t, loadEnv(path))
	assert.Equal(t, "42", os.Getenv("SOLAR_TEST_ONLY_VALUE"))
}
