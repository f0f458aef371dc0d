package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/solarcar/core/model"
)

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `vehicle:
  name: "aurora"
  mass_kg: 210
  drag_coefficient: 0.1
solver:
  strategy: "bisect"
history:
  type: "jsonl"
  conf:
    path: "/tmp/calc.jsonl"
    max_size_mb: 5
metrics:
  prometheus_addr: ":9100"
  sinks:
    - type: "nop"
mqtt:
  enabled: true
  broker: "tcp://localhost:1883"
  qos: 1
server:
  addr: ":9000"
  token: "secret"
sentry:
  dsn: ""
  traces_sample_rate: 0.2
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	checks := []struct {
		name string
		got  any
		want any
	}{
		{"vehicle.name", cfg.Vehicle.Name, "aurora"},
		{"vehicle.mass_kg", cfg.Vehicle.MassKg, 210.0},
		{"vehicle.drag_coefficient", cfg.Vehicle.DragCoefficient, 0.1},
		{"vehicle.frontal_area_m2 default", cfg.Vehicle.FrontalAreaM2, 0.914},
		{"vehicle.air_density default", cfg.Vehicle.AirDensity, 1.2},
		{"solver.strategy", cfg.Solver.Strategy, "bisect"},
		{"history.type", cfg.History.Type, "jsonl"},
		{"history.path", cfg.History.Conf["path"], "/tmp/calc.jsonl"},
		{"metrics.prometheus_addr", cfg.Metrics.PrometheusAddr, ":9100"},
		{"metrics.sinks", len(cfg.Metrics.Sinks) == 1 && cfg.Metrics.Sinks[0].Type == "nop", true},
		{"mqtt.broker", cfg.MQTT.Broker, "tcp://localhost:1883"},
		{"mqtt.qos", cfg.MQTT.QoS, byte(1)},
		{"mqtt.topic_prefix default", cfg.MQTT.TopicPrefix, "solarcar"},
		{"server.addr", cfg.Server.Addr, ":9000"},
		{"server.token", cfg.Server.Token, "secret"},
		{"server.read_timeout default", cfg.Server.ReadTimeoutSeconds, 10},
		{"sentry.traces_sample_rate", cfg.Sentry.TracesSampleRate, 0.2},
	}
	for _, c := range checks {
		assert.Equal(t, c.want, c.got, c.name)
	}
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "config.json", `{"vehicle":{"mass_kg":300},"server":{"addr":":7000"}}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 300.0, cfg.Vehicle.MassKg)
	assert.Equal(t, "eclipse", cfg.Vehicle.Name)
	assert.Equal(t, ":7000", cfg.Server.Addr)
}

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, model.DefaultVehicle(), cfg.Vehicle)
	assert.Equal(t, "scan", cfg.Solver.Strategy)
	assert.Equal(t, "memory", cfg.History.Type)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.False(t, cfg.MQTT.Enabled)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SOLAR_VEHICLE__MASS_KG", "255")
	t.Setenv("SOLAR_SOLVER__STRATEGY", "bisect")
	t.Setenv("SOLAR_SERVER__ADDR", ":8181")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 255.0, cfg.Vehicle.MassKg)
	assert.Equal(t, "bisect", cfg.Solver.Strategy)
	assert.Equal(t, ":8181", cfg.Server.Addr)
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"vehicle":  "vehicle:\n  mass_kg: -1\n",
		"strategy": "solver:\n  strategy: \"newton\"\n",
		"mqtt":     "mqtt:\n  enabled: true\n",
		"sentry":   "sentry:\n  traces_sample_rate: 3\n",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, "config.yaml", data))
			assert.Error(t, err)
		})
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	_, err := Load(writeFile(t, "config.toml", "a = 1"))
	assert.ErrorContains(t, err, "unsupported config format")
}

func TestLoadVehicleErrorWrapsSentinel(t *testing.T) {
	_, err := Load(writeFile(t, "config.yaml", "vehicle:\n  air_density: 0.0\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInvalidVehicle)
}
