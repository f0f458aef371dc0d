package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/solarcar/core/factory"
	"github.com/kilianp07/solarcar/core/metrics"
	"github.com/kilianp07/solarcar/core/model"
	"github.com/kilianp07/solarcar/infra/monitoring"
	"github.com/kilianp07/solarcar/infra/mqtt"
)

// EnvPrefix marks environment variables that override file settings.
// SOLAR_VEHICLE__MASS_KG=250 sets vehicle.mass_kg.
const EnvPrefix = "SOLAR_"

type Config struct {
	Vehicle model.VehicleParameters `json:"vehicle"`
	Solver  SolverConfig            `json:"solver"`
	History factory.ModuleConfig    `json:"history"`
	Metrics metrics.Config          `json:"metrics"`
	MQTT    mqtt.Config             `json:"mqtt"`
	Server  ServerConfig            `json:"server"`
	Sentry  monitoring.SentryConfig `json:"sentry"`
}

// Default returns the configuration used when no file is given: the Eclipse
// car, first-fit search, in-memory history and no external sinks.
func Default() Config {
	return Config{
		Vehicle: model.DefaultVehicle(),
		Solver:  SolverConfig{Strategy: "scan"},
		History: factory.ModuleConfig{Type: "memory", Conf: map[string]any{"max_records": 1000}},
		Server:  ServerConfig{Addr: ":8080"},
	}
}

// Load reads path on top of Default, then applies SOLAR_ environment
// overrides. An empty path loads defaults and environment only.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		parser, err := parserFor(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, err
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	cfg := Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func parserFor(path string) (koanf.Parser, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
}

// SetDefaults fills settings left empty by the file.
func (c *Config) SetDefaults() {
	if c.Vehicle.Name == "" {
		c.Vehicle.Name = "custom"
	}
	if c.History.Type == "" {
		c.History.Type = "memory"
	}
	c.Server.SetDefaults()
	if c.MQTT.Enabled {
		c.MQTT.SetDefaults()
	}
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Vehicle.Validate(); err != nil {
		return fmt.Errorf("vehicle: %w", err)
	}
	if err := c.Solver.Validate(); err != nil {
		return fmt.Errorf("solver: %w", err)
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.MQTT.Validate(); err != nil {
		return err
	}
	if err := c.Sentry.Validate(); err != nil {
		return err
	}
	return nil
}
