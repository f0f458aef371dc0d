package metrics

import "github.com/kilianp07/solarcar/core/factory"

// Config defines settings for metrics sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
	// PrometheusAddr is the listen address of the /metrics endpoint. Empty
	// disables the endpoint even when a prometheus sink is configured.
	PrometheusAddr string `json:"prometheus_addr"`
}
