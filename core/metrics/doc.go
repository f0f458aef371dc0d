// Package metrics defines how calculation events are observed. Sinks are
// created from configuration through a registry; infra/metrics registers
// Prometheus and InfluxDB implementations. NewMetricsSink returns a MultiSink
// when several sinks are configured.
package metrics
