// Package infra holds the adapters behind the core interfaces: the zerolog
// logger, Prometheus and InfluxDB sinks, the Paho result publisher and the
// Sentry monitor. Core packages never import infra.
package infra
