package metrics

import (
	"time"

	"github.com/kilianp07/solarcar/core/model"
)

// Outcome labels of a calculation.
const (
	OutcomeOK       = "ok"
	OutcomeInvalid  = "invalid"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// OutcomeFor classifies the error returned by a calculation.
func OutcomeFor(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case model.IsValidation(err):
		return OutcomeInvalid
	case model.IsNotFound(err):
		return OutcomeNotFound
	default:
		return OutcomeError
	}
}

// CalculationEvent describes one scenario calculation for observability.
type CalculationEvent struct {
	ID       string
	Scenario model.ScenarioType
	Vehicle  string
	Outcome  string
	Result   model.Result
	Elapsed  time.Duration
	Time     time.Time
}

// MetricsSink records calculation events.
type MetricsSink interface {
	RecordCalculation(ev CalculationEvent) error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordCalculation(CalculationEvent) error { return nil }

// MultiSink fans events out to several sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordCalculation forwards the event to every sink, even after a failure,
// and returns the first error encountered.
func (m *MultiSink) RecordCalculation(ev CalculationEvent) error {
	var first error
	for _, s := range m.Sinks {
		if err := s.RecordCalculation(ev); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Close closes every sink that holds resources.
func (m *MultiSink) Close() {
	for _, s := range m.Sinks {
		if c, ok := s.(interface{ Close() }); ok {
			c.Close()
		}
	}
}
