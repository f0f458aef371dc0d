package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/solarcar/core/metrics"
)

// PromSink records calculation events in Prometheus metrics.
type PromSink struct {
	calculations *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	speed        *prometheus.HistogramVec
	arrivalSoC   *prometheus.GaugeVec
}

// NewPromSink registers calculation metrics on the default Prometheus registerer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	calculations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "solarcar_calculations_total",
		Help: "Total number of scenario calculations by outcome",
	}, []string{"scenario", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "solarcar_calculation_duration_seconds",
		Help:    "Time spent solving a scenario",
		Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
	}, []string{"scenario"})
	speed := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "solarcar_speed_kmh",
		Help:    "Cruising speed of successful calculations",
		Buckets: prometheus.LinearBuckets(10, 10, 15),
	}, []string{"scenario"})
	arrival := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "solarcar_arrival_soc_wh",
		Help: "Projected state of charge at arrival of the latest calculation",
	}, []string{"scenario"})

	var err error
	if calculations, err = register(reg, calculations); err != nil {
		return nil, err
	}
	if duration, err = register(reg, duration); err != nil {
		return nil, err
	}
	if speed, err = register(reg, speed); err != nil {
		return nil, err
	}
	if arrival, err = register(reg, arrival); err != nil {
		return nil, err
	}
	return &PromSink{calculations: calculations, duration: duration, speed: speed, arrivalSoC: arrival}, nil
}

// register returns the already registered collector when one with the same
// description exists.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordCalculation updates counters, histograms and gauges for the event.
func (s *PromSink) RecordCalculation(ev coremetrics.CalculationEvent) error {
	sc := ev.Scenario.String()
	s.calculations.WithLabelValues(sc, ev.Outcome).Inc()
	s.duration.WithLabelValues(sc).Observe(ev.Elapsed.Seconds())
	if ev.Outcome == coremetrics.OutcomeOK {
		s.speed.WithLabelValues(sc).Observe(ev.Result.SpeedKmh)
		s.arrivalSoC.WithLabelValues(sc).Set(ev.Result.ArrivalSoCWh)
	}
	return nil
}
