package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/kilianp07/solarcar/core/metrics"
	"github.com/kilianp07/solarcar/core/model"
)

func TestPromSinkRecordCalculation(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)

	ok := coremetrics.CalculationEvent{
		Scenario: model.ScenarioRequiredSpeed,
		Outcome:  coremetrics.OutcomeOK,
		Result:   model.Result{SpeedKmh: 90, ArrivalSoCWh: 2020.6},
		Elapsed:  50 * time.Microsecond,
	}
	require.NoError(t, sink.RecordCalculation(ok))
	require.NoError(t, sink.RecordCalculation(ok))
	require.NoError(t, sink.RecordCalculation(coremetrics.CalculationEvent{
		Scenario: model.ScenarioRequiredSpeed,
		Outcome:  coremetrics.OutcomeNotFound,
	}))

	assert.Equal(t, 2.0, testutil.ToFloat64(sink.calculations.WithLabelValues("required-speed", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.calculations.WithLabelValues("required-speed", "not_found")))
	assert.Equal(t, 2020.6, testutil.ToFloat64(sink.arrivalSoC.WithLabelValues("required-speed")))
	assert.Equal(t, 1, testutil.CollectAndCount(sink.speed))
}

func TestPromSinkReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	a, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)
	b, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)
	require.NoError(t, a.RecordCalculation(coremetrics.CalculationEvent{Scenario: model.ScenarioTimeFromSpeed, Outcome: "ok"}))
	assert.Equal(t, 1.0, testutil.ToFloat64(b.calculations.WithLabelValues("time", "ok")))
}

func TestMetricsHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)
	require.NoError(t, sink.RecordCalculation(coremetrics.CalculationEvent{Scenario: model.ScenarioSpeedFromTime, Outcome: "invalid"}))

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()
	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `solarcar_calculations_total{outcome="invalid",scenario="speed"} 1`), string(body))
}
