package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/solarcar/core/factory"
	coremetrics "github.com/kilianp07/solarcar/core/metrics"
	"github.com/kilianp07/solarcar/core/model"
)

func TestInfluxSink_RecordCalculation(t *testing.T) {
	var (
		mu   sync.Mutex
		body string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		mu.Lock()
		body = string(data)
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	sink := NewInfluxSink(InfluxConfig{URL: srv.URL, Token: "token", Org: "org", Bucket: "bucket"})
	defer sink.Close()
	now := time.Now()
	ev := coremetrics.CalculationEvent{
		ID:       "calc-1",
		Scenario: model.ScenarioTimeFromSpeed,
		Vehicle:  "eclipse",
		Outcome:  coremetrics.OutcomeOK,
		Result:   model.Result{SpeedKmh: 100, DistanceKm: 100, TimeHours: 1, LossW: 1802.8938, NetWh: -1302.8938, ArrivalSoCWh: 1697.1062},
		Elapsed:  2 * time.Millisecond,
		Time:     now,
	}
	require.NoError(t, sink.RecordCalculation(ev))

	p := write.NewPointWithMeasurement("calculation").
		AddTag("scenario", "time").
		AddTag("outcome", "ok").
		AddTag("vehicle", "eclipse").
		AddField("calculation_id", "calc-1").
		AddField("elapsed_ms", 2.0).
		AddField("speed_kmh", 100.0).
		AddField("distance_km", 100.0).
		AddField("time_hours", 1.0).
		AddField("loss_w", 1802.894).
		AddField("net_wh", -1302.894).
		AddField("arrival_soc_wh", 1697.106).
		SetTime(now)
	expected := strings.TrimSpace(write.PointToLineProtocol(p, time.Nanosecond))
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, expected, strings.TrimSpace(body))
}

func TestInfluxPointSkipsResultOnFailure(t *testing.T) {
	p := calculationPoint(coremetrics.CalculationEvent{Scenario: model.ScenarioRequiredSpeed, Outcome: coremetrics.OutcomeNotFound})
	line := write.PointToLineProtocol(p, time.Nanosecond)
	assert.NotContains(t, line, "speed_kmh")
	assert.Contains(t, line, "outcome=not_found")
}

func TestNewInfluxSinkWithFallback(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			called = true
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}))
	defer srv.Close()

	sink := NewInfluxSinkWithFallback(InfluxConfig{URL: srv.URL + "/api/v2/write", Token: "tok", Org: "org", Bucket: "bucket"})
	_, isInflux := sink.(*InfluxSink)
	assert.False(t, isInflux, "expected NopSink on failing health check")
	assert.True(t, called)
}

func TestSinkFactories(t *testing.T) {
	assert.Contains(t, coremetrics.SinkTypes(), "prometheus")
	assert.Contains(t, coremetrics.SinkTypes(), "influx")
	s, err := coremetrics.NewMetricsSink([]factory.ModuleConfig{{Type: "prometheus"}})
	require.NoError(t, err)
	assert.IsType(t, &PromSink{}, s)
}
