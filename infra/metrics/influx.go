package metrics

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/solarcar/core/metrics"
	"github.com/kilianp07/solarcar/infra/logger"
)

// InfluxConfig holds the InfluxDB v2 connection settings.
type InfluxConfig struct {
	URL    string `json:"url"`
	Token  string `json:"token"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
}

// InfluxSink writes calculation events to an InfluxDB instance using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(cfg InfluxConfig) *InfluxSink {
	base := strings.TrimSuffix(cfg.URL, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, cfg.Token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a NopSink
// if the health check fails.
func NewInfluxSinkWithFallback(cfg InfluxConfig) coremetrics.MetricsSink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// calculationPoint converts an event to the "calculation" measurement.
func calculationPoint(ev coremetrics.CalculationEvent) *write.Point {
	r := ev.Result
	p := write.NewPointWithMeasurement("calculation").
		AddTag("scenario", ev.Scenario.String()).
		AddTag("outcome", ev.Outcome).
		AddTag("vehicle", ev.Vehicle).
		AddField("calculation_id", ev.ID).
		AddField("elapsed_ms", round3(ev.Elapsed.Seconds()*1000))
	if ev.Outcome == coremetrics.OutcomeOK {
		p = p.AddField("speed_kmh", round3(r.SpeedKmh)).
			AddField("distance_km", round3(r.DistanceKm)).
			AddField("time_hours", round3(r.TimeHours)).
			AddField("loss_w", round3(r.LossW)).
			AddField("net_wh", round3(r.NetWh)).
			AddField("arrival_soc_wh", round3(r.ArrivalSoCWh))
	}
	return p.SetTime(ev.Time)
}

// RecordCalculation writes the event as a line protocol point.
func (s *InfluxSink) RecordCalculation(ev coremetrics.CalculationEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.writeAPI.WritePoint(ctx, calculationPoint(ev))
}

// Close releases the client.
func (s *InfluxSink) Close() { s.client.Close() }

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
