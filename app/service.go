package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/kilianp07/solarcar/api/scenarios"
	"github.com/kilianp07/solarcar/config"
	"github.com/kilianp07/solarcar/core/history"
	coremetrics "github.com/kilianp07/solarcar/core/metrics"
	coremon "github.com/kilianp07/solarcar/core/monitoring"
	"github.com/kilianp07/solarcar/core/solver"
	"github.com/kilianp07/solarcar/infra/logger"
	"github.com/kilianp07/solarcar/infra/metrics"
	"github.com/kilianp07/solarcar/infra/monitoring"
	"github.com/kilianp07/solarcar/infra/mqtt"
)

// Service wires the calculator to its storage, metrics, broker and HTTP API.
type Service struct {
	Calculator *Calculator
	cfg        config.Config
	store      history.Store
	sink       coremetrics.MetricsSink
	publisher  *mqtt.PahoPublisher
	log        logger.Logger
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	log := logger.New("service")
	mon, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	coremon.Init(mon)

	opts := append([]solver.Option{solver.WithLogger(logger.New("solver"))}, cfg.Solver.Options()...)
	slv, err := solver.New(cfg.Vehicle, opts...)
	if err != nil {
		return nil, fmt.Errorf("solver: %w", err)
	}
	store, err := history.NewStore(cfg.History)
	if err != nil {
		return nil, fmt.Errorf("history store: %w", err)
	}
	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("metrics sink: %w", err)
	}

	svc := &Service{cfg: *cfg, store: store, sink: sink, log: log}
	svc.Calculator = NewCalculator(slv,
		WithStore(store),
		WithSink(sink),
		WithLogger(logger.New("calculator")),
	)
	if cfg.MQTT.Enabled {
		pub, err := mqtt.NewPahoPublisher(cfg.MQTT, svc.Calculator.Calculate)
		if err != nil {
			_ = svc.Close()
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
		svc.publisher = pub
		svc.Calculator.publisher = pub
	}
	log.Infow("service ready", map[string]any{
		"vehicle":  cfg.Vehicle.Name,
		"strategy": string(slv.Strategy()),
		"history":  cfg.History.Type,
		"mqtt":     cfg.MQTT.Enabled,
	})
	return svc, nil
}

// Handler returns the HTTP API.
func (s *Service) Handler() http.Handler {
	return scenarios.NewHandler(s.Calculator, s.cfg.Server.Token)
}

// Run serves the HTTP API, and /metrics when a Prometheus sink and address
// are configured, until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if s.promEnabled() {
		go func() {
			defer coremon.Recover()
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusAddr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.cfg.Server.ReadTimeout(),
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("listening on %s", s.cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout())
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Service) promEnabled() bool {
	if s.cfg.Metrics.PrometheusAddr == "" {
		return false
	}
	for _, c := range s.cfg.Metrics.Sinks {
		if c.Type == "prometheus" {
			return true
		}
	}
	return false
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	var errs []error
	if s.Calculator != nil {
		s.Calculator.Close()
	}
	if s.publisher != nil {
		errs = append(errs, s.publisher.Close())
	}
	if c, ok := s.sink.(interface{ Close() }); ok {
		c.Close()
	}
	if s.store != nil {
		errs = append(errs, s.store.Close())
	}
	coremon.Flush(2 * time.Second)
	return errors.Join(errs...)
}
