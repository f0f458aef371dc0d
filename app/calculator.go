package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kilianp07/solarcar/core/history"
	"github.com/kilianp07/solarcar/core/input"
	"github.com/kilianp07/solarcar/core/logger"
	coremetrics "github.com/kilianp07/solarcar/core/metrics"
	"github.com/kilianp07/solarcar/core/model"
	coremon "github.com/kilianp07/solarcar/core/monitoring"
	coremqtt "github.com/kilianp07/solarcar/core/mqtt"
	"github.com/kilianp07/solarcar/core/report"
	"github.com/kilianp07/solarcar/core/solver"
	inflog "github.com/kilianp07/solarcar/infra/logger"
	"github.com/kilianp07/solarcar/internal/eventbus"
)

// Calculator runs scenario calculations from raw form input and records every
// outcome to the configured history store, metrics sink and publisher.
type Calculator struct {
	solver    *solver.Solver
	store     history.Store
	sink      coremetrics.MetricsSink
	publisher coremqtt.Publisher
	bus       *eventbus.Bus[history.Record]
	log       logger.Logger
	now       func() time.Time
}

// Option customizes a Calculator.
type Option func(*Calculator)

// WithStore sets the history store.
func WithStore(s history.Store) Option { return func(c *Calculator) { c.store = s } }

// WithSink sets the metrics sink.
func WithSink(s coremetrics.MetricsSink) Option { return func(c *Calculator) { c.sink = s } }

// WithPublisher sets the record publisher.
func WithPublisher(p coremqtt.Publisher) Option { return func(c *Calculator) { c.publisher = p } }

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option { return func(c *Calculator) { c.log = l } }

// NewCalculator wraps s. Unset collaborators default to an in-memory store
// and no-op sink and publisher.
func NewCalculator(s *solver.Solver, opts ...Option) *Calculator {
	c := &Calculator{
		solver:    s,
		store:     history.NewMemoryStore(1000),
		sink:      coremetrics.NopSink{},
		publisher: coremqtt.NopPublisher{},
		bus:       eventbus.New[history.Record](16),
		log:       inflog.NopLogger{},
		now:       time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Vehicle returns the parameters the calculator solves with.
func (c *Calculator) Vehicle() model.VehicleParameters { return c.solver.Vehicle() }

// Solve parses form for the scenario and runs the matching solver.
func (c *Calculator) Solve(sc model.ScenarioType, form input.Form) (model.Result, error) {
	switch sc {
	case model.ScenarioTimeFromSpeed:
		in, err := form.TimeFromSpeed()
		if err != nil {
			return model.Result{}, err
		}
		return c.solver.TimeFromSpeed(in)
	case model.ScenarioSpeedFromTime:
		in, err := form.SpeedFromTime()
		if err != nil {
			return model.Result{}, err
		}
		return c.solver.SpeedFromTime(in)
	case model.ScenarioDistanceFromSpeedTime:
		in, err := form.DistanceFromSpeedTime()
		if err != nil {
			return model.Result{}, err
		}
		return c.solver.DistanceFromSpeedTime(in)
	case model.ScenarioRequiredSpeed:
		in, err := form.RequiredSpeed()
		if err != nil {
			return model.Result{}, err
		}
		return c.solver.RequiredSpeed(in)
	default:
		return model.Result{}, fmt.Errorf("unknown scenario %d", int(sc))
	}
}

// Calculate solves the scenario and records the outcome. The returned record
// is complete even when err is not nil; err is the calculation error only.
func (c *Calculator) Calculate(ctx context.Context, sc model.ScenarioType, form map[string]string) (history.Record, error) {
	rec := history.NewRecord(sc, c.solver.Vehicle().Name, form)
	start := c.now()
	res, err := c.Solve(sc, input.Form(form))
	elapsed := c.now().Sub(start)

	rec.Outcome = coremetrics.OutcomeFor(err)
	rec.Status = report.Status(res, err)
	if err != nil {
		rec.Error = err.Error()
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			c.log.Debugw("invalid input", map[string]any{"scenario": sc.String(), "field": verr.Field})
		}
	} else {
		rec.Result = &res
	}

	c.record(ctx, rec, res, elapsed)
	return rec, err
}

// record fans rec out. Failures are logged and reported, never returned.
func (c *Calculator) record(ctx context.Context, rec history.Record, res model.Result, elapsed time.Duration) {
	if err := c.store.Append(ctx, rec); err != nil {
		c.fail("history", err)
	}
	ev := coremetrics.CalculationEvent{
		ID:       rec.ID,
		Scenario: rec.Scenario,
		Vehicle:  rec.Vehicle,
		Outcome:  rec.Outcome,
		Result:   res,
		Elapsed:  elapsed,
		Time:     rec.Timestamp,
	}
	if err := c.sink.RecordCalculation(ev); err != nil {
		c.fail("metrics", err)
	}
	if err := c.publisher.PublishRecord(ctx, rec); err != nil {
		c.fail("mqtt", err)
	}
	c.bus.Publish(rec)
	c.log.Infow("calculation", map[string]any{
		"id":       rec.ID,
		"scenario": rec.Scenario.String(),
		"outcome":  rec.Outcome,
	})
}

func (c *Calculator) fail(module string, err error) {
	c.log.Errorf("%s: %v", module, err)
	coremon.CaptureException(err, map[string]string{"module": module})
}

// Subscribe streams every record produced after the call until ctx is done.
func (c *Calculator) Subscribe(ctx context.Context) <-chan history.Record {
	return c.bus.Subscribe(ctx)
}

// Close ends every live subscription.
func (c *Calculator) Close() { c.bus.Close() }

// History returns recorded calculations matching q.
func (c *Calculator) History(ctx context.Context, q history.Query) ([]history.Record, error) {
	return c.store.Query(ctx, q)
}

// Sweep evaluates the trip over the candidate speeds. When a target budget is
// given the speed the required-speed scenario would pick is returned too.
func (c *Calculator) Sweep(in model.RequiredSpeedInput, withBudget bool) ([]solver.SweepPoint, float64, error) {
	if withBudget {
		return c.solver.SweepForBudget(in)
	}
	pts, err := c.solver.Sweep(in.DistanceKm, in.SolarPowerW, nil)
	return pts, 0, err
}
