package solver

import (
	"math"
	"strconv"

	"github.com/kilianp07/solarcar/core/energy"
	"github.com/kilianp07/solarcar/core/logger"
	"github.com/kilianp07/solarcar/core/model"
)

// Solver computes scenario results for one vehicle.
type Solver struct {
	vehicle  model.VehicleParameters
	search   SearchConfig
	strategy Strategy
	log      logger.Logger
}

// Option customises a Solver.
type Option func(*Solver)

// WithLogger sets the logger used for search diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(s *Solver) {
		if l != nil {
			s.log = l
		}
	}
}

// WithStrategy selects how RequiredSpeed searches for a speed.
func WithStrategy(st Strategy) Option {
	return func(s *Solver) { s.strategy = st }
}

// New returns a Solver for the given vehicle. The vehicle is validated once
// and then used read-only.
func New(v model.VehicleParameters, opts ...Option) (*Solver, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	s := &Solver{
		vehicle:  v,
		search:   DefaultSearch(),
		strategy: StrategyScan,
		log:      nopLogger{},
	}
	for _, o := range opts {
		o(s)
	}
	if _, err := ParseStrategy(string(s.strategy)); err != nil {
		return nil, err
	}
	return s, nil
}

// Vehicle returns the parameters the solver was built with.
func (s *Solver) Vehicle() model.VehicleParameters { return s.vehicle }

// Strategy returns the required-speed search strategy.
func (s *Solver) Strategy() Strategy { return s.strategy }

// PowerLoss returns the loss in watts at speedKmh for the solver's vehicle.
func (s *Solver) PowerLoss(speedKmh float64) float64 {
	return energy.PowerLoss(s.vehicle, speedKmh)
}

// cruise fills the shared part of a result for a trip at constant speed.
// Every derived figure must be finite and the whole hours must fit an int.
func (s *Solver) cruise(sc model.ScenarioType, distanceKm, speedKmh, hours, socWh, solarW float64) (model.Result, error) {
	if err := requireFinite(
		field{"distance_km", distanceKm},
		field{"speed_kmh", speedKmh},
		field{"time_hours", hours},
	); err != nil {
		return model.Result{}, err
	}
	if math.Abs(hours) >= maxSplitHours {
		return model.Result{}, &model.ValidationError{Field: "time_hours", Value: formatFloat(hours)}
	}
	bal := energy.BalanceAt(s.vehicle, speedKmh, solarW)
	h, m := model.SplitHours(hours)
	res := model.Result{
		Scenario:     sc,
		DistanceKm:   distanceKm,
		SpeedKmh:     speedKmh,
		TimeHours:    hours,
		Hours:        h,
		Minutes:      m,
		CurrentSoCWh: socWh,
		ArrivalSoCWh: socWh + energy.EnergyWh(bal.NetW(), hours),
		LossW:        bal.LossW,
		GainW:        bal.GainW,
		NetW:         bal.NetW(),
		LossWh:       energy.EnergyWh(bal.LossW, hours),
		GainWh:       energy.EnergyWh(bal.GainW, hours),
		NetWh:        energy.EnergyWh(bal.NetW(), hours),
	}
	if err := requireFinite(
		field{"loss_w", res.LossW},
		field{"net_w", res.NetW},
		field{"loss_wh", res.LossWh},
		field{"gain_wh", res.GainWh},
		field{"net_wh", res.NetWh},
		field{"arrival_soc_wh", res.ArrivalSoCWh},
	); err != nil {
		return model.Result{}, err
	}
	return res, nil
}

// maxSplitHours is the first duration whose whole hours no longer fit an int.
const maxSplitHours = float64(math.MaxInt64)

type field struct {
	name string
	val  float64
}

// requireFinite rejects NaN and infinite values as invalid numbers.
func requireFinite(fields ...field) error {
	for _, f := range fields {
		if math.IsNaN(f.val) || math.IsInf(f.val, 0) {
			return &model.ValidationError{Field: f.name, Value: formatFloat(f.val)}
		}
	}
	return nil
}

// requireNonNegative rejects negative speeds and distances.
func requireNonNegative(fields ...field) error {
	for _, f := range fields {
		if f.val < 0 {
			return &model.ValidationError{Field: f.name, Value: formatFloat(f.val)}
		}
	}
	return nil
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Infow(string, map[string]any)  {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
