package solver

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/kilianp07/solarcar/core/model"
)

// Strategy selects how RequiredSpeed looks for a cruising speed.
type Strategy string

const (
	// StrategyScan accepts the first candidate speed, in ascending order,
	// whose energy use is within tolerance of the budget.
	StrategyScan Strategy = "scan"
	// StrategyBisect starts from the scan hit, walks the candidates until
	// the energy balance changes sign and bisects that interval. It returns
	// a fractional speed and falls back to the scan hit when no candidate
	// pair brackets the budget.
	StrategyBisect Strategy = "bisect"
)

// ParseStrategy validates a strategy name. The empty string means scan.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case "", StrategyScan:
		return StrategyScan, nil
	case StrategyBisect:
		return StrategyBisect, nil
	default:
		return "", fmt.Errorf("unknown search strategy %q", s)
	}
}

// SearchConfig bounds the required-speed search.
type SearchConfig struct {
	MinSpeedKmh float64
	MaxSpeedKmh float64
	StepKmh     float64
	ToleranceWh float64
}

// DefaultSearch scans 5..149 km/h by 1 km/h and accepts a 50 Wh mismatch.
func DefaultSearch() SearchConfig {
	return SearchConfig{MinSpeedKmh: 5, MaxSpeedKmh: 149, StepKmh: 1, ToleranceWh: 50}
}

// Candidates returns the ascending candidate speeds, bounds included.
func (c SearchConfig) Candidates() []float64 {
	n := int(math.Floor((c.MaxSpeedKmh-c.MinSpeedKmh)/c.StepKmh)) + 1
	if n < 2 {
		return []float64{c.MinSpeedKmh}
	}
	upper := c.MinSpeedKmh + float64(n-1)*c.StepKmh
	return floats.Span(make([]float64, n), c.MinSpeedKmh, upper)
}

const (
	bisectMaxIter = 60
	bisectTolKmh  = 1e-6
)

// RequiredSpeed finds a cruising speed that spends the energy budget
// current SOC minus target SOC over the distance. It returns
// model.ErrNoFeasibleSpeed when no candidate satisfies the tolerance.
func (s *Solver) RequiredSpeed(in model.RequiredSpeedInput) (model.Result, error) {
	if err := requireFinite(
		field{"distance_km", in.DistanceKm},
		field{"current_soc_wh", in.CurrentSoCWh},
		field{"target_soc_wh", in.TargetSoCWh},
		field{"solar_power_w", in.SolarPowerW},
	); err != nil {
		return model.Result{}, err
	}
	if err := requireNonNegative(field{"distance_km", in.DistanceKm}); err != nil {
		return model.Result{}, err
	}
	budget := in.CurrentSoCWh - in.TargetSoCWh

	speed, ok := s.scan(in.DistanceKm, in.SolarPowerW, budget)
	if ok && s.strategy == StrategyBisect {
		speed = s.bisect(in.DistanceKm, in.SolarPowerW, budget, speed)
	}
	if !ok {
		s.log.Debugw("required speed search exhausted", map[string]any{
			"distance_km": in.DistanceKm,
			"budget_wh":   budget,
			"solar_w":     in.SolarPowerW,
		})
		return model.Result{}, model.ErrNoFeasibleSpeed
	}
	hours := in.DistanceKm / speed
	res, err := s.cruise(model.ScenarioRequiredSpeed, in.DistanceKm, speed, hours, in.CurrentSoCWh, in.SolarPowerW)
	if err != nil {
		return model.Result{}, err
	}
	s.log.Debugw("required speed found", map[string]any{
		"strategy":    string(s.strategy),
		"speed_kmh":   speed,
		"residual_wh": res.NetUsedWh() - budget,
	})
	return res, nil
}

// residual is the energy used at speedKmh minus the budget.
func (s *Solver) residual(distanceKm, solarW, budgetWh, speedKmh float64) float64 {
	return s.evaluate(distanceKm, solarW, speedKmh).NetUsedWh - budgetWh
}

// scan returns the first candidate whose residual is within tolerance.
func (s *Solver) scan(distanceKm, solarW, budgetWh float64) (float64, bool) {
	for _, v := range s.search.Candidates() {
		if math.Abs(s.residual(distanceKm, solarW, budgetWh, v)) < s.search.ToleranceWh {
			return v, true
		}
	}
	return 0, false
}

// bisect refines a scan hit. The energy used grows with speed for any
// non-negative solar input, so the root lies below the hit when it overshoots
// the budget and above it otherwise. The tolerance may accept a hit several
// steps away from the root.
func (s *Solver) bisect(distanceKm, solarW, budgetWh, hit float64) float64 {
	f := func(v float64) float64 { return s.residual(distanceKm, solarW, budgetWh, v) }
	fHit := f(hit)
	if fHit == 0 {
		return hit
	}
	lo, hi, ok := s.bracket(f, hit, fHit)
	if !ok {
		return hit
	}
	fLo := f(lo)
	for i := 0; i < bisectMaxIter && hi-lo > bisectTolKmh; i++ {
		mid := (lo + hi) / 2
		fm := f(mid)
		if fm == 0 {
			return mid
		}
		if (fm < 0) == (fLo < 0) {
			lo, fLo = mid, fm
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}

// bracket walks the candidates from hit towards the root and returns the
// first adjacent pair whose residuals differ in sign.
func (s *Solver) bracket(f func(float64) float64, hit, fHit float64) (lo, hi float64, ok bool) {
	c := s.search.Candidates()
	i := sort.SearchFloat64s(c, hit)
	dir := 1
	if fHit > 0 {
		dir = -1
	}
	prev, fPrev := hit, fHit
	for j := i + dir; j >= 0 && j < len(c); j += dir {
		fv := f(c[j])
		if fv == 0 || (fv < 0) != (fPrev < 0) {
			if c[j] < prev {
				return c[j], prev, true
			}
			return prev, c[j], true
		}
		prev, fPrev = c[j], fv
	}
	return 0, 0, false
}
