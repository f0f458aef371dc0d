package solver

import (
	"github.com/kilianp07/solarcar/core/energy"
	"github.com/kilianp07/solarcar/core/model"
)

// SweepPoint is the energy picture of a trip driven at one constant speed.
type SweepPoint struct {
	SpeedKmh  float64 `json:"speed_kmh"`
	TimeHours float64 `json:"time_hours"`
	LossW     float64 `json:"loss_w"`
	LossWh    float64 `json:"loss_wh"`
	GainWh    float64 `json:"gain_wh"`
	NetUsedWh float64 `json:"net_used_wh"`
}

func (s *Solver) evaluate(distanceKm, solarW, speedKmh float64) SweepPoint {
	hours := distanceKm / speedKmh
	loss := energy.PowerLoss(s.vehicle, speedKmh)
	p := SweepPoint{
		SpeedKmh:  speedKmh,
		TimeHours: hours,
		LossW:     loss,
		LossWh:    energy.EnergyWh(loss, hours),
		GainWh:    energy.EnergyWh(solarW, hours),
	}
	p.NetUsedWh = p.LossWh - p.GainWh
	return p
}

// Sweep evaluates the trip at each speed. When speeds is empty the
// required-speed search candidates are used. Non-positive speeds are skipped.
func (s *Solver) Sweep(distanceKm, solarW float64, speeds []float64) ([]SweepPoint, error) {
	if err := requireFinite(field{"distance_km", distanceKm}, field{"solar_power_w", solarW}); err != nil {
		return nil, err
	}
	if err := requireNonNegative(field{"distance_km", distanceKm}); err != nil {
		return nil, err
	}
	if len(speeds) == 0 {
		speeds = s.search.Candidates()
	}
	out := make([]SweepPoint, 0, len(speeds))
	for _, v := range speeds {
		if v <= 0 {
			continue
		}
		out = append(out, s.evaluate(distanceKm, solarW, v))
	}
	return out, nil
}

// SweepForBudget is Sweep over the default candidates, annotated with the
// speed RequiredSpeed would pick for the budget, or zero if none.
func (s *Solver) SweepForBudget(in model.RequiredSpeedInput) ([]SweepPoint, float64, error) {
	pts, err := s.Sweep(in.DistanceKm, in.SolarPowerW, nil)
	if err != nil {
		return nil, 0, err
	}
	res, err := s.RequiredSpeed(in)
	if err != nil {
		if model.IsNotFound(err) {
			return pts, 0, nil
		}
		return nil, 0, err
	}
	return pts, res.SpeedKmh, nil
}
