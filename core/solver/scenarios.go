package solver

import "github.com/kilianp07/solarcar/core/model"

// TimeFromSpeed derives the arrival time of a trip driven at a constant
// speed. Speed must be strictly positive since it divides the distance.
func (s *Solver) TimeFromSpeed(in model.TimeFromSpeedInput) (model.Result, error) {
	if err := requireFinite(
		field{"distance_km", in.DistanceKm},
		field{"speed_kmh", in.SpeedKmh},
		field{"current_soc_wh", in.CurrentSoCWh},
		field{"solar_power_w", in.SolarPowerW},
	); err != nil {
		return model.Result{}, err
	}
	if err := requireNonNegative(field{"distance_km", in.DistanceKm}); err != nil {
		return model.Result{}, err
	}
	if in.SpeedKmh <= 0 {
		return model.Result{}, &model.ValidationError{Field: "speed_kmh", Value: formatFloat(in.SpeedKmh)}
	}
	hours := in.DistanceKm / in.SpeedKmh
	return s.cruise(model.ScenarioTimeFromSpeed, in.DistanceKm, in.SpeedKmh, hours, in.CurrentSoCWh, in.SolarPowerW)
}

// SpeedFromTime derives the speed needed to cover a distance in the given
// arrival time. A zero or negative arrival time yields
// model.ErrArrivalTimeNotPositive.
func (s *Solver) SpeedFromTime(in model.SpeedFromTimeInput) (model.Result, error) {
	if in.ArrivalTimeHours <= 0 {
		return model.Result{}, model.ErrArrivalTimeNotPositive
	}
	if err := requireFinite(
		field{"distance_km", in.DistanceKm},
		field{"arrival_time_hours", in.ArrivalTimeHours},
		field{"current_soc_wh", in.CurrentSoCWh},
		field{"solar_power_w", in.SolarPowerW},
	); err != nil {
		return model.Result{}, err
	}
	if err := requireNonNegative(field{"distance_km", in.DistanceKm}); err != nil {
		return model.Result{}, err
	}
	speed := in.DistanceKm / in.ArrivalTimeHours
	return s.cruise(model.ScenarioSpeedFromTime, in.DistanceKm, speed, in.ArrivalTimeHours, in.CurrentSoCWh, in.SolarPowerW)
}

// DistanceFromSpeedTime derives the distance covered at a constant speed
// during the travel time.
//
// Unlike SpeedFromTime the travel time is not required to be positive: a
// zero time yields a zero distance and the arrival SOC equals the current one.
func (s *Solver) DistanceFromSpeedTime(in model.DistanceFromSpeedTimeInput) (model.Result, error) {
	if err := requireFinite(
		field{"speed_kmh", in.SpeedKmh},
		field{"travel_time_hours", in.TravelTimeHours},
		field{"current_soc_wh", in.CurrentSoCWh},
		field{"solar_power_w", in.SolarPowerW},
	); err != nil {
		return model.Result{}, err
	}
	if err := requireNonNegative(field{"speed_kmh", in.SpeedKmh}); err != nil {
		return model.Result{}, err
	}
	distance := in.SpeedKmh * in.TravelTimeHours
	return s.cruise(model.ScenarioDistanceFromSpeedTime, distance, in.SpeedKmh, in.TravelTimeHours, in.CurrentSoCWh, in.SolarPowerW)
}
