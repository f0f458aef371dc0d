// Package input turns raw form fields into scenario inputs.
package input

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kilianp07/solarcar/core/model"
)

// Field names accepted in a Form.
const (
	FieldDistanceKm   = "distance_km"
	FieldSpeedKmh     = "speed_kmh"
	FieldTimeHours    = "time_hours"
	FieldTimeMinutes  = "time_minutes"
	FieldCurrentSoCWh = "current_soc_wh"
	FieldSolarPowerW  = "solar_power_w"
	FieldTargetSoCWh  = "target_soc_wh"
)

// Form holds raw user input keyed by field name.
type Form map[string]string

// FromValues builds a Form from decoded JSON fields. Numbers are rendered
// back to text so both {"speed_kmh": 60} and {"speed_kmh": "60"} parse the
// same way; null becomes an empty field.
func FromValues(in map[string]any) Form {
	out := make(Form, len(in))
	for k, v := range in {
		switch t := v.(type) {
		case string:
			out[k] = t
		case nil:
			out[k] = ""
		case float64:
			out[k] = strconv.FormatFloat(t, 'g', -1, 64)
		default:
			out[k] = fmt.Sprint(t)
		}
	}
	return out
}

// Fields returns the form fields each scenario reads, in display order.
func Fields(sc model.ScenarioType) []string {
	switch sc {
	case model.ScenarioTimeFromSpeed:
		return []string{FieldDistanceKm, FieldSpeedKmh, FieldCurrentSoCWh, FieldSolarPowerW}
	case model.ScenarioSpeedFromTime:
		return []string{FieldDistanceKm, FieldTimeHours, FieldTimeMinutes, FieldCurrentSoCWh, FieldSolarPowerW}
	case model.ScenarioDistanceFromSpeedTime:
		return []string{FieldSpeedKmh, FieldTimeHours, FieldTimeMinutes, FieldCurrentSoCWh, FieldSolarPowerW}
	case model.ScenarioRequiredSpeed:
		return []string{FieldTargetSoCWh, FieldCurrentSoCWh, FieldSolarPowerW, FieldDistanceKm}
	default:
		return nil
	}
}

// Number parses a required numeric field.
func (f Form) Number(name string) (float64, error) {
	raw := strings.TrimSpace(f[name])
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &model.ValidationError{Field: name, Value: raw}
	}
	return v, nil
}

// lenient parses an optional field, treating anything unparsable as zero.
func (f Form) lenient(name string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(f[name]), 64)
	if err != nil {
		return 0
	}
	return v
}

// Hours combines the hours and minutes fields into decimal hours. Missing or
// unparsable parts count as zero so that a blank duration reaches the
// scenario's own time checks.
func (f Form) Hours() float64 {
	return model.Duration(f.lenient(FieldTimeHours), f.lenient(FieldTimeMinutes))
}

// numbers parses the named required fields in order and stops at the first
// failure.
func (f Form) numbers(names ...string) ([]float64, error) {
	out := make([]float64, len(names))
	for i, n := range names {
		v, err := f.Number(n)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// TimeFromSpeed builds the time-from-speed input.
func (f Form) TimeFromSpeed() (model.TimeFromSpeedInput, error) {
	v, err := f.numbers(FieldDistanceKm, FieldSpeedKmh, FieldCurrentSoCWh, FieldSolarPowerW)
	if err != nil {
		return model.TimeFromSpeedInput{}, err
	}
	return model.TimeFromSpeedInput{DistanceKm: v[0], SpeedKmh: v[1], CurrentSoCWh: v[2], SolarPowerW: v[3]}, nil
}

// SpeedFromTime builds the speed-from-time input.
func (f Form) SpeedFromTime() (model.SpeedFromTimeInput, error) {
	v, err := f.numbers(FieldDistanceKm, FieldCurrentSoCWh, FieldSolarPowerW)
	if err != nil {
		return model.SpeedFromTimeInput{}, err
	}
	return model.SpeedFromTimeInput{DistanceKm: v[0], ArrivalTimeHours: f.Hours(), CurrentSoCWh: v[1], SolarPowerW: v[2]}, nil
}

// DistanceFromSpeedTime builds the distance-from-speed-and-time input.
func (f Form) DistanceFromSpeedTime() (model.DistanceFromSpeedTimeInput, error) {
	v, err := f.numbers(FieldSpeedKmh, FieldCurrentSoCWh, FieldSolarPowerW)
	if err != nil {
		return model.DistanceFromSpeedTimeInput{}, err
	}
	return model.DistanceFromSpeedTimeInput{SpeedKmh: v[0], TravelTimeHours: f.Hours(), CurrentSoCWh: v[1], SolarPowerW: v[2]}, nil
}

// RequiredSpeed builds the required-speed input.
func (f Form) RequiredSpeed() (model.RequiredSpeedInput, error) {
	v, err := f.numbers(FieldTargetSoCWh, FieldCurrentSoCWh, FieldSolarPowerW, FieldDistanceKm)
	if err != nil {
		return model.RequiredSpeedInput{}, err
	}
	return model.RequiredSpeedInput{TargetSoCWh: v[0], CurrentSoCWh: v[1], SolarPowerW: v[2], DistanceKm: v[3]}, nil
}
