package model

import "fmt"

// ScenarioType identifies which quantity a calculation derives.
type ScenarioType int

const (
	ScenarioTimeFromSpeed ScenarioType = iota
	ScenarioSpeedFromTime
	ScenarioDistanceFromSpeedTime
	ScenarioRequiredSpeed
)

// Scenarios lists every scenario in presentation order.
var Scenarios = []ScenarioType{
	ScenarioTimeFromSpeed,
	ScenarioSpeedFromTime,
	ScenarioDistanceFromSpeedTime,
	ScenarioRequiredSpeed,
}

// String returns the stable slug used in URLs, topics and metric labels.
func (s ScenarioType) String() string {
	switch s {
	case ScenarioTimeFromSpeed:
		return "time"
	case ScenarioSpeedFromTime:
		return "speed"
	case ScenarioDistanceFromSpeedTime:
		return "distance"
	case ScenarioRequiredSpeed:
		return "required-speed"
	default:
		return "unknown"
	}
}

// Title returns a human-readable name for the scenario.
func (s ScenarioType) Title() string {
	switch s {
	case ScenarioTimeFromSpeed:
		return "Arrival Time from Speed"
	case ScenarioSpeedFromTime:
		return "Required Speed from Time"
	case ScenarioDistanceFromSpeedTime:
		return "Distance from Speed & Time"
	case ScenarioRequiredSpeed:
		return "Required Speed from Target SOC"
	default:
		return "Unknown"
	}
}

// ParseScenarioType converts a slug back to a ScenarioType.
func ParseScenarioType(s string) (ScenarioType, error) {
	for _, t := range Scenarios {
		if t.String() == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown scenario %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (s ScenarioType) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *ScenarioType) UnmarshalText(b []byte) error {
	t, err := ParseScenarioType(string(b))
	if err != nil {
		return err
	}
	*s = t
	return nil
}

// TimeFromSpeedInput holds the known quantities of the time-from-speed scenario.
type TimeFromSpeedInput struct {
	DistanceKm   float64 `json:"distance_km"`
	SpeedKmh     float64 `json:"speed_kmh"`
	CurrentSoCWh float64 `json:"current_soc_wh"`
	SolarPowerW  float64 `json:"solar_power_w"`
}

// SpeedFromTimeInput holds the known quantities of the speed-from-time scenario.
type SpeedFromTimeInput struct {
	DistanceKm       float64 `json:"distance_km"`
	ArrivalTimeHours float64 `json:"arrival_time_hours"`
	CurrentSoCWh     float64 `json:"current_soc_wh"`
	SolarPowerW      float64 `json:"solar_power_w"`
}

// DistanceFromSpeedTimeInput holds the known quantities of the
// distance-from-speed-and-time scenario.
type DistanceFromSpeedTimeInput struct {
	SpeedKmh        float64 `json:"speed_kmh"`
	TravelTimeHours float64 `json:"travel_time_hours"`
	CurrentSoCWh    float64 `json:"current_soc_wh"`
	SolarPowerW     float64 `json:"solar_power_w"`
}

// RequiredSpeedInput holds the known quantities of the required-speed scenario.
type RequiredSpeedInput struct {
	DistanceKm   float64 `json:"distance_km"`
	CurrentSoCWh float64 `json:"current_soc_wh"`
	TargetSoCWh  float64 `json:"target_soc_wh"`
	SolarPowerW  float64 `json:"solar_power_w"`
}

// Result is the outcome of one scenario calculation.
//
// Power figures (W) are the instantaneous rates at the cruising speed, energy
// figures (Wh) are the same rates integrated over the trip. Both families are
// always filled and Net is always gain minus loss.
type Result struct {
	Scenario     ScenarioType `json:"scenario"`
	DistanceKm   float64      `json:"distance_km"`
	SpeedKmh     float64      `json:"speed_kmh"`
	TimeHours    float64      `json:"time_hours"`
	Hours        int          `json:"hours"`
	Minutes      int          `json:"minutes"`
	CurrentSoCWh float64      `json:"current_soc_wh"`
	ArrivalSoCWh float64      `json:"arrival_soc_wh"`

	LossW float64 `json:"loss_w"`
	GainW float64 `json:"gain_w"`
	NetW  float64 `json:"net_w"`

	LossWh float64 `json:"loss_wh"`
	GainWh float64 `json:"gain_wh"`
	NetWh  float64 `json:"net_wh"`
}

// NetUsedWh returns the energy drawn from the battery over the trip, the
// opposite of NetWh.
func (r Result) NetUsedWh() float64 { return r.LossWh - r.GainWh }
