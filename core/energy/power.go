package energy

import "github.com/kilianp07/solarcar/core/model"

// KmhToMs converts km/h to m/s.
func KmhToMs(kmh float64) float64 { return kmh / 3.6 }

// Breakdown splits the power dissipated at a given speed by cause.
type Breakdown struct {
	RollingW float64 `json:"rolling_w"`
	DragW    float64 `json:"drag_w"`
}

// TotalW returns the summed loss in watts.
func (b Breakdown) TotalW() float64 { return b.RollingW + b.DragW }

// LossBreakdown computes rolling and drag power at speedKmh.
//
// Negative speeds are not rejected: the rolling term turns negative and the
// drag term follows the sign of the cube, so callers must guard.
func LossBreakdown(v model.VehicleParameters, speedKmh float64) Breakdown {
	ms := KmhToMs(speedKmh)
	return Breakdown{
		RollingW: v.RollingForceN() * ms,
		DragW:    v.DragArea() * ms * ms * ms,
	}
}

// PowerLoss returns the total power in watts dissipated at speedKmh.
func PowerLoss(v model.VehicleParameters, speedKmh float64) float64 {
	return LossBreakdown(v, speedKmh).TotalW()
}

// EnergyWh integrates a constant power over hours.
func EnergyWh(powerW, hours float64) float64 { return powerW * hours }

// Balance is the power budget of a trip at constant speed.
type Balance struct {
	LossW float64
	GainW float64
}

// NetW returns gain minus loss; positive means net charging.
func (b Balance) NetW() float64 { return b.GainW - b.LossW }

// BalanceAt computes the power balance at speedKmh with solarW of input.
func BalanceAt(v model.VehicleParameters, speedKmh, solarW float64) Balance {
	return Balance{LossW: PowerLoss(v, speedKmh), GainW: solarW}
}
