package model

import (
	"errors"
	"fmt"
	"math"
)

// Gravity is the standard gravitational acceleration in m/s².
const Gravity = 9.81

// ErrInvalidVehicle is returned when vehicle parameters cannot describe a
// physical car.
var ErrInvalidVehicle = errors.New("invalid vehicle parameters")

// VehicleParameters describes the fixed physical properties of a solar car.
// Values are immutable for the lifetime of a calculation and are passed by
// value into the solvers.
type VehicleParameters struct {
	Name              string  `json:"name"`
	MassKg            float64 `json:"mass_kg"`            // total mass including driver
	RollingResistance float64 `json:"rolling_resistance"` // Crr, dimensionless
	FrontalAreaM2     float64 `json:"frontal_area_m2"`    // A, m²
	DragCoefficient   float64 `json:"drag_coefficient"`   // Cd, dimensionless
	AirDensity        float64 `json:"air_density"`        // ρ, kg/m³
}

// DefaultVehicle returns the parameters of the Eclipse solar car.
func DefaultVehicle() VehicleParameters {
	return VehicleParameters{
		Name:              "eclipse",
		MassKg:            240,
		RollingResistance: 0.006,
		FrontalAreaM2:     0.914,
		DragCoefficient:   0.12,
		AirDensity:        1.2,
	}
}

// Validate checks that every parameter is finite and physically meaningful.
// Mass, frontal area and air density must be positive, coefficients must not
// be negative.
func (v VehicleParameters) Validate() error {
	checks := []struct {
		name     string
		val      float64
		positive bool
	}{
		{"mass_kg", v.MassKg, true},
		{"rolling_resistance", v.RollingResistance, false},
		{"frontal_area_m2", v.FrontalAreaM2, true},
		{"drag_coefficient", v.DragCoefficient, false},
		{"air_density", v.AirDensity, true},
	}
	for _, c := range checks {
		if math.IsNaN(c.val) || math.IsInf(c.val, 0) {
			return fmt.Errorf("%w: %s must be finite", ErrInvalidVehicle, c.name)
		}
		if c.positive && c.val <= 0 {
			return fmt.Errorf("%w: %s must be positive", ErrInvalidVehicle, c.name)
		}
		if c.val < 0 {
			return fmt.Errorf("%w: %s must not be negative", ErrInvalidVehicle, c.name)
		}
	}
	return nil
}

// RollingForceN returns the rolling resistance force in newtons.
func (v VehicleParameters) RollingForceN() float64 {
	return v.RollingResistance * v.MassKg * Gravity
}

// DragArea returns the aerodynamic factor 0.5·ρ·A·Cd so that drag force is
// DragArea()·v².
func (v VehicleParameters) DragArea() float64 {
	return 0.5 * v.AirDensity * v.FrontalAreaM2 * v.DragCoefficient
}
