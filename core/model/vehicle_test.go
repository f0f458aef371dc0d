package model

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultVehicleValid(t *testing.T) {
	v := DefaultVehicle()
	require.NoError(t, v.Validate())
	assert.Equal(t, 240.0, v.MassKg)
	assert.InDelta(t, 14.1264, v.RollingForceN(), 1e-9)
	assert.InDelta(t, 0.065808, v.DragArea(), 1e-9)
}

func TestVehicleValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*VehicleParameters)
		ok     bool
	}{
		{"zero mass", func(v *VehicleParameters) { v.MassKg = 0 }, false},
		{"negative crr", func(v *VehicleParameters) { v.RollingResistance = -0.1 }, false},
		{"zero crr", func(v *VehicleParameters) { v.RollingResistance = 0 }, true},
		{"zero area", func(v *VehicleParameters) { v.FrontalAreaM2 = 0 }, false},
		{"nan cd", func(v *VehicleParameters) { v.DragCoefficient = math.NaN() }, false},
		{"inf density", func(v *VehicleParameters) { v.AirDensity = math.Inf(1) }, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			v := DefaultVehicle()
			c.mutate(&v)
			err := v.Validate()
			if c.ok {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, ErrInvalidVehicle), "got %v", err)
		})
	}
}
