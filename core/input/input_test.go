package input

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/solarcar/core/model"
)

func TestTimeFromSpeedForm(t *testing.T) {
	f := Form{FieldDistanceKm: " 100 ", FieldSpeedKmh: "100", FieldCurrentSoCWh: "3000", FieldSolarPowerW: "5e2"}
	in, err := f.TimeFromSpeed()
	require.NoError(t, err)
	assert.Equal(t, model.TimeFromSpeedInput{DistanceKm: 100, SpeedKmh: 100, CurrentSoCWh: 3000, SolarPowerW: 500}, in)
}

func TestFormValidationErrors(t *testing.T) {
	cases := []struct {
		name  string
		form  Form
		build func(Form) error
		field string
	}{
		{"non numeric speed", Form{FieldDistanceKm: "1", FieldSpeedKmh: "fast", FieldCurrentSoCWh: "1", FieldSolarPowerW: "1"},
			func(f Form) error { _, err := f.TimeFromSpeed(); return err }, FieldSpeedKmh},
		{"missing distance", Form{FieldCurrentSoCWh: "1", FieldSolarPowerW: "1"},
			func(f Form) error { _, err := f.SpeedFromTime(); return err }, FieldDistanceKm},
		{"bad solar", Form{FieldSpeedKmh: "1", FieldCurrentSoCWh: "1", FieldSolarPowerW: "sunny"},
			func(f Form) error { _, err := f.DistanceFromSpeedTime(); return err }, FieldSolarPowerW},
		{"bad target", Form{FieldTargetSoCWh: "", FieldCurrentSoCWh: "1", FieldSolarPowerW: "1", FieldDistanceKm: "1"},
			func(f Form) error { _, err := f.RequiredSpeed(); return err }, FieldTargetSoCWh},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.build(c.form)
			var ve *model.ValidationError
			require.True(t, errors.As(err, &ve), "got %v", err)
			assert.Equal(t, c.field, ve.Field)
			assert.Equal(t, "Please enter valid numbers.", err.Error())
		})
	}
}

func TestHoursIsLenient(t *testing.T) {
	assert.Equal(t, 1.5, Form{FieldTimeHours: "1", FieldTimeMinutes: "30"}.Hours())
	assert.Equal(t, 0.5, Form{FieldTimeHours: "soon", FieldTimeMinutes: "30"}.Hours())
	assert.Equal(t, 0.0, Form{}.Hours())

	in, err := Form{FieldDistanceKm: "100", FieldCurrentSoCWh: "3000", FieldSolarPowerW: "500"}.SpeedFromTime()
	require.NoError(t, err)
	assert.Equal(t, 0.0, in.ArrivalTimeHours)
}

func TestFields(t *testing.T) {
	for _, sc := range model.Scenarios {
		assert.NotEmpty(t, Fields(sc))
	}
	assert.Nil(t, Fields(model.ScenarioType(99)))
	assert.Contains(t, Fields(model.ScenarioSpeedFromTime), FieldTimeMinutes)
}

func TestFromValues(t *testing.T) {
	f := FromValues(map[string]any{
		FieldDistanceKm:  100.0,
		FieldSpeedKmh:    "60",
		FieldSolarPowerW: nil,
		FieldTimeHours:   true,
		FieldTargetSoCWh: 1e21,
	})
	assert.Equal(t, Form{
		FieldDistanceKm:  "100",
		FieldSpeedKmh:    "60",
		FieldSolarPowerW: "",
		FieldTimeHours:   "true",
		FieldTargetSoCWh: "1e+21",
	}, f)
	v, err := f.Number(FieldDistanceKm)
	require.NoError(t, err)
	assert.Equal(t, 100.0, v)
	assert.Equal(t, 0.0, f.Hours())
}
