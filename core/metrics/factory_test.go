package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/solarcar/core/factory"
)

func TestNewMetricsSink(t *testing.T) {
	s, err := NewMetricsSink(nil)
	require.NoError(t, err)
	assert.IsType(t, NopSink{}, s)

	s, err = NewMetricsSink([]factory.ModuleConfig{{Type: "nop"}})
	require.NoError(t, err)
	assert.IsType(t, NopSink{}, s)

	s, err = NewMetricsSink([]factory.ModuleConfig{{Type: "nop"}, {Type: "nop"}})
	require.NoError(t, err)
	multi, ok := s.(*MultiSink)
	require.True(t, ok)
	assert.Len(t, multi.Sinks, 2)

	_, err = NewMetricsSink([]factory.ModuleConfig{{Type: "missing"}})
	assert.Error(t, err)
	assert.Contains(t, SinkTypes(), "nop")
}
