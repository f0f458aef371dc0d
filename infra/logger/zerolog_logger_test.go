package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZerologLoggerMethods(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	l := NewZerologLogger("test")
	require.NotNil(t, l)
	l.Debugf("debug %d", 1)
	l.Debugw("debug", map[string]any{"k": 1})
	l.Infof("info %s", "test")
	l.Infow("info", map[string]any{"k": "v"})
	l.Warnf("warn")
	l.Errorf("error")
}

func TestZerologLoggerJSONFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "solver", "debug")
	l.Infow("calculated", map[string]any{"scenario": "time", "speed_kmh": 90.0})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "solver", line["component"])
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "time", line["scenario"])
	assert.Equal(t, 90.0, line["speed_kmh"])
}

func TestZerologLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "solver", "warn")
	l.Debugf("hidden")
	l.Infof("hidden")
	l.Warnf("shown")
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
	assert.Contains(t, buf.String(), "shown")
}

func TestNopLogger(t *testing.T) {
	var l Logger = NopLogger{}
	l.Infof("nothing %s", os.Args[0])
}
