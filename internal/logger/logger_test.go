package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_WritesStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Level: "info", Service: "coupon-api", Output: &buf})

	Info("session issued", map[string]any{"ttl_seconds": 3600})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "session issued", entry["message"])
	assert.Equal(t, "coupon-api", entry["service"])
	assert.EqualValues(t, 3600, entry["ttl_seconds"])
}

func TestInit_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Level: "warn", Output: &buf})

	Debug("hidden", nil)
	Info("hidden", nil)
	assert.Zero(t, buf.Len())

	Warn("shown", nil)
	assert.Contains(t, buf.String(), "shown")
}

func TestInit_UnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Level: "loud", Output: &buf})

	Debug("hidden", nil)
	assert.Zero(t, buf.Len())
	Info("shown", nil)
	assert.Contains(t, buf.String(), "shown")
}
