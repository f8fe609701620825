package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"":        slog.LevelInfo,
		"WARNING": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for input, want := range tests {
		got, err := ParseLevel(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}
	_, err := ParseLevel("loud")
	require.Error(t, err)
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, Options{Level: "warn", Format: "json"})
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("saved", "locale", "de")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "saved", record["msg"])
	assert.Equal(t, "de", record["locale"])
}

func TestNewConsoleWithoutColor(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, Options{Level: "info", Format: "text"})
	require.NoError(t, err)

	logger.Info("project opened", "base", "app")
	out := buf.String()
	assert.Contains(t, out, "project opened")
	assert.Contains(t, out, "base=app")
	assert.NotContains(t, out, "\x1b[")
}
