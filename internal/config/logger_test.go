package config

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		logDebug  bool
		logInfo   bool
		logErrors bool
	}{
		{name: "debug", level: "debug", logDebug: true, logInfo: true, logErrors: true},
		{name: "info", level: "info", logInfo: true, logErrors: true},
		{name: "error", level: "error", logErrors: true},
		{name: "unknown falls back to info", level: "verbose", logInfo: true, logErrors: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(LoggerConfig{Level: tt.level, Format: "json"}, &buf)

			logger.Debug().Msg("d")
			assert.Equal(t, tt.logDebug, buf.Len() > 0, "debug output")
			buf.Reset()

			logger.Info().Msg("i")
			assert.Equal(t, tt.logInfo, buf.Len() > 0, "info output")
			buf.Reset()

			logger.Error().Msg("e")
			assert.Equal(t, tt.logErrors, buf.Len() > 0, "error output")
		})
	}
}

func TestNewLogger_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(LoggerConfig{Level: "info", Format: "json"}, &buf)

	logger.Info().Str("book_id", "7").Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "bookstore", entry["app"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "hello", entry["message"])
	assert.Equal(t, "7", entry["book_id"])
	assert.Contains(t, entry, "time")
}

func TestNewLogger_Console(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(LoggerConfig{Level: "info", Format: "console"}, &buf)

	logger.Info().Msg("hello")

	assert.Contains(t, buf.String(), "hello")
	assert.False(t, json.Valid(buf.Bytes()))
}
