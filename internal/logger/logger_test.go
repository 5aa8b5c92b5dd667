package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewJSON expects that a JSON logger writes one JSON object per record and honors the level.
func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "warn", "json")
	l.Info("dropped")
	l.Warn("kept", "contact_id", 42)

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "kept", record["msg"])
	assert.Equal(t, 42.0, record["contact_id"])
}

// TestContextLogger expects that a logger stored in a context is returned again, and that the
// global logger is the fallback.
func TestContextLogger(t *testing.T) {
	custom := L.With("request_id", "12345")
	ctx := WithContext(context.Background(), custom)
	assert.Same(t, custom, FromContext(ctx))
	assert.Same(t, L, FromContext(context.Background()))
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for input, expected := range tests {
		assert.Equal(t, expected, parseLevel(input), input)
	}
}
