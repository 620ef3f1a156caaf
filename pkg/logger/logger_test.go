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

func TestNewAppliesDefaults(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{}, &buf)
	require.NoError(t, err)

	l.Debug("hidden")
	l.Info("visible", "k", "v")

	out := buf.String()
	assert.NotContains(t, out, "hidden")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "visible", entry["msg"])
	assert.Equal(t, "v", entry["k"])
}

func TestNewTextFormat(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Format: "text", Level: "debug"}, &buf)
	require.NoError(t, err)

	l.Debug("debug line")
	assert.Contains(t, buf.String(), "msg=\"debug line\"")
}

func TestWithContextAddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{}, &buf)
	require.NoError(t, err)

	prev := globalLogger
	globalLogger = l
	t.Cleanup(func() { globalLogger = prev })

	ctx := ContextWithRequestID(context.Background(), "req-123")
	Info(ctx, "hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "req-123", entry["request_id"])
	assert.NotContains(t, entry, "trace_id")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warn"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("whatever"))
}
