package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestHTTPRequest(t *testing.T) {
	var buf bytes.Buffer
	InitializeWriter(&buf, "info", "json")
	defer Initialize("info", "text")

	HTTPRequest("GET", "/api/v1/dashboard", 503, 120*time.Millisecond, "ngo_code", "NGO1")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "/api/v1/dashboard", entry["path"])
	assert.Equal(t, float64(503), entry["status"])
	assert.Equal(t, float64(120), entry["duration_ms"])
	assert.Equal(t, "NGO1", entry["ngo_code"])
}

func TestDebugSuppressedAtInfo(t *testing.T) {
	var buf bytes.Buffer
	InitializeWriter(&buf, "info", "text")
	defer Initialize("info", "text")

	DatabaseCall("ListByOrg", "events")
	assert.Empty(t, buf.String())
	Info("visible")
	assert.Contains(t, buf.String(), "visible")
}
