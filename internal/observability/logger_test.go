package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(LoggerConfig{
		Level:   "debug",
		Format:  "json",
		Output:  &buf,
		Service: "snowdemo",
	})
	require.NoError(t, err)

	logger.Debug("loaded table", zap.String("table", "CLAIMS"), zap.Int("rows", 120))
	require.NoError(t, logger.Sync())

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "loaded table", entry["msg"])
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "CLAIMS", entry["table"])
	assert.Equal(t, "snowdemo", entry["service"])
	assert.Contains(t, entry, "timestamp")
}

func TestNewLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(LoggerConfig{Level: "warn", Format: "json", Output: &buf})
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewLoggerRejectsUnknownSettings(t *testing.T) {
	_, err := NewLogger(LoggerConfig{Level: "loud"})
	assert.Error(t, err)

	_, err = NewLogger(LoggerConfig{Format: "xml"})
	assert.Error(t, err)
}

func TestRunID(t *testing.T) {
	assert.Empty(t, RunID(context.Background()))

	ctx, id := WithRunID(context.Background())
	assert.NotEmpty(t, id)
	assert.Equal(t, id, RunID(ctx))

	var buf bytes.Buffer
	logger, err := NewLogger(LoggerConfig{Format: "json", Output: &buf})
	require.NoError(t, err)
	FromContext(ctx, logger).Info("step")
	assert.Contains(t, buf.String(), id)
}
