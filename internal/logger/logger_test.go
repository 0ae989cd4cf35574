package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sangkips/pasvilla-invoicing/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SetupWriter(config.LogConfig{Level: "debug", Format: "json"}, &buf))

	l := WithComponent("invoice-service")
	l.Info().Str("invoice_id", "pasvilla001").Msg("created")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "invoice-service", entry["component"])
	assert.Equal(t, "pasvilla001", entry["invoice_id"])
	assert.Equal(t, "info", entry["level"])
}

func TestSetupWriterFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SetupWriter(config.LogConfig{Level: "warn", Format: "json"}, &buf))

	l := WithRequestID("req-1")
	l.Info().Msg("hidden")
	assert.Zero(t, buf.Len())

	l.Warn().Msg("shown")
	assert.Contains(t, buf.String(), `"request_id":"req-1"`)
}

func TestSetupRejectsUnknownLevel(t *testing.T) {
	assert.Error(t, SetupWriter(config.LogConfig{Level: "loud"}, &bytes.Buffer{}))
}
