package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVerbosity(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, FormatText, DEBUG)
	require.NoError(t, err)

	logger.Info("loaded", "files", 3)
	logger.V(DEBUG).Info("table opened")
	logger.V(TRACE).Info("cell read")

	out := buf.String()
	assert.Contains(t, out, "loaded")
	assert.Contains(t, out, "files=3")
	assert.Contains(t, out, "table opened")
	assert.NotContains(t, out, "cell read")
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, FormatJSON, 0)
	require.NoError(t, err)

	logger.Info("skipping record", "reason", "duplicate")
	logger.V(DEBUG).Info("hidden")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "skipping record", line["msg"])
	assert.Equal(t, "duplicate", line["reason"])
}

func TestNewUnknownFormat(t *testing.T) {
	_, err := New(&bytes.Buffer{}, "xml", 0)
	assert.Error(t, err)
}
