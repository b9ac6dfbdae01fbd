package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	cblog "github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"

	"github.com/BPM-Research-Group/ebpmn/internal/ports"
)

func TestLoggerIncludesComponentAndCorrelationID(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, err := New(Options{
		Writer:    &buf,
		Level:     "debug",
		Formatter: cblog.JSONFormatter,
		Component: "importer",
	})
	require.NoError(t, err)

	ctx := ports.WithCorrelationID(context.Background(), "abc123")
	logger.Info(ctx, "imported BPMN model", "elements", 4)

	line := strings.TrimSpace(buf.String())
	payload := make(map[string]interface{})
	require.NoError(t, json.Unmarshal([]byte(line), &payload))

	require.Equal(t, "imported BPMN model", payload["msg"])
	require.Equal(t, "importer", payload["component"])
	require.Equal(t, "abc123", payload["correlation_id"])
	require.Equal(t, float64(4), payload["elements"])
}

func TestLoggerWithAddsFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, err := New(Options{Writer: &buf, Formatter: cblog.JSONFormatter})
	require.NoError(t, err)

	child := logger.With("component", "simulate")
	child.Warn(context.Background(), "step not enabled", "transition", 7)

	payload := make(map[string]interface{})
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &payload))
	require.Equal(t, "simulate", payload["component"])
	require.Equal(t, float64(7), payload["transition"])
}

func TestLoggerLevelFiltersOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, err := New(Options{Writer: &buf, Level: "warn", Formatter: cblog.JSONFormatter})
	require.NoError(t, err)

	logger.Info(context.Background(), "hidden")
	require.Zero(t, buf.Len())
	logger.Warn(context.Background(), "shown")
	require.NotZero(t, buf.Len())
}

func TestLoggerRejectsUnknownLevel(t *testing.T) {
	t.Parallel()

	_, err := New(Options{Level: "chatty"})
	require.Error(t, err)
}
