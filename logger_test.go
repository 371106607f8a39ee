package odtree

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewJSONHandler(&buf, nil))

	logger.WithDataset("anneal").WithDepth(3).WithSupport(5).
		LogFit(context.Background(), 12, true, time.Second, nil)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	assert.Equal(t, "fit completed", record["msg"])
	assert.Equal(t, "anneal", record["dataset"])
	assert.Equal(t, float64(3), record["depth"])
	assert.Equal(t, float64(5), record["support"])
	assert.Equal(t, float64(12), record["tree_error"])
	assert.Equal(t, true, record["optimal"])
}

func TestLoggerFitFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewJSONHandler(&buf, nil))

	logger.LogFit(context.Background(), 0, false, 0, errors.New("boom"))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	assert.Equal(t, "fit failed", record["msg"])
	assert.Equal(t, "boom", record["error"])
	assert.Equal(t, "ERROR", record["level"])
}

func TestNoopLogger(t *testing.T) {
	logger := NoopLogger()

	// Must not panic and must swallow everything.
	logger.LogFit(context.Background(), 1, false, time.Millisecond, nil)
	logger.LogRestart(context.Background(), 3, 8, 4)
}
