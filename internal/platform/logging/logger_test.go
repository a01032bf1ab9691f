package logging

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observedLogger(level zapcore.Level) (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return FromZap(zap.New(core)), logs
}

func TestFromZapNilFallsBackToNop(t *testing.T) {
	logger := FromZap(nil)
	require.NotNil(t, logger)
	logger.Info("must not panic")
}

func TestDefaultIsNeverNil(t *testing.T) {
	require.NotNil(t, Default())
	SetDefault(nil)
	require.NotNil(t, Default())
}

func TestLogWritesKeyValuePairs(t *testing.T) {
	logger, logs := observedLogger(zapcore.InfoLevel)

	logger.Info("hello", "game_id", "0022300001", "rows", 5)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "hello", entries[0].Message)

	fields := entries[0].ContextMap()
	assert.Equal(t, "0022300001", fields["game_id"])
	assert.EqualValues(t, 5, fields["rows"])
}

func TestLogWrapsErrorValues(t *testing.T) {
	logger, logs := observedLogger(zapcore.WarnLevel)

	logger.Warn("fetch failed", "error", errors.New("boom"))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "boom", entries[0].ContextMap()["error"])
}

func TestLevelFiltering(t *testing.T) {
	logger, logs := observedLogger(zapcore.WarnLevel)

	logger.Debug("dropped")
	logger.Info("dropped too")
	logger.Error("kept")

	require.Len(t, logs.All(), 1)
	assert.Equal(t, "kept", logs.All()[0].Message)
}

func TestWithCarriesFields(t *testing.T) {
	logger, logs := observedLogger(zapcore.InfoLevel)

	logger.With("service", "pipeline").Info("started")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "pipeline", entries[0].ContextMap()["service"])
}

func TestContextWithoutSpanAddsNoTraceFields(t *testing.T) {
	logger, logs := observedLogger(zapcore.InfoLevel)

	logger.InfoContext(context.Background(), "no span here")

	entries := logs.All()
	require.Len(t, entries, 1)
	_, hasTrace := entries[0].ContextMap()["trace_id"]
	assert.False(t, hasTrace)
}

func TestSyncIsIdempotent(t *testing.T) {
	logger := NewNop()
	require.NoError(t, logger.Sync())
	require.NoError(t, logger.Sync())
}
