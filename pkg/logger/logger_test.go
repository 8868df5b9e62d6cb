package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	for _, cfg := range []Config{
		{Level: "debug", Encoding: "json"},
		{Level: "info", Encoding: "console"},
		{Level: "not-a-level", Encoding: "json"}, // falls back to info
	} {
		l, err := New(cfg)
		require.NoError(t, err)
		require.NotNil(t, l)
	}
}

func TestWithRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	ctx := ContextWithRequestID(context.Background(), "req-42")
	WithRequestID(ctx, base).Info("created")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "req-42", entries[0].ContextMap()["request_id"])
}

func TestWithRequestIDWithoutID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	WithRequestID(context.Background(), base).Info("created")

	entries := logs.All()
	require.Len(t, entries, 1)
	_, present := entries[0].ContextMap()["request_id"]
	assert.False(t, present, "no request id in the context means no field")

	assert.Nil(t, WithRequestID(context.Background(), nil))
}
