package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return zap.New(core), logs
}

func TestWithContextFromContext(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		log, _ := newObservedLogger()
		ctx := WithContext(context.Background(), log)
		assert.Same(t, log, FromContext(ctx))
	})

	t.Run("missing logger falls back to nop", func(t *testing.T) {
		log := FromContext(context.Background())
		require.NotNil(t, log)
		assert.NotPanics(t, func() {
			log.Info("savings deposit recorded")
		})
	})

	t.Run("wrong value type falls back to nop", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), LoggerKey, "not a logger")
		require.NotNil(t, FromContext(ctx))
	})
}

func TestWithRequestID(t *testing.T) {
	log, logs := newObservedLogger()

	ctx, enriched := WithRequestID(context.Background(), log, "req-123")

	assert.Equal(t, "req-123", GetRequestID(ctx))
	assert.Same(t, enriched, FromContext(ctx))

	enriched.Info("fee payment created")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "req-123", logs.All()[0].ContextMap()["request_id"])
}

func TestWithUserID(t *testing.T) {
	log, logs := newObservedLogger()

	ctx, enriched := WithUserID(context.Background(), log, "user-789")

	assert.Equal(t, "user-789", GetUserID(ctx))
	assert.Same(t, enriched, FromContext(ctx))

	enriched.Info("distribution approved")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "user-789", logs.All()[0].ContextMap()["user_id"])
}

func TestChainedEnrichment(t *testing.T) {
	log, logs := newObservedLogger()

	ctx, enriched := WithRequestID(context.Background(), log, "req-123")
	ctx, enriched = WithUserID(ctx, enriched, "user-789")

	enriched.Info("withdrawal posted")
	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "req-123", fields["request_id"])
	assert.Equal(t, "user-789", fields["user_id"])
}

func TestGetters(t *testing.T) {
	t.Run("absent values return empty", func(t *testing.T) {
		ctx := context.Background()
		assert.Empty(t, GetRequestID(ctx))
		assert.Empty(t, GetUserID(ctx))
	})

	t.Run("wrong value type returns empty", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), RequestIDKey, 42)
		assert.Empty(t, GetRequestID(ctx))
	})

	t.Run("override keeps latest value", func(t *testing.T) {
		log := zap.NewNop()
		ctx, enriched := WithRequestID(context.Background(), log, "req-1")
		ctx, _ = WithRequestID(ctx, enriched, "req-2")
		assert.Equal(t, "req-2", GetRequestID(ctx))
	})
}
