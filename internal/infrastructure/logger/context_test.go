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

func TestWithContext_RoundTrip(t *testing.T) {
	core, _ := observer.New(zapcore.InfoLevel)
	log := zap.New(core)

	ctx := WithContext(context.Background(), log)

	assert.Same(t, log, FromContext(ctx))
}

func TestFromContext_MissingLoggerReturnsNop(t *testing.T) {
	log := FromContext(context.Background())

	require.NotNil(t, log)
	// Logging through the nop logger must not panic
	log.Info("ignored")
}

func TestWithRequestID(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	log := zap.New(core)

	ctx, enriched := WithRequestID(context.Background(), log, "req-42")
	enriched.Info("handling request")

	assert.Equal(t, "req-42", GetRequestID(ctx))

	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Equal(t, "req-42", logs[0].ContextMap()["request_id"])
}

func TestWithUserID(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	log := zap.New(core)

	ctx, enriched := WithUserID(context.Background(), log, "user-7")
	enriched.Info("acting as user")

	assert.Equal(t, "user-7", GetUserID(ctx))

	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Equal(t, "user-7", logs[0].ContextMap()["user_id"])
}

func TestGetRequestID_Empty(t *testing.T) {
	assert.Empty(t, GetRequestID(context.Background()))
	assert.Empty(t, GetUserID(context.Background()))
}

func TestContextLogger_EnrichesFromContext(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	log := zap.New(core)

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-9")
	ctx = context.WithValue(ctx, UserIDKey, "user-3")
	ctx = WithContext(ctx, log)

	L(ctx).Info("posting receipt")

	logs := recorded.All()
	require.Len(t, logs, 1)
	fields := logs[0].ContextMap()
	assert.Equal(t, "req-9", fields["request_id"])
	assert.Equal(t, "user-3", fields["user_id"])
}

func TestContextLogger_With(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	log := zap.New(core)

	WithLogger(context.Background(), log).
		With(zap.String("document", "GR-20260831-0001")).
		Warn("quality hold")

	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Equal(t, "GR-20260831-0001", logs[0].ContextMap()["document"])
}

func TestContextLogger_Levels(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	ctx := WithContext(context.Background(), zap.New(core))

	L(ctx).Debug("d")
	L(ctx).Info("i")
	L(ctx).Warn("w")
	L(ctx).Error("e")

	logs := recorded.All()
	require.Len(t, logs, 4)
	assert.Equal(t, zapcore.DebugLevel, logs[0].Level)
	assert.Equal(t, zapcore.InfoLevel, logs[1].Level)
	assert.Equal(t, zapcore.WarnLevel, logs[2].Level)
	assert.Equal(t, zapcore.ErrorLevel, logs[3].Level)
}
