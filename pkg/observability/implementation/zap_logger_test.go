package implementation_test

import (
	"errors"
	"testing"

	"github.com/jt828/go-graphql-tracing/pkg/observability"
	"github.com/jt828/go-graphql-tracing/pkg/observability/implementation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewZapLogger(t *testing.T) {
	t.Run("accepts a valid level", func(t *testing.T) {
		log, err := implementation.NewZapLogger(implementation.LogConfig{Level: "debug", Development: true})
		require.NoError(t, err)
		assert.NotNil(t, log)
	})

	t.Run("rejects an unknown level", func(t *testing.T) {
		_, err := implementation.NewZapLogger(implementation.LogConfig{Level: "loud"})
		assert.Error(t, err)
	})
}

func TestZapLogger_Fields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := implementation.WrapZap(zap.New(core)).With(observability.String("component", "tracing"))

	log.Warn("field span already finished",
		observability.String("field", "user"),
		observability.Int("depth", 2),
		observability.Bool("trivial", false),
		observability.Err(errors.New("boom")),
	)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)

	ctx := entries[0].ContextMap()
	assert.Equal(t, "tracing", ctx["component"])
	assert.Equal(t, "user", ctx["field"])
	assert.Equal(t, int64(2), ctx["depth"])
	assert.Equal(t, false, ctx["trivial"])
	assert.Equal(t, "boom", ctx["error"])
}
