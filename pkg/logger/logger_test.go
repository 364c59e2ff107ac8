package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/d60-Lab/blog-service/config"
)

func TestHelpersWriteToGlobalLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	prev := L()
	Set(zap.New(core))
	t.Cleanup(func() { Set(prev) })

	Info("connected", zap.String("driver", "sqlite"))
	Warn("slow")

	require.Equal(t, 2, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "connected", entry.Message)
	assert.Equal(t, "sqlite", entry.ContextMap()["driver"])
	assert.Equal(t, zapcore.WarnLevel, logs.All()[1].Level)
}

func TestInitRejectsUnknownLevel(t *testing.T) {
	prev := L()
	t.Cleanup(func() { Set(prev) })

	assert.Error(t, Init(config.LogConfig{Level: "loud"}))
	assert.NoError(t, Init(config.LogConfig{Level: "debug", Development: true}))
}
