package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger_Levels(t *testing.T) {
	tests := []struct {
		name      string
		level     zapcore.Level
		wantDebug bool
	}{
		{name: "info", level: zapcore.InfoLevel, wantDebug: false},
		{name: "debug", level: zapcore.DebugLevel, wantDebug: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(zapcore.AddSync(&buf), tt.level)

			logger.Debug("scanning", zap.String("path", "a.go"))
			logger.Warn("dropped rule", zap.Int("index", 2))
			_ = logger.Sync()

			out := buf.String()
			assert.Contains(t, out, "WARN")
			assert.Contains(t, out, "dropped rule")
			assert.Contains(t, out, `"index": 2`)
			assert.Equal(t, tt.wantDebug, bytes.Contains(buf.Bytes(), []byte("scanning")))
		})
	}
}

func TestNew(t *testing.T) {
	assert.True(t, New(true).Core().Enabled(zapcore.DebugLevel))
	assert.False(t, New(false).Core().Enabled(zapcore.DebugLevel))
	assert.NotNil(t, Nop())
}
