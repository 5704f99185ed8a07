package logger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/landcover-microservice/internal/pkg/logger"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		encoding string
		enabled  zapcore.Level
		disabled zapcore.Level
	}{
		{"info json", "info", "json", zapcore.InfoLevel, zapcore.DebugLevel},
		{"debug console", "debug", "", zapcore.DebugLevel, zapcore.DebugLevel - 1},
		{"unknown level falls back to info", "verbose", "json", zapcore.InfoLevel, zapcore.DebugLevel},
		{"warn console", "warn", "console", zapcore.WarnLevel, zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := logger.New(tt.level, tt.encoding)

			require.NoError(t, err)
			assert.True(t, log.Core().Enabled(tt.enabled))
			assert.False(t, log.Core().Enabled(tt.disabled))
		})
	}
}
