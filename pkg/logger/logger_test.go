package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		level, format string
		want          zapcore.Level
	}{
		{"debug", "console", zapcore.DebugLevel},
		{"warn", "json", zapcore.WarnLevel},
		{"error", "json", zapcore.ErrorLevel},
		{"", "", zapcore.InfoLevel},
		{"verbose", "console", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		l, err := New(tt.level, tt.format)
		require.NoError(t, err)
		assert.True(t, l.Core().Enabled(tt.want))
		if tt.want > zapcore.DebugLevel {
			assert.False(t, l.Core().Enabled(tt.want-1))
		}
	}
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))
	l, err := New("info", "json")
	require.NoError(t, err)
	assert.Same(t, l, OrNop(l))
}
