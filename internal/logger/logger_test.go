package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in    string
		want  zapcore.Level
		known bool
	}{
		{"debug", zapcore.DebugLevel, true},
		{"info", zapcore.InfoLevel, true},
		{"warn", zapcore.WarnLevel, true},
		{"error", zapcore.ErrorLevel, true},
		{"verbose", zapcore.InfoLevel, false},
		{"", zapcore.InfoLevel, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			lvl, ok := ParseLevel(tt.in)
			assert.Equal(t, tt.known, ok)
			assert.Equal(t, tt.want, lvl)
		})
	}
}

func TestNewBuildsBothModes(t *testing.T) {
	for _, pretty := range []bool{true, false} {
		l := New("error", pretty)
		assert.NotNil(t, l)
		l.With(String("surface", "popup")).Debug("discarded below error level")
	}
}

func TestNopLogger(t *testing.T) {
	l := NewNop()
	l.Info("nothing", Int("n", 1), Bool("ok", true))
	assert.NoError(t, l.Sync())
}
