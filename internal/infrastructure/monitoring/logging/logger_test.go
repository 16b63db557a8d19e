package logging

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger_Defaults(t *testing.T) {
	l, err := NewLogger(LogConfig{})
	require.NoError(t, err)
	require.NotNil(t, l)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("WARN"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel(""))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("bogus"))
}

func TestZapLogger_FieldsAndNaming(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewLoggerFromCore(core)

	l.Named("solver").With(String("panel", "p1")).Info("solve finished",
		Int("nx", 501),
		Float64("resistance_ohm", 40.2),
		Bool("converged", true),
		Duration("elapsed", 250*time.Millisecond),
		Err(errors.New("boom")),
	)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "solve finished", entry.Message)
	assert.Equal(t, "solver", entry.LoggerName)

	fields := entry.ContextMap()
	assert.Equal(t, "p1", fields["panel"])
	assert.Equal(t, int64(501), fields["nx"])
	assert.Equal(t, 40.2, fields["resistance_ohm"])
	assert.Equal(t, true, fields["converged"])
	assert.Equal(t, "boom", fields["error"])
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	// Must not panic and must be chainable.
	l.With(String("k", "v")).Named("x").Info("ignored")
}

func TestDefaultLogger(t *testing.T) {
	orig := Default()
	defer SetDefault(orig)

	core, logs := observer.New(zapcore.InfoLevel)
	SetDefault(NewLoggerFromCore(core))
	Default().Info("hello")
	assert.Equal(t, 1, logs.Len())

	// nil must be ignored
	SetDefault(nil)
	assert.NotNil(t, Default())
}
