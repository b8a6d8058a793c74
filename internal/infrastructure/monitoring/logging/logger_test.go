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
	assert.NotNil(t, l)
}

func TestNewLogger_ConsoleFormat(t *testing.T) {
	l, err := NewLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("WARN"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel(""))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("bogus"))
}

func TestZapLogger_FieldsReachCore(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	l := NewLoggerFromCore(core)

	l.Info("fetching pmid",
		String("pmid", "25404168"),
		Int("linked", 2),
		Float64("elapsed_s", 0.34),
		Bool("cached", false),
		Duration("wait", 340*time.Millisecond),
		Err(errors.New("boom")),
	)

	entries := observed.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "fetching pmid", entries[0].Message)

	fields := entries[0].ContextMap()
	assert.Equal(t, "25404168", fields["pmid"])
	assert.Equal(t, int64(2), fields["linked"])
	assert.Equal(t, "boom", fields["error"])
}

func TestZapLogger_WithAndNamed(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	l := NewLoggerFromCore(core).Named("retrieval").With(String("component", "client"))

	l.Warn("transient failure")

	entries := observed.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "retrieval", entries[0].LoggerName)
	assert.Equal(t, "client", entries[0].ContextMap()["component"])
}

func TestErr_Nil(t *testing.T) {
	f := Err(nil)
	assert.Equal(t, "error", f.Key)
	assert.Equal(t, "<nil>", f.Value)
}

func TestDefaultLogger_SetAndGet(t *testing.T) {
	orig := Default()
	defer SetDefault(orig)

	l := NewNopLogger()
	SetDefault(l)
	assert.Equal(t, l, Default())

	// nil is ignored
	SetDefault(nil)
	assert.Equal(t, l, Default())
}
