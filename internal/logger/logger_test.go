package logger

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Release(t *testing.T) {
	t.Setenv("GIN_MODE", "release")
	t.Setenv("LOG_LEVEL", "")

	var buf bytes.Buffer
	l := New(&buf)

	assert.Equal(t, logrus.InfoLevel, l.GetLevel())
	assert.IsType(t, new(logrus.JSONFormatter), l.Formatter)

	l.Debug("hidden")
	assert.Empty(t, buf.String())
}

func TestNew_Debug(t *testing.T) {
	t.Setenv("GIN_MODE", "debug")
	t.Setenv("LOG_LEVEL", "")

	l := New(&bytes.Buffer{})
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())
	assert.IsType(t, new(logrus.TextFormatter), l.Formatter)
}

func TestNew_LevelOverride(t *testing.T) {
	t.Setenv("GIN_MODE", "release")
	t.Setenv("LOG_LEVEL", "warn")

	l := New(&bytes.Buffer{})
	assert.Equal(t, logrus.WarnLevel, l.GetLevel())
}

func TestComponent(t *testing.T) {
	t.Setenv("GIN_MODE", "release")
	t.Setenv("LOG_LEVEL", "")

	var buf bytes.Buffer
	l := New(&buf)

	Component(l, "monitor", "scheduler").Info("tick")
	require.NotEmpty(t, buf.String())
	assert.Contains(t, buf.String(), `"component":"monitor"`)
	assert.Contains(t, buf.String(), `"module":"scheduler"`)
}
