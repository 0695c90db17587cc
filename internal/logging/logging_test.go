package logging_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/torosent/orderbench/internal/logging"
)

func TestNewJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "info", Format: "json", Output: &buf})
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("start query order", zap.String("run", "abc"))
	require.NoError(t, logger.Sync())

	line := buf.String()
	require.True(t, gjson.Valid(line), line)
	assert.Equal(t, "start query order", gjson.Get(line, "msg").String())
	assert.Equal(t, "info", gjson.Get(line, "level").String())
	assert.Equal(t, "abc", gjson.Get(line, "run").String())
	assert.NotContains(t, line, "hidden")
}

func TestNewConsoleLoggerDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Output: &buf})
	require.NoError(t, err)

	logger.Info("hello")
	logger.Debug("quiet")

	assert.Contains(t, buf.String(), "hello")
	assert.Contains(t, buf.String(), "INFO")
	assert.NotContains(t, buf.String(), "quiet")
}

func TestNewRejectsUnknownSettings(t *testing.T) {
	_, err := logging.New(logging.Options{Format: "xml"})
	assert.ErrorContains(t, err, "log format")

	_, err = logging.New(logging.Options{Level: "chatty"})
	assert.ErrorContains(t, err, "log level")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"":       zapcore.InfoLevel,
		"debug":  zapcore.DebugLevel,
		"WARN":   zapcore.WarnLevel,
		" error": zapcore.ErrorLevel,
	}
	for in, want := range tests {
		got, err := logging.ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}
