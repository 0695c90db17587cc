package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torosent/orderbench/internal/order"
)

func load(t *testing.T, args ...string) (*Config, string, error) {
	t.Helper()
	var out bytes.Buffer
	cfg, err := Loader{Stdout: &out}.Load(args)
	return cfg, out.String(), err
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoaderDefaults(t *testing.T) {
	cfg, _, err := load(t, "get-order", "-s", "http://localhost:8080")
	require.NoError(t, err)

	assert.Equal(t, order.OperationQuery, cfg.Operation)
	assert.Equal(t, "http://localhost:8080", cfg.Host)
	assert.Equal(t, 0, cfg.Times)
	assert.Equal(t, time.Duration(0), cfg.Interval)
	assert.Equal(t, DefaultUserID, cfg.UserID)
	assert.Equal(t, DefaultPassword, cfg.Password)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, LogFormatConsole, cfg.LogFormat)
	assert.Equal(t, OutputText, cfg.Output)
	assert.False(t, cfg.Tracing.Enabled())
	assert.NoError(t, cfg.Validate())
}

func TestLoaderParsesFlags(t *testing.T) {
	cfg, _, err := load(t,
		"--host", "https://orders.example.com",
		"pay",
		"-t", "50",
		"-i", "0.1",
		"-u", "alice@example.com",
		"--password", "s3cret",
		"--timeout", "5s",
		"--rate", "20",
		"--log-level", "DEBUG",
		"--log-format", "json",
		"-o", "yaml",
		"--metrics-addr", ":9090",
		"--tracing-endpoint", "localhost:4317",
		"--tracing-protocol", "http",
		"--tracing-insecure",
		"--tracing-sample-rate", "0.25",
	)
	require.NoError(t, err)

	assert.Equal(t, order.OperationPay, cfg.Operation)
	assert.Equal(t, 50, cfg.Times)
	assert.Equal(t, 100*time.Millisecond, cfg.Interval)
	assert.Equal(t, "alice@example.com", cfg.UserID)
	assert.Equal(t, "s3cret", cfg.Password)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, 20, cfg.Rate)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, LogFormatJSON, cfg.LogFormat)
	assert.Equal(t, OutputYAML, cfg.Output)
	assert.Equal(t, ":9090", cfg.MetricsAddr)
	assert.Equal(t, "localhost:4317", cfg.Tracing.Endpoint)
	assert.Equal(t, TracingProtocolHTTP, cfg.Tracing.Protocol)
	assert.True(t, cfg.Tracing.Insecure)
	assert.Equal(t, 0.25, cfg.Tracing.SampleRate)
	assert.True(t, cfg.Tracing.ShouldPropagate())
	assert.NoError(t, cfg.Validate())
}

func TestLoaderMissingCommandPrintsUsage(t *testing.T) {
	_, out, err := load(t, "-s", "http://localhost")

	var usage *UsageError
	require.True(t, errors.As(err, &usage))
	assert.True(t, usage.ShowHelp)
	assert.Contains(t, out, "Usage:")
	assert.Contains(t, out, "--host")
}

func TestLoaderUnknownCommand(t *testing.T) {
	_, out, err := load(t, "refund-order", "-s", "http://localhost")

	var usage *UsageError
	require.True(t, errors.As(err, &usage))
	assert.False(t, usage.ShowHelp)
	assert.EqualError(t, err, "unknown command: refund-order")
	assert.Empty(t, out)
}

func TestLoaderMissingHostPrintsUsage(t *testing.T) {
	t.Setenv("ORDERBENCH_HOST", "")
	_, out, err := load(t, "create-order")

	var usage *UsageError
	require.True(t, errors.As(err, &usage))
	assert.True(t, usage.ShowHelp)
	assert.Contains(t, err.Error(), "--host")
	assert.Contains(t, out, "Usage:")
}

func TestLoaderRejectsExtraArguments(t *testing.T) {
	_, _, err := load(t, "get-order", "delete-order", "-s", "http://localhost")

	var usage *UsageError
	require.True(t, errors.As(err, &usage))
	assert.Contains(t, err.Error(), "unexpected arguments")
}

func TestLoaderHelp(t *testing.T) {
	_, out, err := load(t, "--help")
	assert.ErrorIs(t, err, ErrHelpRequested)
	assert.Contains(t, out, "--interval")
}

func TestLoaderUnknownFlag(t *testing.T) {
	_, _, err := load(t, "get-order", "--bogus")
	var usage *UsageError
	assert.True(t, errors.As(err, &usage))
}

func TestLoaderReadsYAMLConfigFile(t *testing.T) {
	path := writeConfig(t, "bench.yaml", `
host: http://orders.local:8080
operation: delete-order
times: 200
interval: 0.5
userid: bob@example.com
timeout: 10s
output: json
tracing:
  endpoint: collector:4317
  sample_rate: 0.5
  propagate: false
`)
	cfg, _, err := load(t, "--config", path)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.ConfigFile)
	assert.Equal(t, order.OperationDelete, cfg.Operation)
	assert.Equal(t, "http://orders.local:8080", cfg.Host)
	assert.Equal(t, 200, cfg.Times)
	assert.Equal(t, 500*time.Millisecond, cfg.Interval)
	assert.Equal(t, "bob@example.com", cfg.UserID)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, OutputJSON, cfg.Output)
	assert.Equal(t, "collector:4317", cfg.Tracing.Endpoint)
	assert.Equal(t, 0.5, cfg.Tracing.SampleRate)
	assert.False(t, cfg.Tracing.ShouldPropagate())
}

func TestLoaderFlagsOverrideConfigFile(t *testing.T) {
	path := writeConfig(t, "bench.json", `{"host": "http://file:1", "times": 9, "interval": "250ms"}`)

	cfg, _, err := load(t, "get-order", "--config", path, "-t", "3", "-s", "http://flag:2")
	require.NoError(t, err)

	assert.Equal(t, "http://flag:2", cfg.Host)
	assert.Equal(t, 3, cfg.Times)
	assert.Equal(t, 250*time.Millisecond, cfg.Interval)
}

func TestLoaderEnvironmentOverridesFileButNotFlags(t *testing.T) {
	path := writeConfig(t, "bench.yaml", "host: http://file:1\ntimes: 9\nuserid: file-user\n")
	t.Setenv("ORDERBENCH_TIMES", "12")
	t.Setenv("ORDERBENCH_USERID", "env-user")
	t.Setenv("ORDERBENCH_TRACING_ENDPOINT", "env-collector:4317")

	cfg, _, err := load(t, "query", "--config", path, "-u", "flag-user")
	require.NoError(t, err)

	assert.Equal(t, "http://file:1", cfg.Host)
	assert.Equal(t, 12, cfg.Times)
	assert.Equal(t, "flag-user", cfg.UserID)
	assert.Equal(t, "env-collector:4317", cfg.Tracing.Endpoint)
}

func TestLoaderMissingConfigFile(t *testing.T) {
	_, _, err := load(t, "get-order", "--config", filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorContains(t, err, "read config")
}

func TestLoaderFractionalTimeoutFromConfigFile(t *testing.T) {
	path := writeConfig(t, "bench.yaml", "host: http://x:1\noperation: get-order\ntimeout: 1.5\n")

	cfg, _, err := load(t, "--config", path)
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, cfg.Timeout)
	assert.NoError(t, cfg.Validate())
}

func TestLoaderRejectsFractionalTimes(t *testing.T) {
	path := writeConfig(t, "bench.yaml", "host: http://x:1\noperation: get-order\ntimes: 2.9\n")

	_, _, err := load(t, "--config", path)
	require.Error(t, err)
	assert.ErrorContains(t, err, "times")
	assert.ErrorContains(t, err, "whole number")
}
