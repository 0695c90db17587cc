package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/torosent/orderbench/internal/order"
)

const (
	DefaultUserID   = "uid0@email.com"
	DefaultPassword = "password"
	DefaultTimeout  = 30 * time.Second

	LogFormatConsole = "console"
	LogFormatJSON    = "json"

	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"

	TracingProtocolGRPC = "grpc"
	TracingProtocolHTTP = "http"
)

var logLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// TracingConfig configures OTLP export of per-call spans.
type TracingConfig struct {
	Endpoint    string
	Protocol    string
	ServiceName string
	SampleRate  float64
	Insecure    bool
	Propagate   *bool // nil means propagate whenever tracing is enabled
}

// Enabled reports whether an OTLP endpoint was configured.
func (t TracingConfig) Enabled() bool {
	return strings.TrimSpace(t.Endpoint) != ""
}

// ShouldPropagate reports whether W3C trace headers go on outgoing calls.
func (t TracingConfig) ShouldPropagate() bool {
	if t.Propagate != nil {
		return *t.Propagate
	}
	return t.Enabled()
}

// Config is the validated run configuration.
type Config struct {
	Host        string
	Operation   order.Operation
	Times       int           // 0 means unbounded
	Interval    time.Duration // pause between calls
	UserID      string
	Password    string
	Timeout     time.Duration // per-call timeout
	Rate        int           // calls per second cap, 0 means none
	LogLevel    string
	LogFormat   string
	Output      string
	MetricsAddr string
	ConfigFile  string
	Tracing     TracingConfig
}

func defaultConfig() *Config {
	return &Config{
		UserID:    DefaultUserID,
		Password:  DefaultPassword,
		Timeout:   DefaultTimeout,
		LogLevel:  "info",
		LogFormat: LogFormatConsole,
		Output:    OutputText,
		Tracing: TracingConfig{
			Protocol:   TracingProtocolGRPC,
			SampleRate: 1.0,
		},
	}
}

type ValidationError struct {
	issues []string
}

func (e ValidationError) Error() string {
	if len(e.issues) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(e.issues, "; "))
}

func (e ValidationError) Issues() []string {
	return append([]string(nil), e.issues...)
}

// UsageError reports a command line that cannot start a run.
type UsageError struct {
	Msg      string
	ShowHelp bool // usage text was printed alongside the error
}

func (e *UsageError) Error() string {
	return e.Msg
}

func (c Config) Validate() error {
	var issues []string

	if !c.Operation.Valid() {
		issues = append(issues, fmt.Sprintf("unknown command: %s", c.Operation))
	}

	if strings.TrimSpace(c.Host) == "" {
		issues = append(issues, "host is required")
	} else if err := validateHost(c.Host); err != nil {
		issues = append(issues, err.Error())
	}

	if c.Times < 0 {
		issues = append(issues, "times must be non-negative")
	}
	if c.Interval < 0 {
		issues = append(issues, "interval must be non-negative")
	}
	if strings.TrimSpace(c.UserID) == "" {
		issues = append(issues, "userid must not be empty")
	}
	if c.Timeout <= 0 {
		issues = append(issues, "timeout must be positive")
	}
	if c.Rate < 0 {
		issues = append(issues, "rate must be non-negative")
	}

	if !logLevels[strings.ToLower(c.LogLevel)] {
		issues = append(issues, fmt.Sprintf("unsupported log level %q", c.LogLevel))
	}
	switch c.LogFormat {
	case LogFormatConsole, LogFormatJSON:
	default:
		issues = append(issues, fmt.Sprintf("unsupported log format %q", c.LogFormat))
	}
	switch c.Output {
	case OutputText, OutputJSON, OutputYAML:
	default:
		issues = append(issues, fmt.Sprintf("unsupported output format %q", c.Output))
	}

	issues = append(issues, validateTracingConfig(c.Tracing)...)

	if len(issues) > 0 {
		return ValidationError{issues: issues}
	}
	return nil
}

func validateHost(host string) error {
	u, err := url.Parse(strings.TrimSpace(host))
	if err != nil {
		return fmt.Errorf("host is invalid: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("host must use http or https scheme")
	}
	if u.Host == "" {
		return fmt.Errorf("host must include a hostname")
	}
	return nil
}

func validateTracingConfig(t TracingConfig) []string {
	var issues []string
	switch strings.ToLower(t.Protocol) {
	case "", TracingProtocolGRPC, TracingProtocolHTTP:
	default:
		issues = append(issues, fmt.Sprintf("tracing protocol must be grpc or http, got %q", t.Protocol))
	}
	if t.SampleRate < 0 || t.SampleRate > 1 {
		issues = append(issues, "tracing sample_rate must be between 0.0 and 1.0")
	}
	return issues
}
