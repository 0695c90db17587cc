package config

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/torosent/orderbench/internal/order"
)

// newFlagCommand creates a cobra command with all flags configured.
func newFlagCommand(out io.Writer) *cobra.Command {
	names := make([]string, 0, 4)
	for _, op := range order.Operations() {
		names = append(names, string(op))
	}
	cmd := &cobra.Command{
		Use:           fmt.Sprintf("orderbench <%s> --host URL", strings.Join(names, "|")),
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.SetOut(out)
	configureFlags(cmd.Flags())
	return cmd
}

// configureFlags sets up all CLI flags on the provided flag set.
func configureFlags(flags *pflag.FlagSet) {
	// Target and load flags
	flags.StringP("host", "s", "", "Base URL of the order service (e.g. http://localhost:8080)")
	flags.IntP("times", "t", 0, "Number of calls to make (0 means run until interrupted)")
	flags.Float64P("interval", "i", 0, "Seconds to wait between calls (fractional, e.g. 0.1)")
	flags.IntP("rate", "r", 0, "Calls per second cap (0 means unlimited)")
	flags.Duration("timeout", DefaultTimeout, "Per-call timeout")

	// Credentials
	flags.StringP("userid", "u", DefaultUserID, "User id to log in as")
	flags.String("password", DefaultPassword, "Password for the user")

	// Output flags
	flags.String("log-level", "info", "Log level: debug, info, warn or error")
	flags.String("log-format", LogFormatConsole, "Log encoding: console or json")
	flags.StringP("output", "o", OutputText, "Final report format: text, json or yaml")
	flags.String("metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")
	flags.String("config", "", "Path to configuration file (JSON or YAML)")

	// Tracing flags
	flags.String("tracing-endpoint", "", "OTLP collector endpoint (host:port)")
	flags.String("tracing-protocol", TracingProtocolGRPC, "OTLP protocol: grpc or http")
	flags.String("tracing-service-name", "", "Service name reported on spans")
	flags.Bool("tracing-insecure", false, "Disable TLS for the OTLP exporter")
	flags.Float64("tracing-sample-rate", 1.0, "Fraction of calls to sample (0.0-1.0)")
	flags.Bool("tracing-propagate", false, "Inject W3C trace context headers into order calls")
}

// displayHelp prints the help message for a command.
func displayHelp(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Usage: %s\n\nFlags:\n", cmd.UseLine())
	fs := cmd.Flags()
	fs.SetOutput(out)
	fs.PrintDefaults()
}

// applyFlagOverrides applies command-line flag values to the config, overriding
// values from the config file and environment.
func applyFlagOverrides(cfg *Config, fs *pflag.FlagSet) error {
	if fs.Changed("host") {
		val, err := fs.GetString("host")
		if err != nil {
			return err
		}
		cfg.Host = strings.TrimSpace(val)
	}
	if fs.Changed("times") {
		val, err := fs.GetInt("times")
		if err != nil {
			return err
		}
		cfg.Times = val
	}
	if fs.Changed("interval") {
		val, err := fs.GetFloat64("interval")
		if err != nil {
			return err
		}
		cfg.Interval = secondsToDuration(val)
	}
	if fs.Changed("rate") {
		val, err := fs.GetInt("rate")
		if err != nil {
			return err
		}
		cfg.Rate = val
	}
	if fs.Changed("timeout") {
		val, err := fs.GetDuration("timeout")
		if err != nil {
			return err
		}
		cfg.Timeout = val
	}
	if fs.Changed("userid") {
		val, err := fs.GetString("userid")
		if err != nil {
			return err
		}
		cfg.UserID = strings.TrimSpace(val)
	}
	if fs.Changed("password") {
		val, err := fs.GetString("password")
		if err != nil {
			return err
		}
		cfg.Password = val
	}
	if fs.Changed("log-level") {
		val, err := fs.GetString("log-level")
		if err != nil {
			return err
		}
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(val))
	}
	if fs.Changed("log-format") {
		val, err := fs.GetString("log-format")
		if err != nil {
			return err
		}
		cfg.LogFormat = strings.ToLower(strings.TrimSpace(val))
	}
	if fs.Changed("output") {
		val, err := fs.GetString("output")
		if err != nil {
			return err
		}
		cfg.Output = strings.ToLower(strings.TrimSpace(val))
	}
	if fs.Changed("metrics-addr") {
		val, err := fs.GetString("metrics-addr")
		if err != nil {
			return err
		}
		cfg.MetricsAddr = strings.TrimSpace(val)
	}
	return applyTracingFlagOverrides(&cfg.Tracing, fs)
}

func applyTracingFlagOverrides(t *TracingConfig, fs *pflag.FlagSet) error {
	if fs.Changed("tracing-endpoint") {
		val, err := fs.GetString("tracing-endpoint")
		if err != nil {
			return err
		}
		t.Endpoint = strings.TrimSpace(val)
	}
	if fs.Changed("tracing-protocol") {
		val, err := fs.GetString("tracing-protocol")
		if err != nil {
			return err
		}
		t.Protocol = strings.ToLower(strings.TrimSpace(val))
	}
	if fs.Changed("tracing-service-name") {
		val, err := fs.GetString("tracing-service-name")
		if err != nil {
			return err
		}
		t.ServiceName = strings.TrimSpace(val)
	}
	if fs.Changed("tracing-insecure") {
		val, err := fs.GetBool("tracing-insecure")
		if err != nil {
			return err
		}
		t.Insecure = val
	}
	if fs.Changed("tracing-sample-rate") {
		val, err := fs.GetFloat64("tracing-sample-rate")
		if err != nil {
			return err
		}
		t.SampleRate = val
	}
	if fs.Changed("tracing-propagate") {
		val, err := fs.GetBool("tracing-propagate")
		if err != nil {
			return err
		}
		t.Propagate = &val
	}
	return nil
}

func secondsToDuration(sec float64) time.Duration {
	return time.Duration(sec * float64(time.Second))
}
