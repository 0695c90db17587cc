package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/torosent/orderbench/internal/order"
)

// EnvPrefix prefixes environment variables that override config file values,
// e.g. ORDERBENCH_HOST or ORDERBENCH_TRACING_ENDPOINT.
const EnvPrefix = "ORDERBENCH"

// settingKeys are the config keys that may also come from the environment.
var settingKeys = []string{
	"host", "operation", "times", "interval", "userid", "password", "timeout",
	"rate", "log_level", "log_format", "output", "metrics_addr",
	"tracing.endpoint", "tracing.protocol", "tracing.service_name",
	"tracing.insecure", "tracing.sample_rate", "tracing.propagate",
}

// Loader handles loading configuration from files, environment and
// command-line arguments.
type Loader struct {
	// Stdout receives usage text; defaults to os.Stdout.
	Stdout io.Writer
}

// ErrHelpRequested is returned when the user requests help via --help flag.
var ErrHelpRequested = errors.New("help requested")

// Load parses command-line arguments and configuration sources to produce a
// Config. The first positional argument names the operation.
func (l Loader) Load(args []string) (*Config, error) {
	out := l.Stdout
	if out == nil {
		out = os.Stdout
	}
	cmd := newFlagCommand(out)
	if err := cmd.Flags().Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			displayHelp(cmd)
			return nil, ErrHelpRequested
		}
		return nil, &UsageError{Msg: err.Error()}
	}

	flagSet := cmd.Flags()
	if helpFlag := flagSet.Lookup("help"); helpFlag != nil {
		if wantsHelp, err := strconv.ParseBool(helpFlag.Value.String()); err == nil && wantsHelp {
			displayHelp(cmd)
			return nil, ErrHelpRequested
		}
	}

	configPath := flagSet.Lookup("config").Value.String()
	cfgViper := viper.New()
	cfgViper.SetEnvPrefix(EnvPrefix)
	cfgViper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range settingKeys {
		if err := cfgViper.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}
	if configPath != "" {
		cfgViper.SetConfigFile(configPath)
		if err := cfgViper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configPath, err)
		}
	}

	cfg := defaultConfig()
	cfg.ConfigFile = configPath

	opName, err := applyConfigSettings(cfg, cfgViper.AllSettings())
	if err != nil {
		return nil, err
	}

	if err := applyFlagOverrides(cfg, flagSet); err != nil {
		return nil, err
	}

	positional := flagSet.Args()
	if len(positional) > 1 {
		return nil, &UsageError{Msg: fmt.Sprintf("unexpected arguments: %s", strings.Join(positional[1:], " "))}
	}
	if len(positional) == 1 {
		opName = positional[0]
	}

	if strings.TrimSpace(opName) == "" {
		displayHelp(cmd)
		return nil, &UsageError{Msg: "missing command", ShowHelp: true}
	}
	op, err := order.ParseOperation(opName)
	if err != nil {
		return nil, &UsageError{Msg: err.Error()}
	}
	cfg.Operation = op

	if cfg.Host == "" {
		displayHelp(cmd)
		return nil, &UsageError{Msg: "missing required --host", ShowHelp: true}
	}

	return cfg, nil
}

// applyConfigSettings applies settings from a config file or the environment
// to cfg and returns the operation name they carry, if any.
func applyConfigSettings(cfg *Config, settings map[string]interface{}) (string, error) {
	if len(settings) == 0 {
		return "", nil
	}

	var opName string
	if raw, ok := lookupSetting(settings, "operation", "command"); ok {
		val, err := asString(raw)
		if err != nil {
			return "", fmt.Errorf("operation: %w", err)
		}
		opName = strings.TrimSpace(val)
	}

	if raw, ok := lookupSetting(settings, "host", "target"); ok {
		val, err := asString(raw)
		if err != nil {
			return "", fmt.Errorf("host: %w", err)
		}
		cfg.Host = strings.TrimSpace(val)
	}

	if raw, ok := lookupSetting(settings, "times", "total"); ok {
		val, err := asInt(raw)
		if err != nil {
			return "", fmt.Errorf("times: %w", err)
		}
		cfg.Times = val
	}

	if raw, ok := lookupSetting(settings, "interval"); ok {
		dur, err := asSeconds(raw)
		if err != nil {
			return "", fmt.Errorf("interval: %w", err)
		}
		cfg.Interval = dur
	}

	if raw, ok := lookupSetting(settings, "userid", "user_id", "user-id"); ok {
		val, err := asString(raw)
		if err != nil {
			return "", fmt.Errorf("userid: %w", err)
		}
		if val = strings.TrimSpace(val); val != "" {
			cfg.UserID = val
		}
	}

	if raw, ok := lookupSetting(settings, "password"); ok {
		val, err := asString(raw)
		if err != nil {
			return "", fmt.Errorf("password: %w", err)
		}
		cfg.Password = val
	}

	if raw, ok := lookupSetting(settings, "timeout"); ok {
		dur, err := asSeconds(raw)
		if err != nil {
			return "", fmt.Errorf("timeout: %w", err)
		}
		cfg.Timeout = dur
	}

	if raw, ok := lookupSetting(settings, "rate"); ok {
		val, err := asInt(raw)
		if err != nil {
			return "", fmt.Errorf("rate: %w", err)
		}
		cfg.Rate = val
	}

	if raw, ok := lookupSetting(settings, "log_level", "loglevel", "log-level"); ok {
		val, err := asString(raw)
		if err != nil {
			return "", fmt.Errorf("log_level: %w", err)
		}
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(val))
	}

	if raw, ok := lookupSetting(settings, "log_format", "logformat", "log-format"); ok {
		val, err := asString(raw)
		if err != nil {
			return "", fmt.Errorf("log_format: %w", err)
		}
		cfg.LogFormat = strings.ToLower(strings.TrimSpace(val))
	}

	if raw, ok := lookupSetting(settings, "output"); ok {
		val, err := asString(raw)
		if err != nil {
			return "", fmt.Errorf("output: %w", err)
		}
		cfg.Output = strings.ToLower(strings.TrimSpace(val))
	}

	if raw, ok := lookupSetting(settings, "metrics_addr", "metricsaddr", "metrics-addr"); ok {
		val, err := asString(raw)
		if err != nil {
			return "", fmt.Errorf("metrics_addr: %w", err)
		}
		cfg.MetricsAddr = strings.TrimSpace(val)
	}

	if raw, ok := lookupSetting(settings, "tracing"); ok {
		if err := applyTracingSettings(&cfg.Tracing, raw); err != nil {
			return "", fmt.Errorf("tracing: %w", err)
		}
	}

	return opName, nil
}

func applyTracingSettings(t *TracingConfig, value interface{}) error {
	settings, err := toStringKeyMap(value)
	if err != nil {
		return err
	}

	if raw, ok := lookupSetting(settings, "endpoint"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("endpoint: %w", err)
		}
		t.Endpoint = strings.TrimSpace(val)
	}
	if raw, ok := lookupSetting(settings, "protocol"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("protocol: %w", err)
		}
		if val = strings.ToLower(strings.TrimSpace(val)); val != "" {
			t.Protocol = val
		}
	}
	if raw, ok := lookupSetting(settings, "service_name", "servicename", "service-name"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("service_name: %w", err)
		}
		t.ServiceName = strings.TrimSpace(val)
	}
	if raw, ok := lookupSetting(settings, "insecure"); ok {
		val, err := asBool(raw)
		if err != nil {
			return fmt.Errorf("insecure: %w", err)
		}
		t.Insecure = val
	}
	if raw, ok := lookupSetting(settings, "sample_rate", "samplerate", "sample-rate"); ok {
		val, err := asFloat64(raw)
		if err != nil {
			return fmt.Errorf("sample_rate: %w", err)
		}
		t.SampleRate = val
	}
	if raw, ok := lookupSetting(settings, "propagate"); ok {
		val, err := asBool(raw)
		if err != nil {
			return fmt.Errorf("propagate: %w", err)
		}
		t.Propagate = &val
	}
	return nil
}
