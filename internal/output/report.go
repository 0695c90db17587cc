package output

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/torosent/orderbench/internal/metrics"
)

// Summary is the final report of a run.
type Summary struct {
	RunID         string `json:"run_id" yaml:"run_id"`
	Operation     string `json:"operation" yaml:"operation"`
	Target        string `json:"target" yaml:"target"`
	Limit         string `json:"limit" yaml:"limit"`
	metrics.Stats `yaml:",inline"`
}

// PrintReport outputs a human-readable summary report.
func PrintReport(w io.Writer, s Summary) {
	fmt.Fprintln(w, "\n--- Benchmark Results ---")
	fmt.Fprintf(w, "Run:               %s\n", s.RunID)
	fmt.Fprintf(w, "Operation:         %s\n", s.Operation)
	fmt.Fprintf(w, "Target:            %s\n", s.Target)
	fmt.Fprintf(w, "Limit:             %s\n", s.Limit)
	fmt.Fprintf(w, "Total Requests:    %d\n", s.Total)
	fmt.Fprintf(w, "Successful:        %d\n", s.Successes)
	fmt.Fprintf(w, "Failed:            %d\n", s.Failures)
	fmt.Fprintf(w, "Duration:          %s\n", s.Duration)
	fmt.Fprintf(w, "Requests/sec:      %.2f\n", s.RequestsPerSec)
	fmt.Fprintln(w, "\nLatency:")
	fmt.Fprintf(w, "  Min:             %s\n", s.MinLatency)
	fmt.Fprintf(w, "  Max:             %s\n", s.MaxLatency)
	fmt.Fprintf(w, "  Mean:            %s\n", s.MeanLatency)
	fmt.Fprintf(w, "  P50:             %s\n", s.P50Latency)
	fmt.Fprintf(w, "  P90:             %s\n", s.P90Latency)
	fmt.Fprintf(w, "  P99:             %s\n", s.P99Latency)

	if len(s.StatusCodes) > 0 {
		fmt.Fprintln(w, "\nStatus Codes:")
		for _, row := range metrics.FlattenBuckets(s.StatusCodes) {
			fmt.Fprintf(w, "  HTTP %s: %d\n", row.Key, row.Count)
		}
	}
	if len(s.Errors) > 0 {
		fmt.Fprintln(w, "\nFailures:")
		for _, row := range metrics.FlattenBuckets(s.Errors) {
			fmt.Fprintf(w, "  %s: %d\n", metrics.FriendlyErrorName(row.Key), row.Count)
		}
	}
}

// PrintJSONReport outputs a JSON-formatted report.
func PrintJSONReport(w io.Writer, s Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// PrintYAMLReport outputs a YAML-formatted report.
func PrintYAMLReport(w io.Writer, s Summary) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return err
	}
	return enc.Close()
}

// Print renders s in the named format: text, json or yaml.
func Print(w io.Writer, format string, s Summary) error {
	switch format {
	case "", FormatText:
		PrintReport(w, s)
		return nil
	case FormatJSON:
		return PrintJSONReport(w, s)
	case FormatYAML:
		return PrintYAMLReport(w, s)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)
