package output

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/torosent/orderbench/internal/metrics"
)

// StatsReporter logs a one-line statistics snapshot for an operation.
type StatsReporter struct {
	label  string
	logger *zap.Logger
}

// NewStatsReporter creates a reporter whose lines are tagged with label,
// e.g. "query order".
func NewStatsReporter(label string, logger *zap.Logger) *StatsReporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsReporter{label: label, logger: logger}
}

// Report emits the snapshot at info level. It never alters the stats.
func (r *StatsReporter) Report(stats metrics.Stats) {
	r.logger.Info(StatsLine(r.label, stats),
		zap.Float64("rps", stats.RequestsPerSec),
		zap.Duration("p99", stats.P99Latency),
	)
}

// StatsLine renders the periodic statistics line.
func StatsLine(label string, stats metrics.Stats) string {
	return fmt.Sprintf("[%s stat] total requests: %d, success: %d, failure: %d",
		label, stats.Total, stats.Successes, stats.Failures)
}
