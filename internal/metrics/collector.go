package metrics

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// kinded is implemented by errors that carry a stable classification.
type kinded interface {
	Kind() string
}

// statusCoder is implemented by errors that carry an HTTP status.
type statusCoder interface {
	HTTPStatus() int
}

// successStatus is the only status a call may return to count as a success.
const successStatus = 200

// Collector records per-call metrics in a thread-safe manner.
type Collector struct {
	mu           sync.Mutex
	hist         *hdrhistogram.Histogram
	successes    int64
	failures     int64
	minLatency   time.Duration
	maxLatency   time.Duration
	sumLatency   time.Duration
	errorsByKind map[string]int64
	statusCodes  map[int]int64
	start        time.Time
	exporter     *Exporter
}

// Option customises a Collector.
type Option func(*Collector)

// WithExporter mirrors every recorded call into a Prometheus exporter.
func WithExporter(e *Exporter) Option {
	return func(c *Collector) {
		c.exporter = e
	}
}

// Stats represents aggregated metrics.
type Stats struct {
	Total          int64         `json:"total" yaml:"total"`
	Successes      int64         `json:"successes" yaml:"successes"`
	Failures       int64         `json:"failures" yaml:"failures"`
	MinLatency     time.Duration `json:"-" yaml:"-"`
	MaxLatency     time.Duration `json:"-" yaml:"-"`
	MeanLatency    time.Duration `json:"-" yaml:"-"`
	P50Latency     time.Duration `json:"-" yaml:"-"`
	P90Latency     time.Duration `json:"-" yaml:"-"`
	P99Latency     time.Duration `json:"-" yaml:"-"`
	Duration       time.Duration `json:"-" yaml:"-"`
	RequestsPerSec float64       `json:"requests_per_sec" yaml:"requests_per_sec"`

	// Millisecond fields for machine-readable reports.
	MinLatencyMs  float64          `json:"min_latency_ms" yaml:"min_latency_ms"`
	MaxLatencyMs  float64          `json:"max_latency_ms" yaml:"max_latency_ms"`
	MeanLatencyMs float64          `json:"mean_latency_ms" yaml:"mean_latency_ms"`
	P50LatencyMs  float64          `json:"p50_latency_ms" yaml:"p50_latency_ms"`
	P90LatencyMs  float64          `json:"p90_latency_ms" yaml:"p90_latency_ms"`
	P99LatencyMs  float64          `json:"p99_latency_ms" yaml:"p99_latency_ms"`
	DurationMs    float64          `json:"duration_ms" yaml:"duration_ms"`
	Errors        map[string]int64 `json:"errors,omitempty" yaml:"errors,omitempty"`
	StatusCodes   map[string]int64 `json:"status_codes,omitempty" yaml:"status_codes,omitempty"`
}

func NewCollector(opts ...Option) *Collector {
	// Track latencies from 1µs up to 60s with 3 significant figures.
	h := hdrhistogram.New(1, 60_000_000, 3)
	c := &Collector{
		hist:         h,
		errorsByKind: make(map[string]int64),
		statusCodes:  make(map[int]int64),
		start:        time.Now(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start resets the reference time used for the run.
func (c *Collector) Start() {
	c.mu.Lock()
	c.start = time.Now()
	c.mu.Unlock()
}

// Elapsed returns the time since Start.
func (c *Collector) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return time.Since(c.start)
}

// RecordRequest records a single call's latency and outcome. A nil err is a
// success; anything else is a failure.
func (c *Collector) RecordRequest(latency time.Duration, err error) {
	kind := ""
	c.mu.Lock()

	if latency > 0 {
		us := latency.Microseconds()
		if us < c.hist.LowestTrackableValue() {
			us = c.hist.LowestTrackableValue()
		}
		if us > c.hist.HighestTrackableValue() {
			us = c.hist.HighestTrackableValue()
		}
		_ = c.hist.RecordValue(us)
	}
	c.sumLatency += latency

	if c.minLatency == 0 || latency < c.minLatency {
		c.minLatency = latency
	}
	if latency > c.maxLatency {
		c.maxLatency = latency
	}

	if err == nil {
		c.successes++
		c.statusCodes[successStatus]++
	} else {
		c.failures++
		kind = ErrorKind(err)
		c.errorsByKind[kind]++
		var sc statusCoder
		if errors.As(err, &sc) {
			c.statusCodes[sc.HTTPStatus()]++
		}
	}
	c.mu.Unlock()

	if c.exporter != nil {
		c.exporter.observe(latency, kind)
	}
}

// Total returns the number of calls recorded so far.
func (c *Collector) Total() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.successes + c.failures
}

// Stats computes and returns current aggregated statistics.
func (c *Collector) Stats(elapsed time.Duration) Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.successes + c.failures
	stats := Stats{
		Total:      total,
		Successes:  c.successes,
		Failures:   c.failures,
		MinLatency: c.minLatency,
		MaxLatency: c.maxLatency,
	}

	if total > 0 {
		stats.MeanLatency = time.Duration(int64(c.sumLatency) / total)
	}

	if c.hist.TotalCount() > 0 {
		stats.P50Latency = time.Duration(c.hist.ValueAtQuantile(50)) * time.Microsecond
		stats.P90Latency = time.Duration(c.hist.ValueAtQuantile(90)) * time.Microsecond
		stats.P99Latency = time.Duration(c.hist.ValueAtQuantile(99)) * time.Microsecond
	}

	stats.MinLatencyMs = toMillis(stats.MinLatency)
	stats.MaxLatencyMs = toMillis(stats.MaxLatency)
	stats.MeanLatencyMs = toMillis(stats.MeanLatency)
	stats.P50LatencyMs = toMillis(stats.P50Latency)
	stats.P90LatencyMs = toMillis(stats.P90Latency)
	stats.P99LatencyMs = toMillis(stats.P99Latency)

	stats.Duration = elapsed
	stats.DurationMs = toMillis(elapsed)
	if elapsed > 0 && total > 0 {
		stats.RequestsPerSec = float64(total) / elapsed.Seconds()
	}

	if len(c.errorsByKind) > 0 {
		stats.Errors = make(map[string]int64, len(c.errorsByKind))
		for k, v := range c.errorsByKind {
			stats.Errors[k] = v
		}
	}
	if len(c.statusCodes) > 0 {
		stats.StatusCodes = make(map[string]int64, len(c.statusCodes))
		for code, v := range c.statusCodes {
			stats.StatusCodes[strconv.Itoa(code)] = v
		}
	}

	return stats
}

// ErrorKind returns the classification of err used as the breakdown key.
// Errors without a Kind method fall back to their Go type name.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	var k kinded
	if errors.As(err, &k) {
		return k.Kind()
	}
	errorType := fmt.Sprintf("%T", err)
	if len(errorType) > 30 {
		errorType = errorType[len(errorType)-30:]
	}
	return errorType
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
