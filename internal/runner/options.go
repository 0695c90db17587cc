package runner

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/torosent/orderbench/internal/metrics"
)

// DefaultStatInterval is the number of calls between statistics snapshots.
const DefaultStatInterval = 100

// Requester abstracts executing a single order call.
// Implementations return nil only when the call succeeded (HTTP 200).
type Requester interface {
	Do(ctx context.Context) error
}

// Reporter receives a statistics snapshot every StatInterval calls.
type Reporter interface {
	Report(stats metrics.Stats)
}

// Options configure the Engine.
type Options struct {
	Limit          Limit                       // how many calls to make (zero value: unbounded)
	Interval       time.Duration               // pause between calls (0 means none)
	RatePerSecond  int                         // optional cap on calls per second (0 means uncapped)
	Requester      Requester                   // call executor (required)
	Collector      *metrics.Collector          // run statistics; created when nil
	Reporter       Reporter                    // periodic snapshot sink (optional)
	StatInterval   int                         // calls between snapshots (default 100)
	Logger         *zap.Logger                 // per-call outcome logging (optional)
	LimiterFactory func(rps int) *rate.Limiter // optional injection for tests
}

func (o *Options) normalize() {
	if o.Interval < 0 {
		o.Interval = 0
	}
	if o.RatePerSecond < 0 {
		o.RatePerSecond = 0
	}
	if o.StatInterval <= 0 {
		o.StatInterval = DefaultStatInterval
	}
	if o.Collector == nil {
		o.Collector = metrics.NewCollector()
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.LimiterFactory == nil {
		o.LimiterFactory = func(rps int) *rate.Limiter {
			if rps <= 0 {
				return rate.NewLimiter(rate.Inf, 0)
			}
			// A single worker never needs more than one token at a time.
			return rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}
