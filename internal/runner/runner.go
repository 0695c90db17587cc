package runner

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/torosent/orderbench/internal/metrics"
)

// Result captures execution summary.
type Result struct {
	Total    int64
	Errors   int64
	Duration time.Duration
	Stats    metrics.Stats
}

// Engine drives one operation sequentially: exactly one call is in flight
// at any time.
type Engine struct {
	opt     Options
	limiter *rate.Limiter
}

func New(opt Options) *Engine {
	opt.normalize()
	return &Engine{opt: opt, limiter: opt.LimiterFactory(opt.RatePerSecond)}
}

// Run executes calls until the limit is reached or ctx is cancelled. Failed
// calls are counted and the loop moves on; a call interrupted by
// cancellation is not counted.
func (e *Engine) Run(ctx context.Context) Result {
	start := time.Now()
	e.opt.Collector.Start()

	if e.opt.Requester == nil {
		e.opt.Logger.Error("no requester configured")
		return e.result(start)
	}

	var completed int64
	for e.opt.Limit.Allows(completed) {
		if ctx.Err() != nil {
			break
		}
		if err := e.limiter.Wait(ctx); err != nil {
			break
		}

		callStart := time.Now()
		err := e.opt.Requester.Do(ctx)
		latency := time.Since(callStart)
		if err != nil && ctx.Err() != nil {
			break
		}

		completed++
		e.opt.Collector.RecordRequest(latency, err)
		e.logOutcome(completed, err)

		if completed%int64(e.opt.StatInterval) == 0 && e.opt.Reporter != nil {
			e.opt.Reporter.Report(e.opt.Collector.Stats(e.opt.Collector.Elapsed()))
		}

		if e.opt.Interval > 0 && e.opt.Limit.Allows(completed) {
			if !pause(ctx, e.opt.Interval) {
				break
			}
		}
	}

	return e.result(start)
}

func (e *Engine) result(start time.Time) Result {
	elapsed := time.Since(start)
	stats := e.opt.Collector.Stats(elapsed)
	return Result{
		Total:    stats.Total,
		Errors:   stats.Failures,
		Duration: elapsed,
		Stats:    stats,
	}
}

func (e *Engine) logOutcome(call int64, err error) {
	if Classify(err) == OutcomeSuccess {
		e.opt.Logger.Debug("call succeeded", zap.Int64("call", call))
		return
	}

	var statusErr *StatusError
	switch {
	case errors.As(err, &statusErr):
		e.opt.Logger.Debug("call got unexpected status",
			zap.Int64("call", call), zap.Int("status", statusErr.StatusCode))
	case IsConnectionRefused(err):
		e.opt.Logger.Error("connection refused", zap.Int64("call", call), zap.Error(err))
	default:
		e.opt.Logger.Error("call failed with exception", zap.Int64("call", call), zap.Error(err))
	}
}

// pause waits for d unless ctx is cancelled first.
func pause(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
