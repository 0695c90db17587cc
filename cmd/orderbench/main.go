package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/torosent/orderbench/internal/auth"
	"github.com/torosent/orderbench/internal/config"
	"github.com/torosent/orderbench/internal/httpclient"
	"github.com/torosent/orderbench/internal/logging"
	"github.com/torosent/orderbench/internal/metrics"
	"github.com/torosent/orderbench/internal/order"
	"github.com/torosent/orderbench/internal/output"
	"github.com/torosent/orderbench/internal/runner"
	"github.com/torosent/orderbench/internal/tracing"
)

const tracingShutdownTimeout = 5 * time.Second

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	loader := config.Loader{Stdout: stdout}
	cfg, err := loader.Load(args)
	if err != nil {
		if errors.Is(err, config.ErrHelpRequested) {
			return nil
		}
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	runID := ulid.Make().String()
	logger, err := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: stderr,
	})
	if err != nil {
		return err
	}
	logger = logger.With(zap.String("run", runID))
	defer func() { _ = logger.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return execute(ctx, cfg, runID, logger, stdout)
}

// execute logs in once and drives the configured operation to completion.
// Call failures are reported, not returned; only setup and login errors are.
func execute(ctx context.Context, cfg *config.Config, runID string, logger *zap.Logger, stdout io.Writer) error {
	tp, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), tracingShutdownTimeout)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Warn("tracing shutdown failed", zap.Error(err))
		}
	}()

	op := cfg.Operation
	var collectorOpts []metrics.Option
	if cfg.MetricsAddr != "" {
		exporter := metrics.NewExporter(op.String())
		collectorOpts = append(collectorOpts, metrics.WithExporter(exporter))

		metricsCtx, stopMetrics := context.WithCancel(ctx)
		defer stopMetrics()
		go func() {
			if err := exporter.Serve(metricsCtx, cfg.MetricsAddr, logger); err != nil {
				logger.Error("metrics endpoint failed", zap.Error(err))
			}
		}()
	}
	collector := metrics.NewCollector(collectorOpts...)

	limit := runner.LimitFromTimes(cfg.Times)
	client := httpclient.NewClient(cfg.Timeout)

	logger.Info("start "+op.Label(),
		zap.String("host", cfg.Host),
		zap.Stringer("limit", limit),
		zap.Duration("interval", cfg.Interval),
		zap.String("user", cfg.UserID),
	)

	cred, err := auth.NewAuthenticator(client, logger).Login(ctx, cfg.Host, cfg.UserID, cfg.Password)
	if err != nil {
		return err
	}
	defer func() { _ = cred.Close() }()

	descriptor, err := order.NewDescriptor(op, cfg.UserID)
	if err != nil {
		return err
	}
	builder, err := httpclient.NewRequestBuilderWithAuth(cfg.Host, descriptor, cred)
	if err != nil {
		return err
	}
	if tp.ShouldPropagate() {
		builder.EnableTracePropagation()
	}

	requester := &httpRequester{
		client:    client,
		builder:   builder,
		operation: op,
		tracer:    tp.Tracer(),
		logger:    logger,
	}

	engine := runner.New(runner.Options{
		Limit:         limit,
		Interval:      cfg.Interval,
		RatePerSecond: cfg.Rate,
		Requester:     requester,
		Collector:     collector,
		Reporter:      output.NewStatsReporter(op.Label(), logger),
		Logger:        logger,
	})
	result := engine.Run(ctx)

	logger.Info("finish "+op.Label(),
		zap.Int64("total", result.Total),
		zap.Int64("failures", result.Errors),
		zap.Duration("elapsed", result.Duration),
	)

	return output.Print(stdout, cfg.Output, output.Summary{
		RunID:     runID,
		Operation: op.String(),
		Target:    cfg.Host,
		Limit:     limit.String(),
		Stats:     result.Stats,
	})
}
