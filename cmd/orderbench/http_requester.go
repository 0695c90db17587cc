package main

import (
	"context"
	"io"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/torosent/orderbench/internal/httpclient"
	"github.com/torosent/orderbench/internal/order"
	"github.com/torosent/orderbench/internal/runner"
	"github.com/torosent/orderbench/internal/tracing"
)

const (
	maxLoggedBodyBytes = 1024
	maxBodyReadSize    = 1024 * 1024
)

// httpRequester implements runner.Requester for one order operation.
type httpRequester struct {
	client    *http.Client
	builder   *httpclient.RequestBuilder
	operation order.Operation
	tracer    trace.Tracer
	logger    *zap.Logger
}

// Do builds and sends one call. Only HTTP 200 is a success.
func (r *httpRequester) Do(ctx context.Context) (err error) {
	ctx, span := tracing.StartRequestSpan(ctx, r.tracer, r.operation.String())
	var attrs []attribute.KeyValue
	defer func() {
		tracing.EndSpan(span, err, attrs...)
	}()

	req, err := r.builder.Build(ctx)
	if err != nil {
		return err
	}
	tracing.AnnotateRequest(span, req.Method, req.URL.Path)

	resp, err := r.client.Do(req)
	if err != nil {
		return runner.NewTransportError(err)
	}
	defer resp.Body.Close()
	attrs = append(attrs, tracing.StatusAttr(resp.StatusCode))

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyReadSize))
	if resp.StatusCode != http.StatusOK {
		snippet := body
		if len(snippet) > maxLoggedBodyBytes {
			snippet = snippet[:maxLoggedBodyBytes]
		}
		return &runner.StatusError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}
	if readErr != nil {
		return runner.NewTransportError(readErr)
	}

	if r.operation == order.OperationQuery {
		if n, ok := order.CountOrders(body); ok {
			r.logger.Debug("orders returned", zap.Int("count", n))
		}
	}
	return nil
}
