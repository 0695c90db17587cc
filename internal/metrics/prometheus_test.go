package metrics_test

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/torosent/orderbench/internal/metrics"
)

func scrape(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestExporterMirrorsCollector(t *testing.T) {
	exporter := metrics.NewExporter("get-order")
	c := metrics.NewCollector(metrics.WithExporter(exporter))

	c.RecordRequest(5*time.Millisecond, nil)
	c.RecordRequest(5*time.Millisecond, nil)
	c.RecordRequest(5*time.Millisecond, &statusError{code: 500})
	c.RecordRequest(5*time.Millisecond, &kindError{kind: "connection_refused"})

	body := scrape(t, exporter.Handler())

	assert.Contains(t, body, `orderbench_requests_total{operation="get-order",outcome="success"} 2`)
	assert.Contains(t, body, `orderbench_requests_total{operation="get-order",outcome="failure"} 2`)
	assert.Contains(t, body, `orderbench_failures_total{kind="unexpected_status",operation="get-order"} 1`)
	assert.Contains(t, body, `orderbench_failures_total{kind="connection_refused",operation="get-order"} 1`)
	assert.Contains(t, body, `orderbench_request_duration_seconds_count{operation="get-order"} 4`)
}

func TestExporterPublishesZeroSeriesBeforeFirstCall(t *testing.T) {
	exporter := metrics.NewExporter("create-order")

	body := scrape(t, exporter.Handler())

	assert.Contains(t, body, `orderbench_requests_total{operation="create-order",outcome="success"} 0`)
	assert.Contains(t, body, `orderbench_requests_total{operation="create-order",outcome="failure"} 0`)
	assert.Contains(t, body, `orderbench_request_duration_seconds_count{operation="create-order"} 0`)
}

func TestExportersUseSeparateRegistries(t *testing.T) {
	a := metrics.NewExporter("pay-order")
	b := metrics.NewExporter("pay-order")
	require.NotSame(t, a.Registry(), b.Registry())

	metrics.NewCollector(metrics.WithExporter(a)).RecordRequest(time.Millisecond, nil)

	assert.Contains(t, scrape(t, a.Handler()), `outcome="success"} 1`)
	assert.NotContains(t, scrape(t, b.Handler()), `outcome="success"} 1`)
}

func TestExporterServeStopsOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	exporter := metrics.NewExporter("delete-order")
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- exporter.Serve(ctx, addr, zap.NewNop()) }()

	var resp *http.Response
	require.Eventually(t, func() bool {
		resp, err = http.Get("http://" + addr + "/metrics")
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Contains(t, string(body), "orderbench_request_duration_seconds")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
