// Package metrics collects run statistics for orderbench.
//
// # Collector
//
// The [Collector] type counts successes and failures and tracks latency:
//
//	collector := metrics.NewCollector()
//	collector.Start()
//
//	collector.RecordRequest(latency, err) // nil err is a success
//
//	stats := collector.Stats(collector.Elapsed())
//
// Failures are broken down by error kind (errors exposing a Kind method) and
// by HTTP status (errors exposing an HTTPStatus method). Stats always satisfy
// Successes + Failures == Total.
//
// # Prometheus
//
// An [Exporter] mirrors recorded calls into a private Prometheus registry:
//
//	exporter := metrics.NewExporter("get-order")
//	collector := metrics.NewCollector(metrics.WithExporter(exporter))
//	go exporter.Serve(ctx, ":9090", logger)
package metrics
