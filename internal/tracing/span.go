package tracing

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// StartRequestSpan starts a client span for one order call. The span must
// exist before the request is built so propagation can see it.
func StartRequestSpan(ctx context.Context, tracer trace.Tracer, operation string) (context.Context, trace.Span) {
	ctx, span := tracer.Start(ctx, operation,
		trace.WithSpanKind(trace.SpanKindClient),
	)
	span.SetAttributes(attribute.String("orderbench.operation", operation))
	return ctx, span
}

// AnnotateRequest records the method and path of the built request.
func AnnotateRequest(span trace.Span, method, path string) {
	span.SetAttributes(attribute.String("http.request.method", method))
	if path != "" {
		span.SetAttributes(attribute.String("url.path", path))
	}
}

// StatusAttr records the HTTP response status on a span.
func StatusAttr(code int) attribute.KeyValue {
	return attribute.Int("http.response.status_code", code)
}

// EndSpan finishes a span, recording error status if applicable.
func EndSpan(span trace.Span, err error, attrs ...attribute.KeyValue) {
	if len(attrs) > 0 {
		span.SetAttributes(attrs...)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// InjectHTTPHeaders injects W3C trace context into HTTP headers.
func InjectHTTPHeaders(ctx context.Context, headers http.Header) {
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(headers))
}
