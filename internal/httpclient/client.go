package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/torosent/orderbench/internal/order"
	"github.com/torosent/orderbench/internal/tracing"
)

// AuthProvider injects session credentials into outgoing requests.
type AuthProvider interface {
	InjectHeader(ctx context.Context, req *http.Request) error
}

// RequestSource yields the next order request to send.
type RequestSource interface {
	Build() (order.Request, error)
}

type RequestBuilder struct {
	base         *url.URL
	source       RequestSource
	headers      http.Header
	authProvider AuthProvider
	propagate    bool
}

// ParseHost validates a benchmark target such as http://10.0.0.1:8080.
func ParseHost(host string) (*url.URL, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		return nil, errors.New("host is required")
	}
	u, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid host %q: %w", host, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid host %q: scheme must be http or https", host)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid host %q: missing address", host)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

// ResolveURL appends path and query to base without mutating it.
func ResolveURL(base *url.URL, path string, query url.Values) string {
	u := *base
	u.Path = base.Path + path
	u.RawPath = ""
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func NewRequestBuilder(host string, source RequestSource) (*RequestBuilder, error) {
	if source == nil {
		return nil, errors.New("request source cannot be nil")
	}
	base, err := ParseHost(host)
	if err != nil {
		return nil, err
	}

	headers := http.Header{}
	headers.Set(order.SourceHeader, order.SourceContext)

	return &RequestBuilder{
		base:    base,
		source:  source,
		headers: headers,
	}, nil
}

// NewRequestBuilderWithAuth creates a RequestBuilder that attaches the session cookie to every request.
func NewRequestBuilderWithAuth(host string, source RequestSource, provider AuthProvider) (*RequestBuilder, error) {
	builder, err := NewRequestBuilder(host, source)
	if err != nil {
		return nil, err
	}
	builder.authProvider = provider
	return builder, nil
}

// EnableTracePropagation makes Build inject W3C trace context headers.
func (b *RequestBuilder) EnableTracePropagation() {
	b.propagate = true
}

func (b *RequestBuilder) Build(ctx context.Context) (*http.Request, error) {
	if b == nil {
		return nil, errors.New("builder cannot be nil")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	call, err := b.source.Build()
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	body := newBodySource(call.Body)
	reader, err := body.NewReader()
	if err != nil {
		return nil, err
	}

	target := ResolveURL(b.base, call.Path, call.Query)
	req, err := http.NewRequestWithContext(ctx, call.Method, target, reader)
	if err != nil {
		_ = reader.Close()
		return nil, err
	}

	req.Header = b.headers.Clone()
	if call.ContentType != "" {
		req.Header.Set("Content-Type", call.ContentType)
	}

	if length, ok := body.ContentLength(); ok {
		req.ContentLength = length
	}
	req.GetBody = body.NewReader

	if b.authProvider != nil {
		if err := b.authProvider.InjectHeader(ctx, req); err != nil {
			return nil, fmt.Errorf("auth provider inject header: %w", err)
		}
	}

	if b.propagate {
		tracing.InjectHTTPHeaders(ctx, req.Header)
	}

	return req, nil
}

// NewClient returns a client tuned for a single sequential worker. timeout
// bounds each call end to end; zero disables it.
func NewClient(timeout time.Duration) *http.Client {
	if timeout < 0 {
		timeout = 0
	}

	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          8,
		MaxIdleConnsPerHost:   2,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// DrainAndClose discards up to limit bytes of body so the connection can be reused.
func DrainAndClose(body io.ReadCloser, limit int64) {
	if body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(body, limit))
	_ = body.Close()
}
