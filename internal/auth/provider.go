package auth

import (
	"context"
	"net/http"
)

// Provider defines the interface for credentials that can be attached to
// outgoing order requests.
type Provider interface {
	// InjectHeader adds the credential to the provided HTTP request.
	InjectHeader(ctx context.Context, req *http.Request) error

	// Close releases any resources held by the provider.
	Close() error
}
