package runner

import (
	"errors"
	"fmt"
	"net"
	"syscall"
)

// ErrorKind groups call failures for logging and reporting.
type ErrorKind string

const (
	KindConnectionRefused ErrorKind = "connection_refused"
	KindTimeout           ErrorKind = "timeout"
	KindDNS               ErrorKind = "dns"
	KindTransport         ErrorKind = "transport"
	KindStatus            ErrorKind = "unexpected_status"
)

// Outcome is the classification of a single call.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeFailure
)

func (o Outcome) String() string {
	if o == OutcomeSuccess {
		return "success"
	}
	return "failure"
}

// Classify maps the error returned by a Requester onto an Outcome.
func Classify(err error) Outcome {
	if err == nil {
		return OutcomeSuccess
	}
	return OutcomeFailure
}

// StatusError reports a response whose status was not 200.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// Kind implements the metrics error-kind hook.
func (e *StatusError) Kind() string { return string(KindStatus) }

// HTTPStatus implements the metrics status hook.
func (e *StatusError) HTTPStatus() int { return e.StatusCode }

// TransportError wraps an I/O level failure: no response was received.
type TransportError struct {
	Class ErrorKind
	Err   error
}

// NewTransportError classifies err as connection refused, timeout, DNS or
// generic transport failure.
func NewTransportError(err error) *TransportError {
	return &TransportError{Class: classifyTransport(err), Err: err}
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return string(e.Class)
	}
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

// Kind implements the metrics error-kind hook.
func (e *TransportError) Kind() string { return string(e.Class) }

// IsConnectionRefused reports whether err is a refused connection.
func IsConnectionRefused(err error) bool {
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return transportErr.Class == KindConnectionRefused
	}
	return errors.Is(err, syscall.ECONNREFUSED)
}

func classifyTransport(err error) ErrorKind {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return KindDNS
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return KindConnectionRefused
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}
	return KindTransport
}
