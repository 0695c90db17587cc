// Package order describes the four order API calls driven by the benchmark.
package order

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// OrdersPath is the collection endpoint of the order service.
	OrdersPath = "/orders/huaweiair/v1/orders"

	// SourceHeader carries the calling microservice for downstream routing.
	SourceHeader = "x-cse-context"
	// SourceContext marks requests as originating from the gateway.
	SourceContext = `{"x-ces-src-microservice": "gateway"}`

	ContentTypeJSON = "application/json"
	ContentTypeForm = "application/x-www-form-urlencoded"
)

// Request is a fully resolved call, relative to the target host.
type Request struct {
	Method      string
	Path        string
	Query       url.Values
	ContentType string
	Body        []byte
}

// Option customizes a Descriptor.
type Option func(*Descriptor)

// WithClock overrides the time source used for booking dates.
func WithClock(now func() time.Time) Option {
	return func(d *Descriptor) {
		if now != nil {
			d.now = now
		}
	}
}

// WithIDGenerator overrides how order identifiers are generated.
func WithIDGenerator(gen func() string) Option {
	return func(d *Descriptor) {
		if gen != nil {
			d.newID = gen
		}
	}
}

// Descriptor produces a Request for one operation on every call to Build.
type Descriptor struct {
	op     Operation
	userID string
	now    func() time.Time
	newID  func() string
}

// NewDescriptor validates the operation and user and returns a Descriptor.
func NewDescriptor(op Operation, userID string, opts ...Option) (*Descriptor, error) {
	if !op.Valid() {
		return nil, fmt.Errorf("unsupported operation %q", op)
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, errors.New("user id is required")
	}
	d := &Descriptor{
		op:     op,
		userID: userID,
		now:    time.Now,
		newID:  NewOrderID,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Build resolves the next request. Pay and delete target a freshly
// generated order id each time, so most of them exercise the not-found path.
func (d *Descriptor) Build() (Request, error) {
	switch d.op {
	case OperationQuery:
		return Request{
			Method: http.MethodGet,
			Path:   OrdersPath,
			Query:  url.Values{"userId": {d.userID}},
		}, nil
	case OperationCreate:
		body, err := json.Marshal(NewBooking(d.userID, d.now()))
		if err != nil {
			return Request{}, fmt.Errorf("encode booking: %w", err)
		}
		return Request{
			Method:      http.MethodPost,
			Path:        OrdersPath,
			ContentType: ContentTypeJSON,
			Body:        body,
		}, nil
	case OperationPay:
		form := url.Values{"action": {"1"}}
		return Request{
			Method:      http.MethodPut,
			Path:        d.orderPath(),
			ContentType: ContentTypeForm,
			Body:        []byte(form.Encode()),
		}, nil
	case OperationDelete:
		return Request{
			Method: http.MethodDelete,
			Path:   d.orderPath(),
		}, nil
	default:
		return Request{}, fmt.Errorf("unsupported operation %q", d.op)
	}
}

func (d *Descriptor) orderPath() string {
	return OrdersPath + "/" + d.newID()
}

// NewOrderID returns a random 32 character hex identifier.
func NewOrderID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
