package core

import (
	"context"
	"net/http"
)

// Response is the raw outcome of one HTTP exchange.
type Response struct {
	// StatusCode is the HTTP status code returned by the server.
	StatusCode int

	// Status is the reason phrase, e.g. "Not Found".
	Status string

	// Body contains the raw response body bytes.
	Body []byte

	// Headers contains the response headers as key-value pairs.
	Headers map[string]string
}

// IsSuccess returns true if the response status code indicates success (2xx).
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// IsError returns true if the response status code indicates an error (4xx or 5xx).
func (r *Response) IsError() bool {
	return r.StatusCode >= http.StatusBadRequest
}

// Reason returns the reason phrase, falling back to the standard text for the status code.
func (r *Response) Reason() string {
	if r.Status != "" {
		return r.Status
	}
	return http.StatusText(r.StatusCode)
}

// Protocol defines the exchange-specific half of a client: how requests are
// built and signed and how responses are decoded.
type Protocol interface {
	// Name returns the exchange identifier (e.g., "binance").
	Name() string

	// Version returns the API version being used.
	Version() string

	// BaseURL returns the API base URL, the test environment when testnet is set.
	BaseURL(testnet bool) string

	// BuildRequest constructs an HTTP request for the specified operation.
	BuildRequest(ctx context.Context, op Operation, params Params) (*Request, error)

	// ParseResponse decodes the response into the canonical type for op,
	// or returns a request or parse error.
	ParseResponse(op Operation, resp *Response) (any, error)

	// SignRequest adds authentication headers and the signature to req.
	SignRequest(req *Request, creds Credentials) error

	// SupportedOperations returns the list of operations this protocol supports.
	SupportedOperations() []Operation
}
