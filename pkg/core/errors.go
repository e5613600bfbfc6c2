package core

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType represents the category of an exchange error.
type ErrorType int

// Error type constants categorize errors for proper handling by the caller.
const (
	// ErrorTypeUnknown indicates an unclassified error.
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeNetwork indicates a network connectivity issue.
	ErrorTypeNetwork
	// ErrorTypeTimeout indicates the request exceeded its deadline.
	ErrorTypeTimeout
	// ErrorTypeRateLimit indicates rate limit was exceeded.
	ErrorTypeRateLimit
	// ErrorTypeAuthentication indicates invalid or expired credentials.
	ErrorTypeAuthentication
	// ErrorTypeBadRequest indicates invalid request parameters.
	ErrorTypeBadRequest
	// ErrorTypeNotFound indicates the requested resource does not exist.
	ErrorTypeNotFound
	// ErrorTypeServerError indicates a server-side error.
	ErrorTypeServerError
	// ErrorTypeInsufficientFunds indicates account lacks required balance.
	ErrorTypeInsufficientFunds
	// ErrorTypeInvalidOrder indicates the order violates exchange rules.
	ErrorTypeInvalidOrder
	// ErrorTypeParse indicates a successful response whose body could not be decoded.
	ErrorTypeParse
)

// String returns the string representation of the error type.
func (t ErrorType) String() string {
	return [...]string{
		"UNKNOWN",
		"NETWORK",
		"TIMEOUT",
		"RATE_LIMIT",
		"AUTHENTICATION",
		"BAD_REQUEST",
		"NOT_FOUND",
		"SERVER_ERROR",
		"INSUFFICIENT_FUNDS",
		"INVALID_ORDER",
		"PARSE",
	}[t]
}

// Sentinel errors for common error conditions.
var (
	// ErrClientClosed is returned when attempting to use a closed client.
	ErrClientClosed = errors.New("client is closed")
	// ErrNoCredentials is returned when a signed endpoint is called without credentials.
	ErrNoCredentials = errors.New("no credentials configured")
	// ErrSymbolNotFound is returned when exchange metadata lacks the configured symbol.
	ErrSymbolNotFound = errors.New("symbol not found in exchange info")
)

// ExchangeError represents a structured error returned while talking to an exchange.
// Request errors (non-2xx responses) always carry StatusCode, Reason and Body.
type ExchangeError struct {
	// Type categorizes the error for programmatic handling.
	Type ErrorType `json:"type"`
	// StatusCode is the HTTP status code from the response, zero for transport failures.
	StatusCode int `json:"status_code"`
	// Reason is the HTTP reason phrase, e.g. "I'm a teapot".
	Reason string `json:"reason,omitempty"`
	// Code is the exchange-specific error code.
	Code string `json:"code"`
	// Message is the human-readable error description.
	Message string `json:"message"`
	// Body is the raw response body.
	Body string `json:"body,omitempty"`
	// Exchange identifies which exchange returned this error.
	Exchange string `json:"exchange"`
	// Timestamp is when the error occurred.
	Timestamp time.Time `json:"timestamp"`

	err error
}

// Error implements the error interface for ExchangeError.
func (e *ExchangeError) Error() string {
	var s string
	if e.Code != "" {
		s = fmt.Sprintf("[%s] %s (%d/%s): %s",
			e.Exchange, e.Type, e.StatusCode, e.Code, e.Message)
	} else {
		s = fmt.Sprintf("[%s] %s (%d): %s",
			e.Exchange, e.Type, e.StatusCode, e.Message)
	}
	if e.Body != "" {
		s += ", content: " + e.Body
	}
	return s
}

// Unwrap returns the underlying cause, if any.
func (e *ExchangeError) Unwrap() error {
	return e.err
}

// WithCode sets the error code and returns the error for chaining.
func (e *ExchangeError) WithCode(code ErrorCode) *ExchangeError {
	e.Code = string(code)
	return e
}

// WithCause attaches the underlying error and returns the error for chaining.
func (e *ExchangeError) WithCause(err error) *ExchangeError {
	e.err = err
	return e
}

// NewExchangeError creates a new ExchangeError with the specified details.
// The timestamp is automatically set to the current time.
func NewExchangeError(exchange string, errorType ErrorType, statusCode int, message string) *ExchangeError {
	return &ExchangeError{
		Type:       errorType,
		StatusCode: statusCode,
		Message:    message,
		Exchange:   exchange,
		Timestamp:  time.Now(),
	}
}

// NewRequestError creates the error returned for a non-2xx response.
func NewRequestError(exchange string, errorType ErrorType, statusCode int, reason string, body []byte) *ExchangeError {
	e := NewExchangeError(exchange, errorType, statusCode, "request error: "+reason)
	e.Reason = reason
	e.Body = string(body)
	return e
}

// NewTimeoutError wraps a transport deadline failure.
func NewTimeoutError(exchange string, cause error) *ExchangeError {
	return NewExchangeError(exchange, ErrorTypeTimeout, 0, cause.Error()).
		WithCode(ErrCodeTimeout).
		WithCause(cause)
}

// NewNetworkError wraps any other transport failure.
func NewNetworkError(exchange string, cause error) *ExchangeError {
	return NewExchangeError(exchange, ErrorTypeNetwork, 0, cause.Error()).
		WithCode(ErrCodeNetwork).
		WithCause(cause)
}

// NewParseError wraps a decoding failure of a successful response.
func NewParseError(exchange string, statusCode int, what string, cause error) *ExchangeError {
	return NewExchangeError(exchange, ErrorTypeParse, statusCode, fmt.Sprintf("unmarshal %s: %v", what, cause)).
		WithCode(ErrCodeParse).
		WithCause(cause)
}

func asExchangeError(err error) (*ExchangeError, bool) {
	var e *ExchangeError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsNetworkError returns true if the error is a network connectivity issue.
func IsNetworkError(err error) bool {
	e, ok := asExchangeError(err)
	return ok && e.Type == ErrorTypeNetwork
}

// IsTimeoutError returns true if the request exceeded its deadline.
func IsTimeoutError(err error) bool {
	e, ok := asExchangeError(err)
	return ok && e.Type == ErrorTypeTimeout
}

// IsParseError returns true if a successful response could not be decoded.
func IsParseError(err error) bool {
	e, ok := asExchangeError(err)
	return ok && e.Type == ErrorTypeParse
}

// IsRequestError returns true if the exchange answered with a non-2xx status.
func IsRequestError(err error) bool {
	e, ok := asExchangeError(err)
	return ok && e.StatusCode != 0 && (e.StatusCode < 200 || e.StatusCode >= 300)
}

// IsRateLimitError returns true if the error is a rate limit violation.
func IsRateLimitError(err error) bool {
	e, ok := asExchangeError(err)
	return ok && e.Type == ErrorTypeRateLimit
}

// IsAuthenticationError returns true if the error is an authentication failure.
func IsAuthenticationError(err error) bool {
	e, ok := asExchangeError(err)
	return ok && e.Type == ErrorTypeAuthentication
}

// IsTerminalError returns true if the error indicates a condition that will not
// succeed when repeated.
func IsTerminalError(err error) bool {
	e, ok := asExchangeError(err)
	return ok && (e.Type == ErrorTypeInsufficientFunds ||
		e.Type == ErrorTypeInvalidOrder ||
		e.Type == ErrorTypeNotFound)
}
