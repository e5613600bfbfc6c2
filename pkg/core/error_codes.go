package core

// ErrorCode represents a stable, machine-readable error identifier.
type ErrorCode string

const (
	ErrCodeNetwork     ErrorCode = "NETWORK_ERROR"
	ErrCodeTimeout     ErrorCode = "TIMEOUT"
	ErrCodeParse       ErrorCode = "PARSE_ERROR"
	ErrCodeUnsupported ErrorCode = "UNSUPPORTED_METHOD"
)
