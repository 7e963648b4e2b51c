package core

import "errors"

// ErrorCode represents a stable, machine-readable error identifier.
type ErrorCode string

// Error code constants used by ExchangeError.Code.
const (
	ErrCodeNetwork          ErrorCode = "NETWORK_ERROR"
	ErrCodeTimeout          ErrorCode = "TIMEOUT"
	ErrCodeRateLimit        ErrorCode = "RATE_LIMIT"
	ErrCodeAuth             ErrorCode = "AUTH_ERROR"
	ErrCodeBadRequest       ErrorCode = "BAD_REQUEST"
	ErrCodeNotFound         ErrorCode = "NOT_FOUND"
	ErrCodeServerError      ErrorCode = "SERVER_ERROR"
	ErrCodeUnexpectedStatus ErrorCode = "UNEXPECTED_STATUS"
)

// IsErrorCode checks if the error matches the specified error code.
func IsErrorCode(err error, code ErrorCode) bool {
	var exErr *ExchangeError
	if errors.As(err, &exErr) {
		return ErrorCode(exErr.Code) == code
	}
	return false
}
