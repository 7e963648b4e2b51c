package core

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorType represents the category of an exchange error.
type ErrorType int

// Error type constants categorize transport failures for caller-side handling.
const (
	// ErrorTypeUnknown indicates an unclassified error.
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeNetwork indicates a network connectivity issue.
	ErrorTypeNetwork
	// ErrorTypeTimeout indicates the request exceeded its deadline.
	ErrorTypeTimeout
	// ErrorTypeRateLimit indicates the exchange answered with 429.
	ErrorTypeRateLimit
	// ErrorTypeAuthentication indicates invalid or expired credentials.
	ErrorTypeAuthentication
	// ErrorTypeBadRequest indicates invalid request parameters.
	ErrorTypeBadRequest
	// ErrorTypeNotFound indicates the requested resource does not exist.
	ErrorTypeNotFound
	// ErrorTypeServerError indicates a server-side error.
	ErrorTypeServerError
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
	}[t]
}

// Sentinel errors for common error conditions.
var (
	// ErrClientClosed is returned when attempting to use a closed client.
	ErrClientClosed = errors.New("client is closed")
	// ErrNoCredentials is returned when a private endpoint is called without credentials.
	ErrNoCredentials = errors.New("no credentials configured")
	// ErrQuotaExceeded matches every *QuotaExceededError via errors.Is.
	ErrQuotaExceeded = errors.New("request quota exceeded")
)

// ExchangeError is a transport-level failure: the exchange answered with a non-2xx status
// or the request never completed.
type ExchangeError struct {
	// Type categorizes the error for programmatic handling.
	Type ErrorType `json:"type"`
	// StatusCode is the HTTP status code from the response, zero when none was received.
	StatusCode int `json:"status_code"`
	// Code is a stable machine-readable identifier, see ErrorCode.
	Code string `json:"code"`
	// Message is the human-readable error description.
	Message string `json:"message"`
	// Body holds the raw response body, if any.
	Body []byte `json:"body,omitempty"`
	// Exchange identifies which exchange returned this error.
	Exchange string `json:"exchange"`
	// Timestamp is when the error occurred.
	Timestamp time.Time `json:"timestamp"`

	cause error
}

// Error implements the error interface for ExchangeError.
func (e *ExchangeError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("[%s] %s (%d/%s): %s",
			e.Exchange, e.Type, e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] %s (%d): %s",
		e.Exchange, e.Type, e.StatusCode, e.Message)
}

// Unwrap returns the underlying network error, if any.
func (e *ExchangeError) Unwrap() error {
	return e.cause
}

// WithCode sets the error code and returns the error for chaining.
func (e *ExchangeError) WithCode(code ErrorCode) *ExchangeError {
	e.Code = string(code)
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

// NewStatusError classifies a non-2xx response into an ExchangeError.
func NewStatusError(exchange string, statusCode int, status string, body []byte) *ExchangeError {
	errType, code := classifyStatus(statusCode)
	e := NewExchangeError(exchange, errType, statusCode, fmt.Sprintf("HTTP error: %s", status))
	e.Body = body
	return e.WithCode(code)
}

// NewNetworkError wraps a failure that prevented any response from arriving.
func NewNetworkError(exchange string, timeout bool, cause error) *ExchangeError {
	errType, code := ErrorTypeNetwork, ErrCodeNetwork
	if timeout {
		errType, code = ErrorTypeTimeout, ErrCodeTimeout
	}
	e := NewExchangeError(exchange, errType, 0, cause.Error())
	e.cause = cause
	return e.WithCode(code)
}

func classifyStatus(statusCode int) (ErrorType, ErrorCode) {
	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return ErrorTypeAuthentication, ErrCodeAuth
	case statusCode == http.StatusNotFound:
		return ErrorTypeNotFound, ErrCodeNotFound
	case statusCode == http.StatusTooManyRequests:
		return ErrorTypeRateLimit, ErrCodeRateLimit
	case statusCode == http.StatusRequestTimeout || statusCode == http.StatusGatewayTimeout:
		return ErrorTypeTimeout, ErrCodeTimeout
	case statusCode >= http.StatusInternalServerError:
		return ErrorTypeServerError, ErrCodeServerError
	case statusCode >= http.StatusBadRequest:
		return ErrorTypeBadRequest, ErrCodeBadRequest
	default:
		return ErrorTypeUnknown, ErrCodeUnexpectedStatus
	}
}

// QuotaExceededError is returned by the request gate when admitting another call would
// exceed the rolling request budget. The gate state is left untouched.
type QuotaExceededError struct {
	// Limit is the configured number of requests per window.
	Limit int
	// Window is the configured rolling interval.
	Window time.Duration
	// TimeToWait is how long until the oldest recorded request leaves the window.
	TimeToWait time.Duration
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("sent more than %d requests in last %s, wait for %s",
		e.Limit, e.Window, e.TimeToWait)
}

// Is reports whether target is ErrQuotaExceeded.
func (e *QuotaExceededError) Is(target error) bool {
	return target == ErrQuotaExceeded
}

// Seconds returns TimeToWait as fractional seconds.
func (e *QuotaExceededError) Seconds() float64 {
	return e.TimeToWait.Seconds()
}

// ApplicationError is an error the exchange reported inside a 2xx response body.
// It travels in the failure variant of a Result rather than as a returned error.
type ApplicationError struct {
	// Operation is the endpoint that produced the error.
	Operation Operation `json:"operation"`
	// Message is the embedded error, flattened to text.
	Message string `json:"message"`
	// Raw is the undecoded response body.
	Raw []byte `json:"raw,omitempty"`
}

func (e *ApplicationError) Error() string {
	return fmt.Sprintf("%s rejected: %s", e.Operation, e.Message)
}

// IsNetworkError returns true if the error is a network connectivity issue.
func IsNetworkError(err error) bool {
	return hasType(err, ErrorTypeNetwork)
}

// IsTimeoutError returns true if the error is a timeout.
func IsTimeoutError(err error) bool {
	return hasType(err, ErrorTypeTimeout)
}

// IsRateLimitError returns true if the exchange itself answered 429.
// Local quota rejections are reported by IsQuotaExceeded instead.
func IsRateLimitError(err error) bool {
	return hasType(err, ErrorTypeRateLimit)
}

// IsAuthenticationError returns true if the error is an authentication failure.
// Authentication errors require credential validation and are not retryable.
func IsAuthenticationError(err error) bool {
	return hasType(err, ErrorTypeAuthentication)
}

// IsQuotaExceeded reports whether err came from the local request gate and returns it.
func IsQuotaExceeded(err error) (*QuotaExceededError, bool) {
	var qe *QuotaExceededError
	if errors.As(err, &qe) {
		return qe, true
	}
	return nil, false
}

func hasType(err error, t ErrorType) bool {
	var e *ExchangeError
	if errors.As(err, &e) {
		return e.Type == t
	}
	return false
}
