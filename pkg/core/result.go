package core

// Result is the outcome of a private call that reached the exchange and got a 2xx answer.
// Exactly one of the success payload or the application failure is set.
type Result[T any] struct {
	value   T
	failure *ApplicationError
}

// Success builds a successful Result carrying v.
func Success[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Fail builds a failed Result carrying the exchange's embedded error.
func Fail[T any](err *ApplicationError) Result[T] {
	return Result[T]{failure: err}
}

// OK reports whether the exchange accepted the request.
func (r Result[T]) OK() bool {
	return r.failure == nil
}

// Value returns the success payload, or the zero value for a failure.
func (r Result[T]) Value() T {
	return r.value
}

// Failure returns the embedded application error, or nil on success.
func (r Result[T]) Failure() *ApplicationError {
	return r.failure
}

// Unwrap collapses the result into Go's value-or-error form for callers that do not
// need to tell application failures apart from other errors.
func (r Result[T]) Unwrap() (T, error) {
	if r.failure != nil {
		var zero T
		return zero, r.failure
	}
	return r.value, nil
}
