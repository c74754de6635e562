package api

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrEmptyURI       = errors.New("empty request uri")
	ErrPaginationLoop = errors.New("pagination loop")
)

// APIError is a non-success HTTP status from the API.
type APIError struct {
	Status  int
	URL     string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("vimeo api %s: status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("vimeo api %s: status %d: %s", e.URL, e.Status, e.Message)
}

// TransportError means the request never produced a response.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("vimeo request %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError is a success response whose body could not be decoded.
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode vimeo response %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsContained reports whether err ends a fetch without invalidating the
// records collected before it.
func IsContained(err error) bool {
	var apiErr *APIError
	var decodeErr *DecodeError
	return errors.As(err, &apiErr) || errors.As(err, &decodeErr) || errors.Is(err, ErrPaginationLoop)
}

// ErrorKind labels err for logs and metrics.
func ErrorKind(err error) string {
	var apiErr *APIError
	var decodeErr *DecodeError
	var transportErr *TransportError

	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	case errors.As(err, &apiErr):
		return "api"
	case errors.As(err, &decodeErr):
		return "decode"
	case errors.Is(err, ErrPaginationLoop):
		return "loop"
	case errors.As(err, &transportErr):
		return "transport"
	}
	return "other"
}
