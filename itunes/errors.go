package itunes

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrNotFound indicates a lookup matched no app.
var ErrNotFound = errors.New("app not found")

// ErrEmptyQuery indicates a search with neither a term nor a filter.
var ErrEmptyQuery = errors.New("query needs a term or a genre filter")

// RequestError indicates a transport failure or a non-success HTTP
// status. It is never retried by the client.
type RequestError struct {
	Status int
	Err    error
}

func (e *RequestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("request failed: %v", e.Err)
	}
	return fmt.Sprintf("request failed: http status %d", e.Status)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// ParseError indicates a response body that is not in the expected
// shape. It is counted the same way as a failed request.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse failed: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ErrorLabel maps an error to a stable category used as a metric label.
func ErrorLabel(err error) string {
	if err == nil {
		return "none"
	}

	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return "parse_failed"
	}

	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		switch {
		case reqErr.Status == http.StatusTooManyRequests:
			return "rate_limited"
		case reqErr.Status != 0:
			return "http_error"
		}

		if errors.Is(reqErr.Err, context.DeadlineExceeded) {
			return "timeout"
		}
		var netErr net.Error
		if errors.As(reqErr.Err, &netErr) && netErr.Timeout() {
			return "timeout"
		}
		// Anything else that failed before an HTTP status is a
		// connectivity problem.
		return "connection"
	}

	return "other"
}
