package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnavailable is matched by every *NetworkError: the request got no
	// HTTP response at all.
	ErrUnavailable = errors.New("server unavailable")
	// ErrUnauthorized is matched by 401 and 403 responses.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrLocalDataNotAvailable means the server was unreachable and no
	// cached copy could stand in for it.
	ErrLocalDataNotAvailable = errors.New("local data unavailable")
	// ErrMalformedResponse means a 2xx body could not be decoded.
	ErrMalformedResponse = errors.New("malformed response")
)

// NetworkError reports a request that never produced a response: DNS or
// dial failure, reset, timeout.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("no response received: %s %s: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Is(target error) bool { return target == ErrUnavailable }

// ResponseError reports a non-2xx response (or a 2xx envelope with
// success=false). Message comes from the envelope when the server sent one.
type ResponseError struct {
	Method  string
	Path    string
	Status  int
	Message string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("%s %s: %d: %s", e.Method, e.Path, e.Status, e.Message)
}

func (e *ResponseError) Is(target error) bool {
	return target == ErrUnauthorized &&
		(e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden)
}

// IsNetworkUnreachable reports whether err means the server could not be
// reached, as opposed to the server answering with an error. Only the former
// justifies serving cached data.
func IsNetworkUnreachable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var re *ResponseError
	if errors.As(err, &re) {
		return re.Status
	}
	return 0
}

func genericMessage(status int) string {
	return fmt.Sprintf("request failed with status %d", status)
}
