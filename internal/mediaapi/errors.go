package mediaapi

import (
	"errors"
	"fmt"
)

// ErrNetworkUnreachable indicates the request never reached the server. The
// hosted API sleeps when idle, so callers show a friendlier retry hint for
// this case than for an actual rejection.
var ErrNetworkUnreachable = errors.New("media API unreachable")

// APIError is a non-2xx response from the media API. Message carries the
// server's own error text when the body provided one.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("media API returned status %d", e.StatusCode)
}
