package auth

import (
	"errors"
	"fmt"
)

// ErrNetworkUnreachable indicates the login request never reached the server.
// The hosted backend cold-starts, so this gets a friendlier message than a
// rejection.
var ErrNetworkUnreachable = errors.New("unable to reach the server; it might be waking up, try again in a few seconds")

// ErrNotInitialized indicates a component was used before its session store
// was wired in.
var ErrNotInitialized = errors.New("session store is not initialized")

// CredentialsError is a login rejected by the server. Message carries the
// server's own text verbatim so the UI shows exactly what the backend said.
type CredentialsError struct {
	Message string
}

func (e *CredentialsError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "Unable to login"
}

// ServerError is a login failure that was neither a rejection nor a
// transport problem.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("login failed with status %d", e.StatusCode)
}
