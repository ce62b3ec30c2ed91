package session

import "errors"

var (
	// ErrNotFound means the session id is unknown (or expired).
	ErrNotFound = errors.New("session not found")

	// ErrBusy means the action slot already has a request in flight.
	// The same slot never carries two concurrent requests.
	ErrBusy = errors.New("action already in progress")

	// ErrMissingInput guards an action whose required input is absent;
	// the slot is left untouched and no outbound request is issued.
	ErrMissingInput = errors.New("required input missing")
)
