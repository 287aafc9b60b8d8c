package model

import "errors"

// ErrRoomNotFound maps to 404 at the transport boundary.
var ErrRoomNotFound = errors.New("Room not found")

// ValidationError rejects malformed input before any state is touched.
// Field names the offending request field for the client.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// AuthorizationError covers host-only actions attempted by somebody else,
// including requesters from the wrong room. Surfaced as a generic 400 so the
// response does not leak membership distinctions.
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string { return e.Message }

// StateError covers actions attempted from the wrong room status. Same wire
// shape as AuthorizationError, kept separate for logging clarity.
type StateError struct {
	Message string
}

func (e *StateError) Error() string { return e.Message }
