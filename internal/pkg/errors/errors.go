package errors

import "errors"

var (
	// ErrSessionNotFound is returned when an import session id is unknown.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionNotValidated is returned when import is requested before validation.
	ErrSessionNotValidated = errors.New("session not validated")
	// ErrCriticalIssues is returned when a session carries critical validation issues.
	ErrCriticalIssues = errors.New("critical validation errors present")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
)
