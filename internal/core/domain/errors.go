package domain

import "errors"

var (
	// ErrSessionCorrupt marks persisted session data that failed structural
	// parsing. Callers recover by deleting the record and treating the
	// client as logged out; it is never surfaced to a user.
	ErrSessionCorrupt = errors.New("session data corrupt")

	// ErrSessionNotFound is returned by stores when no record exists for an id.
	ErrSessionNotFound = errors.New("session not found")

	// ErrLoginSuperseded is returned when a login response resolves after a
	// newer attempt was issued for the same client; the stale result is
	// discarded instead of overwriting the fresher session.
	ErrLoginSuperseded = errors.New("login superseded by a newer attempt")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrFactoryNotFound    = errors.New("factory not found")
	ErrFactoryExists      = errors.New("factory code already in use")
	ErrForbidden          = errors.New("access forbidden")
)
