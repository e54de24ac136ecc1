package adapter

import "errors"

var (
	// ErrUnauthorized marks a missing or expired credential (HTTP 401).
	// Callers treat it as a forced-logout signal.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden marks a credential whose role does not permit the
	// operation (HTTP 403).
	ErrForbidden = errors.New("forbidden")

	// ErrValidation marks a request rejected by server-side field
	// constraints (HTTP 400/422). Surfaced verbatim to the initiating form.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks an operation on a record that no longer exists
	// (HTTP 404).
	ErrNotFound = errors.New("not found")

	// ErrServer marks a 5xx response. Generic failure, not retried.
	ErrServer = errors.New("server error")

	// ErrNetwork marks a transport-level failure (connection refused,
	// timeout). Eligible for manual retry by re-invoking the operation.
	ErrNetwork = errors.New("network error")
)
