package service

import "errors"

var (
	// ErrWrongCredentials is returned by Login when the email is unknown or
	// the password does not match. The two cases are deliberately
	// indistinguishable to the caller.
	ErrWrongCredentials = errors.New("wrong email or password")

	// ErrInvalidToken is returned when a credential fails signature or claim
	// verification.
	ErrInvalidToken = errors.New("invalid token")

	// ErrValidation is wrapped around field-level messages when a create or
	// update payload violates the inventory constraints.
	ErrValidation = errors.New("validation failed")
)
