package session

import "errors"

var (
	// ErrNoCredential means the credential slot is empty: logged-out state.
	ErrNoCredential = errors.New("no stored credential")

	// ErrCredentialExpired means the stored credential's expiry has passed.
	ErrCredentialExpired = errors.New("credential expired")

	// ErrCredentialInvalid means the credential could not be decoded or its
	// claims are unusable.
	ErrCredentialInvalid = errors.New("credential invalid")
)
