package identity

import "errors"

// Service errors.
var (
	// ErrEmailExists is returned when a registration targets an email that
	// already has an account. Both the pre-check and a unique-index violation
	// from the store collapse into this single error so callers see one
	// outcome regardless of race timing.
	ErrEmailExists = errors.New("email already registered, please sign in instead")

	// ErrUserNotFound is returned by repository lookups for unknown emails.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials is returned on login when either the account does
	// not exist or the password does not match. The two cases are deliberately
	// indistinguishable to callers.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrWeakPassword is the root of all password strength failures. Specific
	// failures wrap it with a human-readable reason.
	ErrWeakPassword = errors.New("weak password")
)
