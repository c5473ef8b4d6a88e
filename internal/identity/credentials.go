package identity

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MinPasswordLength is the minimum accepted password length in characters.
const MinPasswordLength = 8

// MaxPasswordBytes is the bcrypt input limit. Longer passwords are rejected
// up front instead of silently truncated at hash time.
const MaxPasswordBytes = 72

// NormalizeEmail trims surrounding whitespace and lower-cases the address.
// The normalized form is the uniqueness key for accounts and the subject
// claim of issued tokens.
func NormalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// ValidatePassword checks structural password strength: minimum length in
// characters, maximum byte length, at least one digit and at least one
// letter. Checks run in that order and the first failure is reported,
// wrapped in ErrWeakPassword.
func ValidatePassword(raw string) error {
	if utf8.RuneCountInString(raw) < MinPasswordLength {
		return fmt.Errorf("%w: must be at least %d characters long", ErrWeakPassword, MinPasswordLength)
	}
	if len(raw) > MaxPasswordBytes {
		return fmt.Errorf("%w: must be at most %d bytes long", ErrWeakPassword, MaxPasswordBytes)
	}

	var hasDigit, hasLetter bool
	for _, r := range raw {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsLetter(r):
			hasLetter = true
		}
	}

	if !hasDigit {
		return fmt.Errorf("%w: must contain at least one digit", ErrWeakPassword)
	}
	if !hasLetter {
		return fmt.Errorf("%w: must contain at least one letter", ErrWeakPassword)
	}
	return nil
}
