package services

import "errors"

var (
	// ErrUnauthorized covers missing, malformed and expired tokens as
	// well as valid tokens carrying no identity claim.
	ErrUnauthorized = errors.New("token invalid")

	// ErrInvalidCredentials is returned for an unknown username and a
	// wrong password alike, so login responses never leak whether a
	// username exists.
	ErrInvalidCredentials = errors.New("Invalid username or password")

	ErrContactNotFound = errors.New("Contact not found!")
	ErrUserNotFound    = errors.New("User not found!")
)

// ValidationError carries the field-specific message reported to the
// caller on the first violated input rule.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

// IsValidation reports whether err is a field validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
