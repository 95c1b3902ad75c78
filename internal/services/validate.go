package services

import "regexp"

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const mobileNumberLength = 11

// validateContactInput checks the required contact fields in a fixed
// order and returns the message for the first violation. The order and
// messages are part of the API contract.
func validateContactInput(input ContactInput) error {
	if input.FirstName == "" {
		return NewValidationError("Enter First Name")
	}
	if input.LastName == "" {
		return NewValidationError("Enter Last Name")
	}
	if input.Address == "" {
		return NewValidationError("Enter Address")
	}
	if input.EmailAdd == "" || !emailPattern.MatchString(input.EmailAdd) {
		return NewValidationError("Enter a valid email address")
	}
	if len(input.Number) != mobileNumberLength {
		return NewValidationError("Enter a valid mobile number")
	}
	return nil
}
