package chain

import "regexp"

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,20}$`)

// ValidateUsername enforces the contract's username rules client-side so an
// invalid name never costs a transaction: 3-20 chars, alphanumeric plus
// underscore.
func ValidateUsername(username string) error {
	if !usernamePattern.MatchString(username) {
		return ErrInvalidUsername
	}
	return nil
}
