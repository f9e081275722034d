package session

import (
	"regexp"

	"github.com/pixelpulse/pixelpulse-core/internal/model"
)

// Input shapes checked locally, before any backend call.
var (
	emailPattern    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,20}$`)
)

const minPasswordLength = 6

func validateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return &model.ValidationError{Field: "email", Reason: "must be a well-formed email address"}
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return &model.ValidationError{Field: "password", Reason: "must be at least 6 characters"}
	}
	return nil
}

func validateUsername(username string) error {
	if !usernamePattern.MatchString(username) {
		return &model.ValidationError{Field: "username", Reason: "must be 3-20 characters of letters, digits, or underscore"}
	}
	return nil
}
