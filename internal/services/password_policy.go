package services

import (
	"errors"
	"unicode"
)

const MinOperatorPasswordLength = 8

var ErrWeakPassword = errors.New("weak password")

// ValidateOperatorPassword requires at least MinOperatorPasswordLength runes
// mixing letters with digits or symbols. Bengali letters count as letters.
func ValidateOperatorPassword(password string) error {
	if len([]rune(password)) < MinOperatorPasswordLength {
		return ErrWeakPassword
	}

	hasLetter := false
	hasOther := false
	for _, char := range password {
		switch {
		case unicode.IsSpace(char):
		case unicode.IsLetter(char), unicode.Is(unicode.Mn, char), unicode.Is(unicode.Mc, char):
			hasLetter = true
		default:
			hasOther = true
		}
	}

	if hasLetter && hasOther {
		return nil
	}
	return ErrWeakPassword
}
