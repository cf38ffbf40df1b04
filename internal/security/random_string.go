package security

import (
	"crypto/rand"
	"errors"
	"fmt"
	"unicode/utf8"
)

const (
	SecretKeyAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"
	SecretKeyLength   = 48
)

var (
	errNegativeLength   = errors.New("length must be non-negative")
	errEmptyAlphabet    = errors.New("alphabet must not be empty")
	errAlphabetTooLarge = errors.New("alphabet must not exceed 256 characters")
	errNonASCIIAlphabet = errors.New("alphabet must be ASCII")
)

// RandomString draws length characters from alphabet using crypto/rand.
// Bytes past the largest multiple of the alphabet size are rejected so every
// character is equally likely.
func RandomString(length int, alphabet string) (string, error) {
	switch {
	case length < 0:
		return "", errNegativeLength
	case length == 0:
		return "", nil
	case alphabet == "":
		return "", errEmptyAlphabet
	case len(alphabet) > 256:
		return "", errAlphabetTooLarge
	}
	for index := 0; index < len(alphabet); index++ {
		if alphabet[index] >= utf8.RuneSelf {
			return "", errNonASCIIAlphabet
		}
	}

	size := len(alphabet)
	limit := 256 - 256%size
	value := make([]byte, 0, length)
	buffer := make([]byte, length+length/2+8)
	for len(value) < length {
		if _, err := rand.Read(buffer); err != nil {
			return "", err
		}
		for _, b := range buffer {
			if int(b) >= limit {
				continue
			}
			value = append(value, alphabet[int(b)%size])
			if len(value) == length {
				break
			}
		}
	}
	return string(value), nil
}

// NewSecretKey returns a value suitable for SECRET_KEY.
func NewSecretKey() (string, error) {
	secret, err := RandomString(SecretKeyLength, SecretKeyAlphabet)
	if err != nil {
		return "", fmt.Errorf("generate secret key: %w", err)
	}
	return secret, nil
}
