package services

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrOperatorLoginOff   = errors.New("operator login is disabled")
)

// OperatorAuthService checks the single configured operator account. Login is
// disabled when no password hash is configured.
type OperatorAuthService struct {
	email        string
	passwordHash string
}

func NewOperatorAuthService(email string, passwordHash string) *OperatorAuthService {
	return &OperatorAuthService{
		email:        NormalizeOperatorEmail(email),
		passwordHash: strings.TrimSpace(passwordHash),
	}
}

func (service *OperatorAuthService) Enabled() bool {
	return service != nil && service.passwordHash != ""
}

func (service *OperatorAuthService) Email() string {
	if service == nil {
		return ""
	}
	return service.email
}

func (service *OperatorAuthService) Authenticate(email string, password string) error {
	if !service.Enabled() {
		return ErrOperatorLoginOff
	}
	if service.email != "" && NormalizeOperatorEmail(email) != service.email {
		// Compare anyway so unknown accounts take as long as wrong passwords.
		_ = bcrypt.CompareHashAndPassword([]byte(service.passwordHash), []byte(password))
		return ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(service.passwordHash), []byte(password)) != nil {
		return ErrInvalidCredentials
	}
	return nil
}

func HashOperatorPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func NormalizeOperatorEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
