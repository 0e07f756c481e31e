// Package service provides the business logic for admin authentication and
// flashcard management, delegating persistence to a repository interface.
package service

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned by Login when the username or password
// does not match the configured admin account.
var ErrInvalidCredentials = errors.New("invalid username or password")

// bcryptCost is the work factor used by HashPassword.
const bcryptCost = 12

// AuthService checks credentials against the single static admin account.
type AuthService struct {
	username     string
	password     string
	passwordHash []byte
}

// NewAuthService constructs an AuthService. When passwordHash is non-empty
// it must be a bcrypt hash and it takes precedence over password.
func NewAuthService(username, password, passwordHash string) (*AuthService, error) {
	s := &AuthService{username: username, password: password}
	if passwordHash != "" {
		if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
			return nil, fmt.Errorf("invalid admin password hash: %w", err)
		}
		s.passwordHash = []byte(passwordHash)
	}
	return s, nil
}

// Login succeeds when username (surrounding whitespace ignored) and password
// both match exactly. Matching is case-sensitive.
func (s *AuthService) Login(username, password string) error {
	username = strings.TrimSpace(username)
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1

	var passOK bool
	if s.passwordHash != nil {
		passOK = bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)) == nil
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) == 1
	}

	if !userOK || !passOK {
		return ErrInvalidCredentials
	}
	return nil
}

// HashPassword returns a bcrypt hash suitable for ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password must not be empty")
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}
