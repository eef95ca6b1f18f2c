package users

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/monirportfolio/portfolio-server/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials covers both an unknown user name and a wrong password.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Service encapsulates the login check
type Service struct {
	repo UserRepository
}

func NewService(r UserRepository) *Service {
	return &Service{repo: r}
}

// Authenticate looks the user up by name and checks the password.
// Lookup faults are returned wrapped and are never ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, userName, password string) (*models.User, error) {
	if userName == "" {
		return nil, ErrInvalidCredentials
	}
	u, err := s.repo.GetByUserName(ctx, userName)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if u == nil || !passwordMatches(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// passwordMatches accepts bcrypt hashes and, for records not yet migrated,
// plaintext secrets compared in constant time.
func passwordMatches(stored, supplied string) bool {
	if stored == "" {
		return false
	}
	if isBcryptHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(supplied)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) == 1
}

func isBcryptHash(s string) bool {
	return len(s) == 60 && (strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$"))
}
