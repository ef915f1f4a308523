package service

import (
	"context"
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mgaray/finanzas/finanzas-backend/internal/domain"
)

const tokenPrefix = "fz_"

// AuthService resolves API tokens to their owners. Tokens are opaque secrets
// issued out of band; only their SHA-256 hash is stored.
type AuthService struct {
	userRepo domain.UserRepository
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo domain.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

// ResolveToken validates a token and returns the owning user's ID
func (s *AuthService) ResolveToken(ctx context.Context, token string) (uuid.UUID, error) {
	if !strings.HasPrefix(token, tokenPrefix) {
		return uuid.Nil, domain.ErrUnauthorized
	}
	user, err := s.userRepo.GetByTokenHash(hashToken(token))
	if err != nil {
		if err == domain.ErrUserNotFound {
			return uuid.Nil, domain.ErrUnauthorized
		}
		return uuid.Nil, err
	}
	return user.ID, nil
}

// hashToken creates a SHA-256 hash of the token
func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", hash)
}
