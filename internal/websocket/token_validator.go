package websocket

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrInvalidToken is returned when token validation fails
var ErrInvalidToken = errors.New("invalid token")

// UserLookup resolves an API token to its owner
type UserLookup interface {
	ResolveToken(ctx context.Context, token string) (uuid.UUID, error)
}

// TokenValidator validates API tokens for WebSocket connections. Browsers
// cannot set headers on WebSocket upgrades, so the token arrives as a query
// parameter and is resolved through the same lookup the HTTP middleware uses.
type TokenValidator struct {
	userLookup UserLookup
}

// NewTokenValidator creates a new TokenValidator
func NewTokenValidator(userLookup UserLookup) *TokenValidator {
	return &TokenValidator{userLookup: userLookup}
}

// ValidateToken validates a token and returns the associated owner ID
func (v *TokenValidator) ValidateToken(token string) (uuid.UUID, error) {
	if token == "" {
		return uuid.Nil, ErrInvalidToken
	}
	userID, err := v.userLookup.ResolveToken(context.Background(), token)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return userID, nil
}
