package middleware

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

// UserIDKey is the context key for the authenticated owner's ID
const UserIDKey contextKey = "user_id"

// TokenResolver resolves an API token to its owner
type TokenResolver interface {
	ResolveToken(ctx context.Context, token string) (uuid.UUID, error)
}

// TokenAuthMiddleware provides API token authentication middleware
type TokenAuthMiddleware struct {
	resolver TokenResolver
}

// NewTokenAuthMiddleware creates a new TokenAuthMiddleware
func NewTokenAuthMiddleware(resolver TokenResolver) *TokenAuthMiddleware {
	return &TokenAuthMiddleware{resolver: resolver}
}

// Authenticate returns an Echo middleware that validates API tokens
func (m *TokenAuthMiddleware) Authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return unauthorizedError(c, "Missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				return unauthorizedError(c, "Invalid authorization header format")
			}

			userID, err := m.resolver.ResolveToken(c.Request().Context(), parts[1])
			if err != nil {
				log.Debug().Err(err).Msg("Token resolution failed")
				return unauthorizedError(c, "Invalid API token")
			}

			ctx := context.WithValue(c.Request().Context(), UserIDKey, userID)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// GetUserID extracts the authenticated owner's ID from the context
func GetUserID(c echo.Context) uuid.UUID {
	if id, ok := c.Request().Context().Value(UserIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}
