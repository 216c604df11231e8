package middleware

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/xivapi/common-backend/internal/core/domain"
)

// APIKeyParam is the query parameter carrying a user's public API key.
const APIKeyParam = "private_key"

// KeyResolver looks a user up by public API key.
type KeyResolver interface {
	UserByAPIKey(ctx context.Context, key string) (*domain.User, error)
}

// APIKey authenticates the request by its private_key query parameter.
func APIKey(resolver KeyResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.QueryParam(APIKeyParam)
			if key == "" {
				return domain.KindInvalidKey.New("", 0)
			}

			user, err := resolver.UserByAPIKey(c.Request().Context(), key)
			if err != nil {
				return err
			}
			c.Set(UserKey, user)
			return next(c)
		}
	}
}
