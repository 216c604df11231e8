package middleware

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/xivapi/common-backend/internal/core/domain"
)

// UserKey is the echo context key holding the authenticated *domain.User.
const UserKey = "user"

// SessionResolver maps a session cookie value to its user.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*domain.User, error)
}

// Session resolves the session cookie, when present, and stores the user in
// the context. Anonymous requests pass through untouched.
func Session(resolver SessionResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(domain.SessionCookieName)
			if err != nil || domain.IsAnonymousToken(cookie.Value) {
				return next(c)
			}

			user, err := resolver.ResolveSession(c.Request().Context(), cookie.Value)
			if err != nil {
				return err
			}
			if user != nil {
				c.Set(UserKey, user)
			}
			return next(c)
		}
	}
}

// RequireUser rejects requests without an authenticated user with a 404.
func RequireUser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if CurrentUser(c) == nil {
				return domain.KindNotFound.New("", 0)
			}
			return next(c)
		}
	}
}

// CurrentUser returns the user stored by Session or APIKey, or nil.
func CurrentUser(c echo.Context) *domain.User {
	u, _ := c.Get(UserKey).(*domain.User)
	return u
}
