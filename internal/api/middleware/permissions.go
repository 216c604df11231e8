package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/xivapi/common-backend/internal/core/domain"
)

// RequirePermission allows the request only when the current user holds every
// listed permission. It must run after Session or APIKey.
func RequirePermission(perms ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return domain.KindNotFound.New("", 0)
			}
			for _, p := range perms {
				if !user.HasPermission(p) {
					return domain.ErrForbidden
				}
			}
			return next(c)
		}
	}
}
