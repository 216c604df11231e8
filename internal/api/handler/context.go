package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xivapi/common-backend/internal/api/middleware"
	"github.com/xivapi/common-backend/internal/core/domain"
)

// ctxUser returns the user placed in the context by the session or API key
// middleware. Routes are expected to be guarded; the check here is a fast
// fail for handlers mounted without a guard.
func ctxUser(c echo.Context) (*domain.User, error) {
	user := middleware.CurrentUser(c)
	if user == nil {
		return nil, domain.KindNotFound.New("", 0)
	}
	return user, nil
}

// bindAndValidate decodes the request into req and runs struct validation.
// Both failures surface as 400.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
