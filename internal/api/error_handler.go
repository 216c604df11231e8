package api

import (
	"errors"
	"fmt"
	"net/http"
	"path"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/xivapi/common-backend/internal/core/domain"
	"github.com/xivapi/common-backend/internal/core/ports"
)

// NewHTTPErrorHandler returns the single error boundary of the API:
//   - show-errors mode hands the error to echo's default handler untouched.
//   - Requests for static assets get a plain-text 404.
//   - Everything else becomes an error report, answered as JSON with the
//     resolved status. Notification happens inside the reporter.
func NewHTTPErrorHandler(e *echo.Echo, reporter ports.ErrorReporter, showErrors bool, log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		if showErrors {
			e.DefaultHTTPErrorHandler(err, c)
			return
		}

		req := c.Request()
		if isAssetPath(req.URL.Path) {
			_ = c.String(http.StatusNotFound, "File not found: "+req.URL.Path)
			return
		}

		code, message := resolveError(err)
		report, outcome := reporter.Report(req.Context(), ports.ErrorContext{
			Err:     err,
			Code:    code,
			Method:  req.Method,
			Path:    req.URL.Path,
			URL:     c.Scheme() + "://" + req.Host + req.URL.RequestURI(),
			Action:  c.Path(),
			Message: message,
		})

		log.Debug().
			Err(err).
			Int("status", code).
			Str("outcome", string(outcome)).
			Str("hash", report.Hash).
			Msg("error reported")

		h := c.Response().Header()
		h.Set(echo.HeaderAccessControlAllowOrigin, "*")
		h.Set(echo.HeaderAccessControlAllowHeaders, "*")
		_ = c.JSON(code, report)
	}
}

// resolveError maps an error to its status code and, for framework errors,
// the client-facing message.
func resolveError(err error) (int, string) {
	var de *domain.Error
	if errors.As(err, &de) {
		return de.Code, ""
	}

	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound, ""
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, ""
	case errors.Is(err, domain.ErrAlertLimitReached):
		return http.StatusUnprocessableEntity, ""
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, ""
	}
	return http.StatusInternalServerError, ""
}

// isAssetPath reports whether the path ends in a file extension longer than
// two characters, e.g. .png or .json.
func isAssetPath(p string) bool {
	ext := path.Ext(p)
	return len(ext) > 3
}
