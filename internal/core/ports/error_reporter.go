package ports

import (
	"context"

	"github.com/xivapi/common-backend/internal/core/domain"
)

// ErrorContext describes an unhandled failure at the HTTP boundary.
type ErrorContext struct {
	Err    error
	Code   int
	Method string
	Path   string
	URL    string
	Action string

	// Message overrides the text taken from Err when set.
	Message string
}

// ErrorReporter turns unhandled failures into client reports and
// deduplicated chat notifications.
type ErrorReporter interface {
	Report(ctx context.Context, ec ErrorContext) (*domain.ErrorReport, domain.ReportOutcome)
}
