package ports

import (
	"context"

	"github.com/xivapi/common-backend/internal/core/domain"
)

// AlertInput carries the data needed to create an alert.
type AlertInput struct {
	Name   string
	ItemID int
}

type AlertService interface {
	List(ctx context.Context, user *domain.User) ([]*domain.Alert, error)
	Create(ctx context.Context, user *domain.User, in AlertInput) (*domain.Alert, error)
}
