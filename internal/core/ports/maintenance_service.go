package ports

import (
	"context"

	"github.com/xivapi/common-backend/internal/core/domain"
)

// MaintenanceInput carries the new maintenance toggles.
type MaintenanceInput struct {
	Game      int
	Lodestone int
	Companion int
}

type MaintenanceService interface {
	Current(ctx context.Context) (*domain.Maintenance, error)
	Update(ctx context.Context, in MaintenanceInput) (*domain.Maintenance, error)
}
