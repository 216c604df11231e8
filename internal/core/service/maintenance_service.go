package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/xivapi/common-backend/internal/core/domain"
	"github.com/xivapi/common-backend/internal/core/ports"
)

type MaintenanceService struct {
	repo   ports.MaintenanceRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewMaintenanceService(repo ports.MaintenanceRepository, logger zerolog.Logger) *MaintenanceService {
	return &MaintenanceService{
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Current returns the maintenance flags. A missing record means nothing is
// under maintenance.
func (s *MaintenanceService) Current(ctx context.Context) (*domain.Maintenance, error) {
	m, err := s.repo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("maintenance: %w", err)
	}
	if m == nil {
		return &domain.Maintenance{}, nil
	}
	return m, nil
}

func (s *MaintenanceService) Update(ctx context.Context, in ports.MaintenanceInput) (*domain.Maintenance, error) {
	m := &domain.Maintenance{
		Game:      in.Game,
		Lodestone: in.Lodestone,
		Companion: in.Companion,
		UpdatedAt: s.now(),
	}
	if err := s.repo.Save(ctx, m); err != nil {
		return nil, fmt.Errorf("maintenance: save: %w", err)
	}

	s.logger.Info().
		Bool("game", m.IsGame()).
		Bool("lodestone", m.IsLodestone()).
		Bool("companion", m.IsCompanion()).
		Msg("maintenance flags updated")
	return m, nil
}
