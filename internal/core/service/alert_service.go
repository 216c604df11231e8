package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/xivapi/common-backend/internal/core/domain"
	"github.com/xivapi/common-backend/internal/core/ports"
)

type alertService struct {
	repo ports.AlertRepository
	log  zerolog.Logger
	now  func() time.Time
}

// NewAlertService returns an AlertService implementation.
func NewAlertService(repo ports.AlertRepository, log zerolog.Logger) ports.AlertService {
	return &alertService{
		repo: repo,
		log:  log,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *alertService) List(ctx context.Context, user *domain.User) ([]*domain.Alert, error) {
	alerts, err := s.repo.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	return alerts, nil
}

// Create adds an alert within the user's quota. The alert expires after the
// user's configured expiry window.
func (s *alertService) Create(ctx context.Context, user *domain.User, in ports.AlertInput) (*domain.Alert, error) {
	count, err := s.repo.CountByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("create alert: %w", err)
	}
	if count >= user.Alerts.Max {
		return nil, fmt.Errorf("create alert: %w (max %d)", domain.ErrAlertLimitReached, user.Alerts.Max)
	}

	now := s.now()
	alert := &domain.Alert{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Name:      strings.TrimSpace(in.Name),
		ItemID:    in.ItemID,
		Expiry:    now.Add(user.Alerts.Expiry),
		CreatedAt: now,
	}
	if err := s.repo.Create(ctx, alert); err != nil {
		return nil, fmt.Errorf("create alert: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Str("alert_id", alert.ID).Int("item_id", alert.ItemID).Msg("alert created")
	return alert, nil
}
