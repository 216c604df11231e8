package ports

import (
	"context"

	"github.com/xivapi/common-backend/internal/core/domain"
)

// UserRepository defines persistence for user accounts.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByDiscordID(ctx context.Context, discordID string) (*domain.User, error)
	FindByAPIKey(ctx context.Context, key string) (*domain.User, error)
	APIKeyExists(ctx context.Context, key string) (bool, error)
	FindByPatron(ctx context.Context, tier domain.PatronTier) ([]*domain.User, error)
	ListLinked(ctx context.Context) ([]*domain.User, error)
	Save(ctx context.Context, user *domain.User) error
}

// SessionRepository defines persistence for login sessions.
type SessionRepository interface {
	FindByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error)
	UpdateLastActive(ctx context.Context, session *domain.Session) error
}

// LoginStore persists a user together with a new session as a single unit.
type LoginStore interface {
	SaveLogin(ctx context.Context, user *domain.User, session *domain.Session) error
}

// AlertRepository defines persistence for user alerts.
type AlertRepository interface {
	ListByUser(ctx context.Context, userID string) ([]*domain.Alert, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	Create(ctx context.Context, alert *domain.Alert) error
	// ExtendExpiries applies all changes in one write.
	ExtendExpiries(ctx context.Context, changes []domain.AlertExpiry) error
}

// MaintenanceRepository reads and writes the maintenance record.
type MaintenanceRepository interface {
	Get(ctx context.Context) (*domain.Maintenance, error)
	Save(ctx context.Context, m *domain.Maintenance) error
}
