package ports

import (
	"context"

	"github.com/xivapi/common-backend/internal/core/domain"
)

// LoginCallback carries the query parameters of the SSO redirect.
type LoginCallback struct {
	Code  string
	State string
}

// LoginResult is returned after a successful SSO login.
type LoginResult struct {
	User    *domain.User
	Session *domain.Session
	Cookie  domain.SessionCookie
}

// TierSyncStatus is the outcome of a benefit-tier sync.
type TierSyncStatus string

const (
	TierSyncApplied TierSyncStatus = "applied"
	TierSyncSkipped TierSyncStatus = "skipped"
)

// TierSyncResult reports what a benefit-tier sync did and why.
type TierSyncResult struct {
	Status TierSyncStatus
	Tier   domain.PatronTier
	Reason string
}

// PatronGroup lists the users of one patron tier.
type PatronGroup struct {
	Tier  domain.PatronTier
	Name  string
	Users []*domain.User
}

type AuthService interface {
	ResolveSession(ctx context.Context, token string) (*domain.User, error)
	RequireUser(ctx context.Context, token string) (*domain.User, error)
	IsOnline(ctx context.Context, token string) bool
	BeginLogin(ctx context.Context) (string, error)
	CompleteLogin(ctx context.Context, cb LoginCallback) (*LoginResult, error)
	Logout() domain.SessionCookie
	UserByAPIKey(ctx context.Context, key string) (*domain.User, error)
	RotateAPIKey(ctx context.Context, user *domain.User) (*domain.User, error)

	SyncBenefitTier(ctx context.Context, user *domain.User) (TierSyncResult, error)
	RefreshAlertExpiries(ctx context.Context, user *domain.User) (int, error)
	Patrons(ctx context.Context) ([]PatronGroup, error)
}
