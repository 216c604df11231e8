package ports

import (
	"context"

	"github.com/xivapi/common-backend/internal/core/domain"
)

// SSOProvider performs the third-party sign-in handshake.
type SSOProvider interface {
	Name() string
	AuthorizationURL(state string) string
	Exchange(ctx context.Context, code string) (*domain.SSOIdentity, error)
}

// RoleResponse is the answer of the role lookup service. Code is an HTTP
// style status, Tier is zero when the service returned no data.
type RoleResponse struct {
	Code int
	Tier int
}

// RoleLookup resolves the patron tier of an external account.
type RoleLookup interface {
	UserRole(ctx context.Context, externalID string) (RoleResponse, error)
}

// Notifier posts text messages to a chat channel.
type Notifier interface {
	SendMessage(ctx context.Context, channelID, text string) error
}
