package domain

import (
	"fmt"
	"slices"
	"time"
)

const (
	SSODiscord = "discord"

	PermissionAdmin = "adm"

	defaultAvatar       = "/i/logo/avatar.png"
	discordAvatarFormat = "https://cdn.discordapp.com/avatars/%s/%s.png?size=256"
)

// DiscordAccount holds the Discord identity and OAuth tokens of a user.
type DiscordAccount struct {
	ID           string    `json:"id,omitempty"`
	Avatar       string    `json:"avatar,omitempty"`
	TokenAccess  string    `json:"-"`
	TokenExpires time.Time `json:"-"`
	TokenRefresh string    `json:"-"`
}

// AlertQuota is the alert benefit state granted by the patron tier.
type AlertQuota struct {
	Max               int           `json:"max"`
	Expiry            time.Duration `json:"expiry"`
	UpdateAllowed     bool          `json:"update_allowed"`
	NotificationCount int           `json:"notification_count"`
}

// SSOIdentity is the set of claims an SSO provider returns after a successful
// authorization-code exchange.
type SSOIdentity struct {
	Provider     string
	ID           string
	Username     string
	Email        string
	Avatar       string
	TokenAccess  string
	TokenExpires time.Time
	TokenRefresh string
}

// User models an account. ID, CreatedAt and the owner of sessions never change
// after creation; mutate through the methods below.
type User struct {
	ID              string         `json:"id"`
	CreatedAt       time.Time      `json:"created_at"`
	Banned          bool           `json:"banned"`
	Notes           string         `json:"-"`
	SSO             string         `json:"sso"`
	Username        string         `json:"username"`
	Email           string         `json:"email,omitempty"`
	Discord         DiscordAccount `json:"discord"`
	Patron          PatronTier     `json:"patron"`
	Permissions     []string       `json:"permissions"`
	APIPublicKey    string         `json:"api_public_key,omitempty"`
	APIAnalyticsKey string         `json:"api_analytics_key,omitempty"`
	APIRateLimit    int            `json:"api_rate_limit"`
	Alerts          AlertQuota     `json:"alerts"`
}

// NewUser returns a fresh account with default alert benefits.
func NewUser(id, apiKey string, now time.Time) *User {
	return &User{
		ID:           id,
		CreatedAt:    now.UTC(),
		APIPublicKey: apiKey,
		Patron:       TierNormal,
		Permissions:  []string{},
		Alerts: AlertQuota{
			Max:    DefaultMaxAlerts,
			Expiry: DefaultAlertExpiry,
		},
	}
}

// ApplyIdentity overwrites the SSO-derived fields. The most recent login wins.
func (u *User) ApplyIdentity(id SSOIdentity) {
	u.SSO = id.Provider
	u.Username = id.Username
	u.Email = id.Email

	if id.Provider == SSODiscord {
		u.Discord = DiscordAccount{
			ID:           id.ID,
			Avatar:       id.Avatar,
			TokenAccess:  id.TokenAccess,
			TokenExpires: id.TokenExpires,
			TokenRefresh: id.TokenRefresh,
		}
	}
}

// ApplyBenefits records the patron tier and the alert quota it grants.
func (u *User) ApplyBenefits(tier PatronTier, b AlertBenefits) {
	u.Patron = tier
	u.Alerts.Max = b.MaxAlerts
	u.Alerts.Expiry = b.Expiry
	u.Alerts.UpdateAllowed = b.UpdateAllowed
}

// RotateAPIKey replaces the public API key.
func (u *User) RotateAPIKey(key string) {
	u.APIPublicKey = key
}

// HasLinkedAccount reports whether the user has an external id usable for
// role lookups.
func (u *User) HasLinkedAccount() bool {
	return u.Discord.ID != ""
}

func (u *User) HasPermission(p string) bool {
	return slices.Contains(u.Permissions, p)
}

// AvatarURL resolves the avatar shown for the user.
func (u *User) AvatarURL() string {
	if u.SSO == SSODiscord && u.Discord.ID != "" && u.Discord.Avatar != "" {
		return fmt.Sprintf(discordAvatarFormat, u.Discord.ID, u.Discord.Avatar)
	}
	return defaultAvatar
}
