package discord

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/xivapi/common-backend/internal/core/domain"
)

const (
	defaultAPIBase = "https://discord.com/api"
	authURL        = "https://discord.com/oauth2/authorize"
	tokenURL       = "https://discord.com/api/oauth2/token"
)

var defaultScopes = []string{"identify", "email"}

// SSOConfig holds the OAuth2 application credentials.
type SSOConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	// APIBase overrides the Discord API root, mainly for tests.
	APIBase  string
	AuthURL  string
	TokenURL string
}

// SSO signs users in with Discord using the authorization-code flow.
type SSO struct {
	oauth   *oauth2.Config
	apiBase string
}

func NewSSO(cfg SSOConfig) *SSO {
	endpoint := oauth2.Endpoint{
		AuthURL:   orDefault(cfg.AuthURL, authURL),
		TokenURL:  orDefault(cfg.TokenURL, tokenURL),
		AuthStyle: oauth2.AuthStyleInParams,
	}
	return &SSO{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       defaultScopes,
			Endpoint:     endpoint,
		},
		apiBase: strings.TrimRight(orDefault(cfg.APIBase, defaultAPIBase), "/"),
	}
}

func (s *SSO) Name() string { return domain.SSODiscord }

func (s *SSO) AuthorizationURL(state string) string {
	return s.oauth.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "none"))
}

type discordUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar"`
}

// Exchange trades the callback code for tokens and loads the Discord profile.
func (s *SSO) Exchange(ctx context.Context, code string) (*domain.SSOIdentity, error) {
	tok, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("discord token exchange: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.apiBase+"/users/@me", nil)
	if err != nil {
		return nil, fmt.Errorf("build profile request: %w", err)
	}

	resp, err := s.oauth.Client(ctx, tok).Do(req)
	if err != nil {
		return nil, fmt.Errorf("discord profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("discord profile: unexpected status %d", resp.StatusCode)
	}

	var u discordUser
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return nil, fmt.Errorf("decode discord profile: %w", err)
	}
	if u.ID == "" {
		return nil, fmt.Errorf("discord profile: missing id")
	}

	return &domain.SSOIdentity{
		Provider:     domain.SSODiscord,
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		Avatar:       u.Avatar,
		TokenAccess:  tok.AccessToken,
		TokenExpires: tok.Expiry.UTC().Truncate(time.Second),
		TokenRefresh: tok.RefreshToken,
	}, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
