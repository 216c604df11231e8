package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/xivapi/common-backend/internal/api/metrics"
	"github.com/xivapi/common-backend/internal/core/domain"
	"github.com/xivapi/common-backend/internal/core/ports"
)

const defaultStateTTL = 10 * time.Minute

// AuthConfig holds the secrets used by the auth manager.
type AuthConfig struct {
	// StateSecret signs the OAuth state parameter.
	StateSecret string
	StateTTL    time.Duration
	// TokenKey keys the session token digest.
	TokenKey string
}

// AuthDeps groups the collaborators of the auth manager.
type AuthDeps struct {
	Users    ports.UserRepository
	Sessions ports.SessionRepository
	Logins   ports.LoginStore
	Alerts   ports.AlertRepository
	SSO      ports.SSOProvider
	Roles    ports.RoleLookup
}

type authService struct {
	users    ports.UserRepository
	sessions ports.SessionRepository
	logins   ports.LoginStore
	alerts   ports.AlertRepository
	sso      ports.SSOProvider
	roles    ports.RoleLookup

	stateSecret []byte
	stateTTL    time.Duration
	digester    tokenDigester
	log         zerolog.Logger

	now       func() time.Time
	newAPIKey func() (string, error)
	newToken  func() (string, error)
}

// NewAuthService returns the session and account manager.
func NewAuthService(deps AuthDeps, cfg AuthConfig, log zerolog.Logger) ports.AuthService {
	return newAuthService(deps, cfg, log)
}

func newAuthService(deps AuthDeps, cfg AuthConfig, log zerolog.Logger) *authService {
	ttl := cfg.StateTTL
	if ttl <= 0 {
		ttl = defaultStateTTL
	}
	return &authService{
		users:       deps.Users,
		sessions:    deps.Sessions,
		logins:      deps.Logins,
		alerts:      deps.Alerts,
		sso:         deps.SSO,
		roles:       deps.Roles,
		stateSecret: []byte(cfg.StateSecret),
		stateTTL:    ttl,
		digester:    newTokenDigester([]byte(cfg.TokenKey)),
		log:         log,
		now:         func() time.Time { return time.Now().UTC() },
		newAPIKey:   generateAPIKey,
		newToken:    generateSessionToken,
	}
}

// ResolveSession maps a cookie token to its user. A missing, sentinel or
// unknown token resolves to nil without error.
func (s *authService) ResolveSession(ctx context.Context, token string) (*domain.User, error) {
	if domain.IsAnonymousToken(token) {
		return nil, nil
	}

	session, err := s.sessions.FindByTokenHash(ctx, s.digester.digest(token))
	if errors.Is(err, domain.ErrSessionNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve session: %w", err)
	}

	user, err := s.users.FindByID(ctx, session.UserID)
	if errors.Is(err, domain.ErrUserNotFound) {
		s.log.Warn().Str("session_id", session.ID).Str("user_id", session.UserID).Msg("session owner missing")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve session: %w", err)
	}

	if session.Touch(s.now()) {
		if err := s.sessions.UpdateLastActive(ctx, session); err != nil {
			return nil, fmt.Errorf("resolve session: touch: %w", err)
		}
		metrics.SessionsTouchedTotal.Inc()
	}

	return user, nil
}

// RequireUser is ResolveSession for routes that need a signed-in user.
func (s *authService) RequireUser(ctx context.Context, token string) (*domain.User, error) {
	user, err := s.ResolveSession(ctx, token)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.KindNotFound.New("", 0)
	}
	return user, nil
}

func (s *authService) IsOnline(ctx context.Context, token string) bool {
	user, err := s.ResolveSession(ctx, token)
	if err != nil {
		s.log.Warn().Err(err).Msg("online check failed")
		return false
	}
	return user != nil
}

// BeginLogin returns the provider URL the visitor is redirected to.
func (s *authService) BeginLogin(_ context.Context) (string, error) {
	state, err := s.signState()
	if err != nil {
		return "", fmt.Errorf("begin login: %w", err)
	}
	return s.sso.AuthorizationURL(state), nil
}

// CompleteLogin finishes the SSO handshake, upserts the user and opens a new
// session. Every call creates a session; earlier sessions stay valid.
func (s *authService) CompleteLogin(ctx context.Context, cb ports.LoginCallback) (*ports.LoginResult, error) {
	provider := s.sso.Name()

	if err := s.verifyState(cb.State); err != nil {
		metrics.LoginsTotal.WithLabelValues(provider, "failed").Inc()
		return nil, domain.KindCSRFMismatch.Wrap(err)
	}

	identity, err := s.sso.Exchange(ctx, cb.Code)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(provider, "failed").Inc()
		return nil, fmt.Errorf("complete login: exchange: %w", err)
	}
	if identity.ID == "" {
		metrics.LoginsTotal.WithLabelValues(provider, "failed").Inc()
		return nil, fmt.Errorf("complete login: provider %s returned no account id", provider)
	}

	now := s.now()
	result := "returning_user"

	user, err := s.users.FindByDiscordID(ctx, identity.ID)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		key, keyErr := s.uniqueAPIKey(ctx)
		if keyErr != nil {
			return nil, fmt.Errorf("complete login: %w", keyErr)
		}
		user = domain.NewUser(uuid.NewString(), key, now)
		result = "new_user"
	case err != nil:
		return nil, fmt.Errorf("complete login: find user: %w", err)
	}

	user.ApplyIdentity(*identity)

	token, err := s.newToken()
	if err != nil {
		return nil, fmt.Errorf("complete login: %w", err)
	}
	session := domain.NewSession(uuid.NewString(), s.digester.digest(token), user.ID, now)

	if err := s.logins.SaveLogin(ctx, user, session); err != nil {
		metrics.LoginsTotal.WithLabelValues(provider, "failed").Inc()
		return nil, fmt.Errorf("complete login: save: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues(provider, result).Inc()
	s.log.Info().
		Str("user_id", user.ID).
		Str("provider", provider).
		Str("result", result).
		Msg("login completed")

	return &ports.LoginResult{
		User:    user,
		Session: session,
		Cookie:  domain.LoginCookie(token),
	}, nil
}

// Logout expires the session cookie. The stored session is left in place.
func (s *authService) Logout() domain.SessionCookie {
	return domain.LogoutCookie()
}

func (s *authService) UserByAPIKey(ctx context.Context, key string) (*domain.User, error) {
	if key == "" {
		return nil, domain.KindInvalidKey.New("", 0)
	}
	user, err := s.users.FindByAPIKey(ctx, key)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.KindInvalidKey.New("", 0)
	}
	if err != nil {
		return nil, fmt.Errorf("user by api key: %w", err)
	}
	return user, nil
}

// RotateAPIKey issues a new unique public key for the user.
func (s *authService) RotateAPIKey(ctx context.Context, user *domain.User) (*domain.User, error) {
	key, err := s.uniqueAPIKey(ctx)
	if err != nil {
		return nil, fmt.Errorf("rotate api key: %w", err)
	}
	user.RotateAPIKey(key)
	if err := s.users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("rotate api key: %w", err)
	}
	return user, nil
}

// uniqueAPIKey retries generation while the key is already taken.
func (s *authService) uniqueAPIKey(ctx context.Context) (string, error) {
	for i := 0; i < maxAPIKeyAttempts; i++ {
		key, err := s.newAPIKey()
		if err != nil {
			return "", err
		}
		taken, err := s.users.APIKeyExists(ctx, key)
		if err != nil {
			return "", fmt.Errorf("api key lookup: %w", err)
		}
		if !taken {
			return key, nil
		}
		s.log.Warn().Msg("api key collision, regenerating")
	}
	return "", domain.ErrAPIKeyExhausted
}

type stateClaims struct {
	Provider string `json:"prv"`
	jwt.RegisteredClaims
}

func (s *authService) signState() (string, error) {
	now := s.now()
	claims := stateClaims{
		Provider: s.sso.Name(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.stateTTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.stateSecret)
	if err != nil {
		return "", fmt.Errorf("sign state: %w", err)
	}
	return signed, nil
}

func (s *authService) verifyState(state string) error {
	if state == "" {
		return errors.New("missing state")
	}
	claims := &stateClaims{}
	tkn, err := jwt.ParseWithClaims(state, claims, func(token *jwt.Token) (interface{}, error) {
		return s.stateSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return err
	}
	if !tkn.Valid {
		return errors.New("invalid state")
	}
	if claims.Provider != s.sso.Name() {
		return fmt.Errorf("state issued for provider %q", claims.Provider)
	}
	return nil
}
