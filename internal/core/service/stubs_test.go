package service

import (
	"context"
	"errors"
	"slices"

	"github.com/xivapi/common-backend/internal/core/domain"
	"github.com/xivapi/common-backend/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users    map[string]*domain.User
	saves    int
	saveErr  error
	takenKey map[string]bool
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User), takenKey: make(map[string]bool)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.Permissions = slices.Clone(u.Permissions)
	return &clone
}

func (r *stubUserRepo) put(u *domain.User) {
	r.users[u.ID] = cloneUser(u)
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByDiscordID(_ context.Context, discordID string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Discord.ID == discordID {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByAPIKey(_ context.Context, key string) (*domain.User, error) {
	for _, u := range r.users {
		if u.APIPublicKey == key {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) APIKeyExists(_ context.Context, key string) (bool, error) {
	if r.takenKey[key] {
		return true, nil
	}
	for _, u := range r.users {
		if u.APIPublicKey == key {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) FindByPatron(_ context.Context, tier domain.PatronTier) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range r.users {
		if u.Patron == tier {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (r *stubUserRepo) ListLinked(_ context.Context) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range r.users {
		if u.HasLinkedAccount() {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (r *stubUserRepo) Save(_ context.Context, u *domain.User) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saves++
	r.put(u)
	return nil
}

type stubSessionRepo struct {
	byHash  map[string]*domain.Session
	touches int
}

func newStubSessionRepo() *stubSessionRepo {
	return &stubSessionRepo{byHash: make(map[string]*domain.Session)}
}

func (r *stubSessionRepo) FindByTokenHash(_ context.Context, hash string) (*domain.Session, error) {
	if s, ok := r.byHash[hash]; ok {
		clone := *s
		return &clone, nil
	}
	return nil, domain.ErrSessionNotFound
}

func (r *stubSessionRepo) UpdateLastActive(_ context.Context, s *domain.Session) error {
	r.touches++
	clone := *s
	r.byHash[s.TokenHash] = &clone
	return nil
}

// stubLoginStore writes into the user and session stubs in one call.
type stubLoginStore struct {
	users    *stubUserRepo
	sessions *stubSessionRepo
	calls    int
	err      error
}

func (s *stubLoginStore) SaveLogin(_ context.Context, u *domain.User, sess *domain.Session) error {
	if s.err != nil {
		return s.err
	}
	s.calls++
	s.users.put(u)
	clone := *sess
	s.sessions.byHash[sess.TokenHash] = &clone
	return nil
}

type stubAlertRepo struct {
	alerts     []*domain.Alert
	extendCall int
	extended   []domain.AlertExpiry
	createErr  error
}

func (r *stubAlertRepo) ListByUser(_ context.Context, userID string) ([]*domain.Alert, error) {
	var out []*domain.Alert
	for _, a := range r.alerts {
		if a.UserID == userID {
			clone := *a
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubAlertRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	alerts, _ := r.ListByUser(ctx, userID)
	return len(alerts), nil
}

func (r *stubAlertRepo) Create(_ context.Context, a *domain.Alert) error {
	if r.createErr != nil {
		return r.createErr
	}
	clone := *a
	r.alerts = append(r.alerts, &clone)
	return nil
}

func (r *stubAlertRepo) ExtendExpiries(_ context.Context, changes []domain.AlertExpiry) error {
	r.extendCall++
	r.extended = append(r.extended, changes...)
	return nil
}

type stubMaintenanceRepo struct {
	current *domain.Maintenance
	saveErr error
}

func (r *stubMaintenanceRepo) Get(_ context.Context) (*domain.Maintenance, error) {
	return r.current, nil
}

func (r *stubMaintenanceRepo) Save(_ context.Context, m *domain.Maintenance) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	clone := *m
	r.current = &clone
	return nil
}

// ---------------------------------------------------------------------------
// Collaborators
// ---------------------------------------------------------------------------

type stubSSO struct {
	identity  *domain.SSOIdentity
	err       error
	lastState string
}

func (s *stubSSO) Name() string { return domain.SSODiscord }

func (s *stubSSO) AuthorizationURL(state string) string {
	s.lastState = state
	return "https://sso.example/authorize?state=" + state
}

func (s *stubSSO) Exchange(_ context.Context, code string) (*domain.SSOIdentity, error) {
	if s.err != nil {
		return nil, s.err
	}
	if code == "" {
		return nil, errors.New("missing code")
	}
	id := *s.identity
	return &id, nil
}

type stubRoles struct {
	resp  ports.RoleResponse
	err   error
	calls []string
}

func (r *stubRoles) UserRole(_ context.Context, externalID string) (ports.RoleResponse, error) {
	r.calls = append(r.calls, externalID)
	return r.resp, r.err
}

type sentMessage struct {
	channel string
	text    string
}

type stubNotifier struct {
	sent []sentMessage
	err  error
}

func (n *stubNotifier) SendMessage(_ context.Context, channelID, text string) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, sentMessage{channel: channelID, text: text})
	return nil
}

type stubDeduper struct {
	seen map[string]bool
	err  error
}

func newStubDeduper() *stubDeduper {
	return &stubDeduper{seen: make(map[string]bool)}
}

func (d *stubDeduper) FirstSeen(_ context.Context, hash string) (bool, error) {
	if d.err != nil {
		return false, d.err
	}
	if d.seen[hash] {
		return false, nil
	}
	d.seen[hash] = true
	return true, nil
}
