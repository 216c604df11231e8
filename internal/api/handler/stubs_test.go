package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/xivapi/common-backend/internal/api/middleware"
	"github.com/xivapi/common-backend/internal/core/domain"
	"github.com/xivapi/common-backend/internal/core/ports"
)

type stubAuthService struct {
	beginURL    string
	loginResult *ports.LoginResult
	loginErr    error
	gotCallback ports.LoginCallback
	rotated     string
	syncResult  ports.TierSyncResult
	refreshed   int
	patrons     []ports.PatronGroup
}

func (s *stubAuthService) ResolveSession(context.Context, string) (*domain.User, error) {
	return nil, nil
}

func (s *stubAuthService) RequireUser(context.Context, string) (*domain.User, error) {
	return nil, domain.KindNotFound.New("", 0)
}

func (s *stubAuthService) IsOnline(context.Context, string) bool { return false }

func (s *stubAuthService) BeginLogin(context.Context) (string, error) {
	return s.beginURL, nil
}

func (s *stubAuthService) CompleteLogin(_ context.Context, cb ports.LoginCallback) (*ports.LoginResult, error) {
	s.gotCallback = cb
	return s.loginResult, s.loginErr
}

func (s *stubAuthService) Logout() domain.SessionCookie { return domain.LogoutCookie() }

func (s *stubAuthService) UserByAPIKey(context.Context, string) (*domain.User, error) {
	return nil, domain.KindInvalidKey.New("", 0)
}

func (s *stubAuthService) RotateAPIKey(_ context.Context, u *domain.User) (*domain.User, error) {
	u.RotateAPIKey(s.rotated)
	return u, nil
}

func (s *stubAuthService) SyncBenefitTier(_ context.Context, u *domain.User) (ports.TierSyncResult, error) {
	if s.syncResult.Status == ports.TierSyncApplied {
		b, _ := domain.BenefitsFor(s.syncResult.Tier)
		u.ApplyBenefits(s.syncResult.Tier, b)
	}
	return s.syncResult, nil
}

func (s *stubAuthService) RefreshAlertExpiries(context.Context, *domain.User) (int, error) {
	return s.refreshed, nil
}

func (s *stubAuthService) Patrons(context.Context) ([]ports.PatronGroup, error) {
	return s.patrons, nil
}

type stubAlertService struct {
	alerts    []*domain.Alert
	createErr error
	gotInput  ports.AlertInput
}

func (s *stubAlertService) List(context.Context, *domain.User) ([]*domain.Alert, error) {
	return s.alerts, nil
}

func (s *stubAlertService) Create(_ context.Context, u *domain.User, in ports.AlertInput) (*domain.Alert, error) {
	s.gotInput = in
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &domain.Alert{ID: "a1", UserID: u.ID, Name: in.Name, ItemID: in.ItemID}, nil
}

type stubMaintenanceService struct {
	current *domain.Maintenance
	got     ports.MaintenanceInput
}

func (s *stubMaintenanceService) Current(context.Context) (*domain.Maintenance, error) {
	if s.current == nil {
		return &domain.Maintenance{}, nil
	}
	return s.current, nil
}

func (s *stubMaintenanceService) Update(_ context.Context, in ports.MaintenanceInput) (*domain.Maintenance, error) {
	s.got = in
	s.current = &domain.Maintenance{Game: in.Game, Lodestone: in.Lodestone, Companion: in.Companion}
	return s.current, nil
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func newRequest(e *echo.Echo, method, target, body string, user *domain.User) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if user != nil {
		c.Set(middleware.UserKey, user)
	}
	return c, rec
}
