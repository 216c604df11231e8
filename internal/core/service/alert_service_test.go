package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/xivapi/common-backend/internal/core/domain"
	"github.com/xivapi/common-backend/internal/core/ports"
)

func TestAlertService_Create_Success(t *testing.T) {
	repo := &stubAlertRepo{}
	svc := NewAlertService(repo, zerolog.Nop()).(*alertService)
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	user := domain.NewUser("u1", "k", now)
	alert, err := svc.Create(context.Background(), user, ports.AlertInput{Name: "  Potion  ", ItemID: 4})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if alert.Name != "Potion" || alert.ItemID != 4 || alert.UserID != "u1" {
		t.Fatalf("unexpected alert: %+v", alert)
	}
	if !alert.Expiry.Equal(now.Add(domain.DefaultAlertExpiry)) {
		t.Fatalf("expected expiry after default window, got %v", alert.Expiry)
	}
	if len(repo.alerts) != 1 {
		t.Fatalf("expected alert to be stored")
	}
}

func TestAlertService_Create_QuotaReached(t *testing.T) {
	repo := &stubAlertRepo{}
	svc := NewAlertService(repo, zerolog.Nop())
	user := domain.NewUser("u1", "k", time.Now())
	user.Alerts.Max = 2

	for i := 0; i < 2; i++ {
		if _, err := svc.Create(context.Background(), user, ports.AlertInput{Name: "a", ItemID: i}); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}
	if _, err := svc.Create(context.Background(), user, ports.AlertInput{Name: "a", ItemID: 3}); !errors.Is(err, domain.ErrAlertLimitReached) {
		t.Fatalf("expected ErrAlertLimitReached, got %v", err)
	}
}

func TestAlertService_List(t *testing.T) {
	repo := &stubAlertRepo{alerts: []*domain.Alert{
		{ID: "a1", UserID: "u1"},
		{ID: "a2", UserID: "u2"},
	}}
	svc := NewAlertService(repo, zerolog.Nop())

	alerts, err := svc.List(context.Background(), domain.NewUser("u1", "k", time.Now()))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(alerts) != 1 || alerts[0].ID != "a1" {
		t.Fatalf("unexpected alerts: %+v", alerts)
	}
}

func TestMaintenanceService_CurrentDefaultsToZero(t *testing.T) {
	svc := NewMaintenanceService(&stubMaintenanceRepo{}, zerolog.Nop())

	m, err := svc.Current(context.Background())
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if m.Any() {
		t.Fatalf("expected no maintenance, got %+v", m)
	}
}

func TestMaintenanceService_Update(t *testing.T) {
	repo := &stubMaintenanceRepo{}
	svc := NewMaintenanceService(repo, zerolog.Nop())

	m, err := svc.Update(context.Background(), ports.MaintenanceInput{Game: 1})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !m.IsGame() || m.IsLodestone() || m.UpdatedAt.IsZero() {
		t.Fatalf("unexpected maintenance: %+v", m)
	}
	current, _ := svc.Current(context.Background())
	if !current.IsGame() {
		t.Fatalf("expected persisted flags, got %+v", current)
	}
}

func TestMaintenanceService_UpdateError(t *testing.T) {
	svc := NewMaintenanceService(&stubMaintenanceRepo{saveErr: errors.New("db down")}, zerolog.Nop())

	if _, err := svc.Update(context.Background(), ports.MaintenanceInput{}); err == nil {
		t.Fatalf("expected error")
	}
}
