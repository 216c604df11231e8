package domain

import (
	"errors"
	"testing"
	"time"
)

func TestBenefitsFor_KnownTiers(t *testing.T) {
	for _, tier := range []PatronTier{TierNormal, TierAdventurer, TierTank, TierHealer, TierDPS, TierBenefit} {
		b, err := BenefitsFor(tier)
		if err != nil {
			t.Fatalf("tier %d: unexpected error: %v", tier, err)
		}
		if b.MaxAlerts <= 0 || b.Expiry <= 0 {
			t.Fatalf("tier %d: expected positive benefits, got %+v", tier, b)
		}
	}

	b, _ := BenefitsFor(TierTank)
	if b.MaxAlerts != 20 || b.Expiry != 14*24*time.Hour || !b.UpdateAllowed {
		t.Fatalf("unexpected tank benefits: %+v", b)
	}
}

func TestBenefitsFor_UnknownTier(t *testing.T) {
	for _, tier := range []PatronTier{5, 7, -1, 10} {
		if _, err := BenefitsFor(tier); !errors.Is(err, ErrUnknownPatronTier) {
			t.Fatalf("tier %d: expected ErrUnknownPatronTier, got %v", tier, err)
		}
	}
}

func TestUser_ApplyIdentity_Discord(t *testing.T) {
	u := NewUser("u1", "key", time.Now())
	expires := time.Now().Add(time.Hour)
	u.ApplyIdentity(SSOIdentity{
		Provider:     SSODiscord,
		ID:           "d123",
		Username:     "Vek",
		Email:        "a@b.com",
		Avatar:       "av1",
		TokenAccess:  "access",
		TokenExpires: expires,
		TokenRefresh: "refresh",
	})

	if u.Username != "Vek" || u.Email != "a@b.com" || u.SSO != SSODiscord {
		t.Fatalf("identity not applied: %+v", u)
	}
	if u.Discord.ID != "d123" || u.Discord.TokenRefresh != "refresh" {
		t.Fatalf("discord account not applied: %+v", u.Discord)
	}
	if got := u.AvatarURL(); got != "https://cdn.discordapp.com/avatars/d123/av1.png?size=256" {
		t.Fatalf("unexpected avatar url: %s", got)
	}
	if u.ID != "u1" || u.APIPublicKey != "key" {
		t.Fatalf("immutable fields changed: %+v", u)
	}
}

func TestUser_ApplyIdentity_OtherProviderKeepsDiscord(t *testing.T) {
	u := NewUser("u1", "key", time.Now())
	u.Discord.ID = "d1"
	u.ApplyIdentity(SSOIdentity{Provider: "other", ID: "x9", Username: "n"})

	if u.Discord.ID != "d1" {
		t.Fatalf("expected discord id untouched, got %s", u.Discord.ID)
	}
	if u.AvatarURL() != defaultAvatar {
		t.Fatalf("expected default avatar, got %s", u.AvatarURL())
	}
}

func TestNewUser_Defaults(t *testing.T) {
	u := NewUser("u1", "key", time.Now())
	if u.Alerts.Max != DefaultMaxAlerts || u.Alerts.Expiry != DefaultAlertExpiry || u.Alerts.UpdateAllowed {
		t.Fatalf("unexpected default quota: %+v", u.Alerts)
	}
	if u.Patron != TierNormal {
		t.Fatalf("expected normal tier, got %v", u.Patron)
	}
	if u.HasPermission(PermissionAdmin) {
		t.Fatalf("new user must not be admin")
	}
}

func TestSession_Touch(t *testing.T) {
	now := time.Now()
	s := NewSession("s1", "hash", "u1", now.Add(-30*time.Minute))
	if s.Touch(now) {
		t.Fatalf("expected no touch within idle window")
	}

	s = NewSession("s1", "hash", "u1", now.Add(-2*time.Hour))
	if !s.Touch(now) {
		t.Fatalf("expected touch after idle window")
	}
	if !s.LastActive.Equal(now.UTC()) {
		t.Fatalf("expected last active %v, got %v", now.UTC(), s.LastActive)
	}
}

func TestIsAnonymousToken(t *testing.T) {
	if !IsAnonymousToken("") || !IsAnonymousToken("x") {
		t.Fatalf("empty and x must be anonymous")
	}
	if IsAnonymousToken("abc") {
		t.Fatalf("abc must not be anonymous")
	}
}

func TestAlert_NeedsRefresh(t *testing.T) {
	now := time.Now()
	cases := []struct {
		expiry time.Time
		want   bool
	}{
		{now.Add(time.Hour), false},
		{now.Add(-30 * time.Minute), false},
		{now.Add(-time.Hour), true},
		{now.Add(-48 * time.Hour), true},
	}
	for _, tc := range cases {
		a := Alert{Expiry: tc.expiry}
		if got := a.NeedsRefresh(now); got != tc.want {
			t.Fatalf("expiry %v: expected %v, got %v", tc.expiry, tc.want, got)
		}
	}
}

func TestKind_NewDefaultsAndOverrides(t *testing.T) {
	e := KindInvalidKey.New("", 0)
	if e.Code != 401 || e.Message != KindInvalidKey.Message {
		t.Fatalf("expected defaults, got %d %q", e.Code, e.Message)
	}
	if e.File == "" || e.Line == 0 {
		t.Fatalf("expected caller location to be recorded")
	}

	e = KindCSRFMismatch.New("bad state", 418)
	if e.Code != 418 || e.Message != "bad state" {
		t.Fatalf("expected overrides, got %d %q", e.Code, e.Message)
	}

	wrapped := errors.Join(errors.New("ctx"), KindGenericJSONFailure.New("", 0))
	if !IsKind(wrapped, KindGenericJSONFailure) {
		t.Fatalf("expected IsKind to find the wrapped error")
	}
	if IsKind(wrapped, KindNotFound) {
		t.Fatalf("did not expect NotFound kind")
	}
	if !errors.Is(wrapped, KindGenericJSONFailure.New("other", 0)) {
		t.Fatalf("expected errors.Is to match on kind")
	}
}

func TestMaintenance_Flags(t *testing.T) {
	m := Maintenance{Lodestone: 1}
	if m.IsGame() || !m.IsLodestone() || m.IsCompanion() || !m.Any() {
		t.Fatalf("unexpected flags: %+v", m)
	}
	if (Maintenance{}).Any() {
		t.Fatalf("zero value must not be under maintenance")
	}
}
