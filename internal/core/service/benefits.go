package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/xivapi/common-backend/internal/api/metrics"
	"github.com/xivapi/common-backend/internal/core/domain"
	"github.com/xivapi/common-backend/internal/core/ports"
)

func skipped(reason string) ports.TierSyncResult {
	metrics.TierSyncTotal.WithLabelValues(string(ports.TierSyncSkipped)).Inc()
	return ports.TierSyncResult{Status: ports.TierSyncSkipped, Reason: reason}
}

// SyncBenefitTier refreshes the user's patron tier from the role lookup and
// applies the matching alert benefits. Failures of the lookup are reported
// as a skipped result; an unknown tier is an error.
func (s *authService) SyncBenefitTier(ctx context.Context, user *domain.User) (ports.TierSyncResult, error) {
	if !user.HasLinkedAccount() {
		return skipped("no linked account"), nil
	}

	resp, err := s.roles.UserRole(ctx, user.Discord.ID)
	if err != nil {
		return skipped(fmt.Sprintf("role lookup failed: %v", err)), nil
	}
	if resp.Code != http.StatusOK {
		return skipped(fmt.Sprintf("role lookup returned %d", resp.Code)), nil
	}

	tier := domain.PatronTier(resp.Tier)
	benefits, err := domain.BenefitsFor(tier)
	if err != nil {
		metrics.TierSyncTotal.WithLabelValues("error").Inc()
		return ports.TierSyncResult{}, fmt.Errorf("sync benefit tier for %s: %w", user.ID, err)
	}

	user.ApplyBenefits(tier, benefits)
	if err := s.users.Save(ctx, user); err != nil {
		metrics.TierSyncTotal.WithLabelValues("error").Inc()
		return ports.TierSyncResult{}, fmt.Errorf("sync benefit tier: save: %w", err)
	}

	metrics.TierSyncTotal.WithLabelValues(string(ports.TierSyncApplied)).Inc()
	return ports.TierSyncResult{Status: ports.TierSyncApplied, Tier: tier}, nil
}

// RefreshAlertExpiries extends every alert that expired more than an hour
// ago by the user's expiry window. All changes are written at once.
func (s *authService) RefreshAlertExpiries(ctx context.Context, user *domain.User) (int, error) {
	alerts, err := s.alerts.ListByUser(ctx, user.ID)
	if err != nil {
		return 0, fmt.Errorf("refresh alerts: %w", err)
	}

	now := s.now()
	expiry := now.Add(user.Alerts.Expiry)

	var changes []domain.AlertExpiry
	for _, a := range alerts {
		if !a.NeedsRefresh(now) {
			continue
		}
		a.Expiry = expiry
		changes = append(changes, domain.AlertExpiry{AlertID: a.ID, Expiry: expiry})
	}
	if len(changes) == 0 {
		return 0, nil
	}

	if err := s.alerts.ExtendExpiries(ctx, changes); err != nil {
		return 0, fmt.Errorf("refresh alerts: %w", err)
	}

	metrics.AlertsRefreshedTotal.Add(float64(len(changes)))
	return len(changes), nil
}

// Patrons lists patrons grouped by tier, highest tier first.
func (s *authService) Patrons(ctx context.Context) ([]ports.PatronGroup, error) {
	groups := make([]ports.PatronGroup, 0, len(domain.PatronDisplayOrder))
	for _, tier := range domain.PatronDisplayOrder {
		users, err := s.users.FindByPatron(ctx, tier)
		if err != nil {
			return nil, fmt.Errorf("patrons: tier %d: %w", int(tier), err)
		}
		groups = append(groups, ports.PatronGroup{Tier: tier, Name: tier.String(), Users: users})
	}
	return groups, nil
}
