package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/xivapi/common-backend/internal/core/domain"
	"github.com/xivapi/common-backend/internal/core/ports"
)

type stubUsers struct {
	users []*domain.User
	err   error
}

func (s *stubUsers) ListLinked(context.Context) ([]*domain.User, error) {
	return s.users, s.err
}

type stubSyncer struct {
	results map[string]ports.TierSyncResult
	errs    map[string]error
	calls   []string
}

func (s *stubSyncer) SyncBenefitTier(_ context.Context, u *domain.User) (ports.TierSyncResult, error) {
	s.calls = append(s.calls, u.ID)
	if err := s.errs[u.ID]; err != nil {
		return ports.TierSyncResult{}, err
	}
	return s.results[u.ID], nil
}

func users(ids ...string) []*domain.User {
	out := make([]*domain.User, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.NewUser(id, "k-"+id, time.Now()))
	}
	return out
}

func TestRunTierSync_CountsOutcomes(t *testing.T) {
	syncer := &stubSyncer{
		results: map[string]ports.TierSyncResult{
			"a": {Status: ports.TierSyncApplied},
			"b": {Status: ports.TierSyncSkipped},
		},
		errs: map[string]error{"c": domain.ErrUnknownPatronTier},
	}
	s := NewScheduler("", &stubUsers{users: users("a", "b", "c")}, syncer, zerolog.Nop())

	summary, err := s.RunTierSync(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Applied != 1 || summary.Skipped != 1 || summary.Failed != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if len(syncer.calls) != 3 {
		t.Fatalf("expected every user to be synced, got %v", syncer.calls)
	}
}

func TestRunTierSync_ListError(t *testing.T) {
	s := NewScheduler("", &stubUsers{err: errors.New("db down")}, &stubSyncer{}, zerolog.Nop())

	if _, err := s.RunTierSync(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
}

func TestRunTierSync_StopsOnCancel(t *testing.T) {
	syncer := &stubSyncer{}
	s := NewScheduler("", &stubUsers{users: users("a", "b")}, syncer, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.RunTierSync(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(syncer.calls) != 0 {
		t.Fatalf("expected no calls, got %v", syncer.calls)
	}
}

func TestScheduler_StartRejectsBadSchedule(t *testing.T) {
	s := NewScheduler("not a schedule", &stubUsers{}, &stubSyncer{}, zerolog.Nop())
	if err := s.Start(); err == nil {
		t.Fatalf("expected invalid schedule error")
	}
}

func TestScheduler_StartStop(t *testing.T) {
	s := NewScheduler("0 0 */6 * * *", &stubUsers{}, &stubSyncer{}, zerolog.Nop())
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	select {
	case <-s.Stop().Done():
	case <-time.After(time.Second):
		t.Fatalf("scheduler did not stop")
	}
}
