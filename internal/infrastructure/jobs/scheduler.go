package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/xivapi/common-backend/internal/core/domain"
	"github.com/xivapi/common-backend/internal/core/ports"
)

const syncRunTimeout = 30 * time.Minute

// LinkedUsers lists accounts that have an external identity to sync.
type LinkedUsers interface {
	ListLinked(ctx context.Context) ([]*domain.User, error)
}

// TierSyncer refreshes the patron tier of one user.
type TierSyncer interface {
	SyncBenefitTier(ctx context.Context, user *domain.User) (ports.TierSyncResult, error)
}

// SyncSummary counts the outcome of one tier sync run.
type SyncSummary struct {
	Applied int
	Skipped int
	Failed  int
}

type Scheduler struct {
	cron     *cron.Cron
	schedule string
	users    LinkedUsers
	syncer   TierSyncer
	log      zerolog.Logger
}

// NewScheduler expects a six-field cron expression (with seconds).
func NewScheduler(schedule string, users LinkedUsers, syncer TierSyncer, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		schedule: schedule,
		users:    users,
		syncer:   syncer,
		log:      log,
	}
}

// Start registers the jobs and starts the cron loop. An empty schedule
// disables the tier sync.
func (s *Scheduler) Start() error {
	if s.schedule == "" {
		s.log.Info().Msg("tier sync disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(s.schedule, s.syncTiers); err != nil {
		return fmt.Errorf("schedule tier sync %q: %w", s.schedule, err)
	}

	s.cron.Start()
	return nil
}

// Stop halts the scheduler. The returned context is done once running jobs
// have finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) syncTiers() {
	ctx, cancel := context.WithTimeout(context.Background(), syncRunTimeout)
	defer cancel()

	summary, err := s.RunTierSync(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("tier sync failed")
		return
	}
	s.log.Info().
		Int("applied", summary.Applied).
		Int("skipped", summary.Skipped).
		Int("failed", summary.Failed).
		Msg("tier sync finished")
}

// RunTierSync syncs every linked user once. A failure for one user is logged
// and the run continues.
func (s *Scheduler) RunTierSync(ctx context.Context) (SyncSummary, error) {
	var summary SyncSummary

	users, err := s.users.ListLinked(ctx)
	if err != nil {
		return summary, fmt.Errorf("list linked users: %w", err)
	}

	for _, u := range users {
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}
		res, err := s.syncer.SyncBenefitTier(ctx, u)
		switch {
		case err != nil:
			summary.Failed++
			s.log.Warn().Err(err).Str("user_id", u.ID).Msg("tier sync for user failed")
		case res.Status == ports.TierSyncApplied:
			summary.Applied++
		default:
			summary.Skipped++
		}
	}
	return summary, nil
}
