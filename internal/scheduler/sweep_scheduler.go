package scheduler

import (
	"context"
	"time"

	"github.com/ikkim/directorio-backend/internal/app/repository"
	"github.com/ikkim/directorio-backend/internal/app/service"
	"github.com/ikkim/directorio-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// SweepScheduler drops abandoned wizard drafts and idle admin workspaces.
type SweepScheduler struct {
	cron             *cron.Cron
	schedule         string
	drafts           repository.DraftStore
	workspaceService service.WorkspaceService
	draftTTL         time.Duration
	workspaceIdleTTL time.Duration
	now              func() time.Time
}

func NewSweepScheduler(
	schedule string,
	drafts repository.DraftStore,
	workspaceService service.WorkspaceService,
	draftTTL, workspaceIdleTTL time.Duration,
) *SweepScheduler {
	return &SweepScheduler{
		cron:             cron.New(),
		schedule:         schedule,
		drafts:           drafts,
		workspaceService: workspaceService,
		draftTTL:         draftTTL,
		workspaceIdleTTL: workspaceIdleTTL,
		now:              time.Now,
	}
}

// Start registers the sweep job. The schedule accepts standard cron
// expressions and descriptors such as "@every 5m".
func (s *SweepScheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		s.RunOnce(context.Background())
	})
	if err != nil {
		logger.Error("Failed to add cron job for sweeping", err, map[string]interface{}{
			"schedule": s.schedule,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Sweep scheduler started", map[string]interface{}{
		"schedule": s.schedule,
	})
	return nil
}

// RunOnce performs one sweep. Draft store failures are logged and retried on
// the next tick.
func (s *SweepScheduler) RunOnce(ctx context.Context) (drafts, workspaces int) {
	now := s.now()

	drafts, err := s.drafts.Sweep(ctx, now.Add(-s.draftTTL))
	if err != nil {
		logger.Error("Failed to sweep wizard drafts", err)
	}
	workspaces = s.workspaceService.Sweep(now.Add(-s.workspaceIdleTTL))

	if drafts > 0 || workspaces > 0 {
		logger.Info("Sweep completed", map[string]interface{}{
			"drafts":     drafts,
			"workspaces": workspaces,
		})
	}
	return drafts, workspaces
}

// Stop waits for a running sweep to finish.
func (s *SweepScheduler) Stop() {
	logger.Info("Stopping sweep scheduler...", nil)
	<-s.cron.Stop().Done()
	logger.Info("Sweep scheduler stopped", nil)
}
