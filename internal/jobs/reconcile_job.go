package jobs

import (
	"context"
	"fmt"
	"time"

	"reserveit/internal/usecase"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// reconcileTimeout bounds a single run so a stuck store cannot pile up runs.
const reconcileTimeout = 30 * time.Second

// Scheduler runs periodic maintenance against the booking ledger.
type Scheduler struct {
	cron      *cron.Cron
	reconcile usecase.ReconcileService
	log       *zap.Logger
}

func NewScheduler(reconcile usecase.ReconcileService, log *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		reconcile: reconcile,
		log:       log.With(zap.String("component", "scheduler")),
	}
}

// Register adds the orphan reconciliation job. An empty schedule disables it.
func (s *Scheduler) Register(schedule string) error {
	if schedule == "" {
		s.log.Info("Orphan reconciliation disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(schedule, s.RunReconcile); err != nil {
		return fmt.Errorf("schedule reconcile %q: %w", schedule, err)
	}

	s.log.Info("Orphan reconciliation scheduled", zap.String("schedule", schedule))
	return nil
}

// RunReconcile performs one reconciliation pass and logs the outcome.
func (s *Scheduler) RunReconcile() {
	ctx, cancel := context.WithTimeout(context.Background(), reconcileTimeout)
	defer cancel()

	n, err := s.reconcile.ReconcileOrphans(ctx)
	if err != nil {
		s.log.Error("Orphan reconciliation failed", zap.Error(err))
		return
	}
	s.log.Debug("Orphan reconciliation finished", zap.Int64("released", n))
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the scheduler and waits for a running job up to ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn("Scheduler stop timed out")
	}
}
