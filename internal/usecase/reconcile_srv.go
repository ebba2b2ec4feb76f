package usecase

import (
	"context"
	"fmt"

	"reserveit/internal/data/repository"

	"go.uber.org/zap"
)

// ReconcileService repairs slots left flagged as booked after a cancellation
// failed halfway. Reads never rely on it.
type ReconcileService interface {
	ReconcileOrphans(ctx context.Context) (int64, error)
}

type reconcileService struct {
	slots repository.SlotRepository
	log   *zap.Logger
}

func NewReconcileService(slots repository.SlotRepository, log *zap.Logger) ReconcileService {
	return &reconcileService{
		slots: slots,
		log:   log.With(zap.String("service", "reconcile")),
	}
}

func (s *reconcileService) ReconcileOrphans(ctx context.Context) (int64, error) {
	n, err := s.slots.ResetOrphans(ctx)
	if err != nil {
		return 0, fmt.Errorf("reconcile orphans: %w", err)
	}
	if n > 0 {
		s.log.Info("Orphaned slots released", zap.Int64("count", n))
	}
	return n, nil
}
