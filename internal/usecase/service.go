package usecase

import (
	"reserveit/internal/data/repository"

	"go.uber.org/zap"
)

type Service struct {
	Resource  ResourceService
	Slot      SlotService
	Booking   BookingService
	Reconcile ReconcileService
}

func NewService(repo *repository.Repository, identity IdentityValidator, events EventPublisher, log *zap.Logger) *Service {
	if events == nil {
		events = NoopPublisher{}
	}
	return &Service{
		Resource:  NewResourceService(repo.Resource, log),
		Slot:      NewSlotService(repo, log),
		Booking:   NewBookingService(repo, identity, events, log),
		Reconcile: NewReconcileService(repo.Slot, log),
	}
}
