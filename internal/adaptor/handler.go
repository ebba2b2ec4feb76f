package adaptor

import (
	"reserveit/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Resource *ResourceHandler
	Slot     *SlotHandler
	Booking  *BookingHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Resource: NewResourceHandler(service.Resource, log),
		Slot:     NewSlotHandler(service.Slot, log),
		Booking:  NewBookingHandler(service.Booking, log),
	}
}
