package adaptor

import (
	"errors"
	"net/http"

	"reserveit/internal/usecase"
	"reserveit/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type SlotHandler struct {
	service usecase.SlotService
	log     *zap.Logger
}

func NewSlotHandler(service usecase.SlotService, log *zap.Logger) *SlotHandler {
	return &SlotHandler{
		service: service,
		log:     log.With(zap.String("handler", "slot")),
	}
}

// GetSlots handles GET /slots/{resource_id}/{date}
func (h *SlotHandler) GetSlots(w http.ResponseWriter, r *http.Request) {
	resourceID := chi.URLParam(r, "resource_id")
	date := chi.URLParam(r, "date")

	slots, err := h.service.GetSlots(r.Context(), resourceID, date)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidDate):
			h.log.Warn("Get slots: invalid date", zap.String("date", date))
			utils.ResponseBadRequest(w, "Invalid date format. Use YYYY-MM-DD", nil)
		case errors.Is(err, usecase.ErrInvalidResourceID):
			utils.ResponseBadRequest(w, "Resource ID is required", nil)
		default:
			h.log.Error("Failed to get slots",
				zap.Error(err),
				zap.String("resource_id", resourceID),
				zap.String("date", date),
			)
			utils.ResponseInternalError(w, "Internal server error")
		}
		return
	}

	utils.ResponseSuccess(w, slots)
}
