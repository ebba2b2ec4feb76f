package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"reserveit/internal/dto/request"
	"reserveit/internal/usecase"
	"reserveit/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// CreateBooking handles POST /book
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req request.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "All fields are required", nil)
		return
	}

	booking, err := h.service.Book(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "create booking")
		return
	}

	utils.ResponseCreated(w, booking)
}

// GetUserBookings handles GET /bookings/{user_id}
func (h *BookingHandler) GetUserBookings(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	bookings, err := h.service.ListBookings(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, err, "get user bookings")
		return
	}

	utils.ResponseSuccess(w, bookings)
}

// CancelBooking handles POST /cancel/{booking_id}
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "booking_id")

	if err := h.service.Cancel(r.Context(), bookingID); err != nil {
		h.handleServiceError(w, err, "cancel booking")
		return
	}

	utils.ResponseMessage(w, "Booking cancelled")
}

// handleServiceError maps ledger errors onto the public status codes.
// Slot conflicts are 400, not 409; existing clients depend on it.
func (h *BookingHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	var verr *usecase.ValidationError

	switch {
	case errors.As(err, &verr):
		h.log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, "All fields are required", verr.Fields)

	case errors.Is(err, usecase.ErrAuthRejected):
		h.log.Warn(operation+" failed - invalid user", zap.Error(err))
		utils.ResponseUnauthorized(w, "Invalid user")

	case errors.Is(err, usecase.ErrAuthServiceDown):
		h.log.Error(operation+" failed - identity authority unreachable", zap.Error(err))
		utils.ResponseServiceUnavailable(w, "Authentication service unavailable")

	case errors.Is(err, usecase.ErrInvalidSlotID):
		h.log.Warn("Invalid input for "+operation, zap.Error(err))
		utils.ResponseBadRequest(w, "Invalid slot ID", nil)

	case errors.Is(err, usecase.ErrSlotNotFound), errors.Is(err, usecase.ErrSlotUnavailable):
		h.log.Warn(operation+" failed - slot unavailable", zap.Error(err))
		utils.ResponseBadRequest(w, "Slot not found or already booked", nil)

	case errors.Is(err, usecase.ErrInvalidBookingID):
		h.log.Warn("Invalid input for "+operation, zap.Error(err))
		utils.ResponseBadRequest(w, "Invalid booking ID", nil)

	case errors.Is(err, usecase.ErrBookingNotFound):
		h.log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, "Booking not found")

	default:
		h.log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
