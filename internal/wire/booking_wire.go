package wire

import (
	"reserveit/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireBooking(r chi.Router, bookingHandler *adaptor.BookingHandler) {
	// POST /book - claim a slot
	r.Post("/book", bookingHandler.CreateBooking)

	// GET /bookings/{user_id} - booking history of a user
	r.Get("/bookings/{user_id}", bookingHandler.GetUserBookings)

	// POST /cancel/{booking_id} - release a claimed slot
	r.Post("/cancel/{booking_id}", bookingHandler.CancelBooking)
}
