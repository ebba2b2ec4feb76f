package wire

import (
	"reserveit/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireSlot(r chi.Router, slotHandler *adaptor.SlotHandler) {
	// GET /slots/{resource_id}/{date} - slots of a resource on a day, generated on first access
	r.Get("/slots/{resource_id}/{date}", slotHandler.GetSlots)
}
