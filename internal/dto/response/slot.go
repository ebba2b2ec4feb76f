package response

import "reserveit/internal/data/entity"

type SlotResponse struct {
	ID       string `json:"id"`
	TimeSlot string `json:"time_slot"`
	IsBooked bool   `json:"is_booked"`
}

type SlotListResponse struct {
	Slots []SlotResponse `json:"slots"`
}

func SlotToResponse(s *entity.Slot) SlotResponse {
	return SlotResponse{
		ID:       s.ID.String(),
		TimeSlot: s.TimeSlot,
		IsBooked: s.IsBooked,
	}
}
