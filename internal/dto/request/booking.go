package request

type CreateBookingRequest struct {
	UserID string `json:"user_id" validate:"required,notblank"`
	SlotID string `json:"slot_id" validate:"required,notblank"`
	Name   string `json:"name" validate:"required,notblank"`
	Phone  string `json:"phone" validate:"required,notblank"`
	Email  string `json:"email" validate:"required,notblank"`
}
