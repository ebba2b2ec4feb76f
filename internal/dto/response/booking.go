package response

// Unknown fills enrichment fields that can no longer be resolved.
const Unknown = "Unknown"

type BookingCreatedResponse struct {
	Message   string `json:"message"`
	BookingID string `json:"booking_id"`
}

// BookingViewResponse is a booking joined with its resource and slot.
type BookingViewResponse struct {
	ID           string `json:"id"`
	SlotID       string `json:"slot_id"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	ResourceName string `json:"resource_name"`
	SlotTime     string `json:"slot_time"`
	Date         string `json:"date"`
}

type BookingListResponse struct {
	Bookings []BookingViewResponse `json:"bookings"`
}
