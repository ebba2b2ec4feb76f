package entity

import "time"

// TimeSlots are the fixed times of day every (resource, date) pair offers.
var TimeSlots = []string{"10:00", "14:00", "18:00"}

type Slot struct {
	BaseSimple
	ResourceID string    `db:"resource_id"`
	Date       time.Time `db:"date"` // midnight UTC
	TimeSlot   string    `db:"time_slot"`
	// IsBooked is a cached hint; a booking row referencing the slot is the truth.
	IsBooked bool `db:"is_booked"`
}
