package entity

import (
	"time"

	"github.com/google/uuid"
)

type Booking struct {
	BaseSimple
	UserID     string     `db:"user_id"`
	SlotID     uuid.UUID  `db:"slot_id"`
	ResourceID *string    `db:"resource_id"` // nil on legacy records
	Date       *time.Time `db:"date"`        // nil on legacy records
	Name       string     `db:"name"`
	Phone      string     `db:"phone"`
	Email      string     `db:"email"`
}

// Placement says where a booking sits: either recorded on the booking
// itself or only reachable through its slot.
type Placement interface {
	placement()
}

// PlacementDirect carries the resource and date denormalized at booking time.
type PlacementDirect struct {
	ResourceID string
	Date       time.Time
}

// PlacementViaSlot marks a legacy booking whose resource and date must be
// read from the referenced slot.
type PlacementViaSlot struct {
	SlotID uuid.UUID
}

func (PlacementDirect) placement()  {}
func (PlacementViaSlot) placement() {}

func (b *Booking) Placement() Placement {
	if b.ResourceID != nil && *b.ResourceID != "" && b.Date != nil {
		return PlacementDirect{ResourceID: *b.ResourceID, Date: *b.Date}
	}
	return PlacementViaSlot{SlotID: b.SlotID}
}
