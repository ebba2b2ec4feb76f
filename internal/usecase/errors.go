package usecase

import (
	"errors"
	"fmt"

	"reserveit/pkg/utils"
)

var (
	ErrMissingField      = errors.New("missing required field")
	ErrInvalidDate       = errors.New("invalid date format")
	ErrInvalidResourceID = errors.New("invalid resource id")
	ErrAuthRejected      = errors.New("invalid user")
	ErrAuthServiceDown   = errors.New("authentication service unavailable")
	ErrSlotNotFound      = errors.New("slot not found")
	ErrSlotUnavailable   = errors.New("slot already booked")
	ErrBookingNotFound   = errors.New("booking not found")
	ErrInvalidBookingID  = errors.New("invalid booking id")

	// ErrInvalidSlotID is a malformed slot id; it is also a ErrSlotNotFound.
	ErrInvalidSlotID = fmt.Errorf("%w: malformed id", ErrSlotNotFound)
)

// ValidationError carries per-field messages for a rejected request.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + utils.FormatValidationErrors(e.Fields)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrMissingField
}
