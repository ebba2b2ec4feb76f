package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"reserveit/internal/data/entity"
	"reserveit/internal/data/repository"
	"reserveit/internal/dto/response"
	"reserveit/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SlotService interface {
	// GetSlots returns the slots of a resource on a YYYY-MM-DD date, creating
	// them on first access, with is_booked taken from the booking ledger.
	GetSlots(ctx context.Context, resourceID, date string) (*response.SlotListResponse, error)
}

type slotService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewSlotService(repo *repository.Repository, log *zap.Logger) SlotService {
	return &slotService{
		repo: repo,
		log:  log.With(zap.String("service", "slot")),
	}
}

func (s *slotService) GetSlots(ctx context.Context, resourceID, date string) (*response.SlotListResponse, error) {
	resourceID = strings.TrimSpace(resourceID)
	if resourceID == "" {
		return nil, ErrInvalidResourceID
	}

	day, err := utils.ParseDate(date)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDate, date)
	}

	slots, err := s.ensureSlots(ctx, resourceID, day)
	if err != nil {
		return nil, err
	}

	if err := s.annotateBooked(ctx, slots); err != nil {
		return nil, err
	}

	out := make([]response.SlotResponse, 0, len(slots))
	for _, slot := range slots {
		out = append(out, response.SlotToResponse(slot))
	}

	return &response.SlotListResponse{Slots: out}, nil
}

// ensureSlots returns the full set of slots for the key, inserting whichever
// time labels are missing. A concurrent generator that loses the insert race
// reads back the winner's rows.
func (s *slotService) ensureSlots(ctx context.Context, resourceID string, day time.Time) ([]*entity.Slot, error) {
	slots, err := s.repo.Slot.FindByResourceAndDate(ctx, resourceID, day)
	if err != nil {
		return nil, fmt.Errorf("get slots: %w", err)
	}

	missing := missingTimeSlots(slots)
	if len(missing) == 0 {
		return slots, nil
	}

	now := time.Now().UTC()
	fresh := make([]*entity.Slot, len(missing))
	for i, label := range missing {
		fresh[i] = &entity.Slot{
			BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
			ResourceID: resourceID,
			Date:       day,
			TimeSlot:   label,
		}
	}

	inserted, err := s.repo.Slot.CreateBatch(ctx, fresh)
	if err != nil {
		return nil, fmt.Errorf("generate slots: %w", err)
	}

	s.log.Info("Slots generated",
		zap.String("resource_id", resourceID),
		zap.String("date", utils.FormatDate(day)),
		zap.Int64("inserted", inserted),
		zap.Int("requested", len(fresh)),
	)

	slots, err = s.repo.Slot.FindByResourceAndDate(ctx, resourceID, day)
	if err != nil {
		return nil, fmt.Errorf("reload slots: %w", err)
	}
	return slots, nil
}

// annotateBooked overwrites the cached is_booked flag with whether a booking
// currently references each slot.
func (s *slotService) annotateBooked(ctx context.Context, slots []*entity.Slot) error {
	ids := make([]uuid.UUID, len(slots))
	for i, slot := range slots {
		ids[i] = slot.ID
	}

	booked, err := s.repo.Booking.FindBookedSlotIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("check availability: %w", err)
	}

	for _, slot := range slots {
		if slot.IsBooked && !booked[slot.ID] {
			s.log.Debug("Ignoring orphaned booked flag", zap.String("slot_id", slot.ID.String()))
		}
		slot.IsBooked = booked[slot.ID]
	}
	return nil
}

func missingTimeSlots(slots []*entity.Slot) []string {
	have := make(map[string]bool, len(slots))
	for _, slot := range slots {
		have[slot.TimeSlot] = true
	}

	var missing []string
	for _, label := range entity.TimeSlots {
		if !have[label] {
			missing = append(missing, label)
		}
	}
	return missing
}
