package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"reserveit/internal/data/entity"
	"reserveit/internal/data/repository"
	"reserveit/internal/dto/request"
	"reserveit/internal/dto/response"
	"reserveit/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const publishTimeout = 2 * time.Second

type BookingService interface {
	Book(ctx context.Context, req *request.CreateBookingRequest) (*response.BookingCreatedResponse, error)
	Cancel(ctx context.Context, bookingID string) error
	ListBookings(ctx context.Context, userID string) (*response.BookingListResponse, error)
}

type bookingService struct {
	repo     *repository.Repository
	identity IdentityValidator
	events   EventPublisher
	log      *zap.Logger
}

func NewBookingService(repo *repository.Repository, identity IdentityValidator, events EventPublisher, log *zap.Logger) BookingService {
	return &bookingService{
		repo:     repo,
		identity: identity,
		events:   events,
		log:      log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) Book(ctx context.Context, req *request.CreateBookingRequest) (*response.BookingCreatedResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, &ValidationError{Fields: errs}
	}

	switch s.identity.Validate(ctx, req.UserID) {
	case IdentityValid:
	case IdentityInvalid:
		return nil, fmt.Errorf("user %s: %w", req.UserID, ErrAuthRejected)
	default:
		return nil, fmt.Errorf("validate user %s: %w", req.UserID, ErrAuthServiceDown)
	}

	slotID, err := uuid.Parse(req.SlotID)
	if err != nil {
		return nil, fmt.Errorf("slot %q: %w", req.SlotID, ErrInvalidSlotID)
	}

	booking := &entity.Booking{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now().UTC(),
		},
		UserID: req.UserID,
		SlotID: slotID,
		Name:   req.Name,
		Phone:  req.Phone,
		Email:  req.Email,
	}

	if err := s.repo.Booking.Claim(ctx, booking); err != nil {
		switch {
		case errors.Is(err, repository.ErrSlotNotFound):
			return nil, fmt.Errorf("slot %s: %w", req.SlotID, ErrSlotNotFound)
		case errors.Is(err, repository.ErrSlotTaken):
			s.log.Info("Slot claim lost",
				zap.String("slot_id", req.SlotID),
				zap.String("user_id", req.UserID),
			)
			return nil, fmt.Errorf("slot %s: %w", req.SlotID, ErrSlotUnavailable)
		default:
			return nil, fmt.Errorf("claim slot: %w", err)
		}
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("slot_id", booking.SlotID.String()),
		zap.String("user_id", booking.UserID),
	)
	s.publish(ctx, EventBookingConfirmed, booking)

	return &response.BookingCreatedResponse{
		Message:   "Booking confirmed",
		BookingID: booking.ID.String(),
	}, nil
}

func (s *bookingService) Cancel(ctx context.Context, bookingID string) error {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return fmt.Errorf("booking %q: %w", bookingID, ErrInvalidBookingID)
	}

	booking, err := s.repo.Booking.Release(ctx, id)
	if errors.Is(err, repository.ErrBookingNotFound) {
		return fmt.Errorf("booking %s: %w", bookingID, ErrBookingNotFound)
	}
	if err != nil {
		return fmt.Errorf("cancel booking: %w", err)
	}

	s.log.Info("Booking cancelled",
		zap.String("booking_id", bookingID),
		zap.String("slot_id", booking.SlotID.String()),
	)
	s.publish(ctx, EventBookingCancelled, booking)

	return nil
}

func (s *bookingService) ListBookings(ctx context.Context, userID string) (*response.BookingListResponse, error) {
	bookings, err := s.repo.Booking.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user bookings: %w", err)
	}

	lookup := newEnrichLookup(s.repo, s.log)
	views := make([]response.BookingViewResponse, 0, len(bookings))
	for _, b := range bookings {
		views = append(views, lookup.enrich(ctx, b))
	}

	s.log.Debug("User bookings retrieved",
		zap.String("user_id", userID),
		zap.Int("count", len(views)),
	)

	return &response.BookingListResponse{Bookings: views}, nil
}

// publish never fails the caller: the booking is already committed.
func (s *bookingService) publish(ctx context.Context, key string, b *entity.Booking) {
	event := BookingEvent{
		BookingID:  b.ID.String(),
		UserID:     b.UserID,
		SlotID:     b.SlotID.String(),
		OccurredAt: time.Now().UTC(),
	}
	if b.ResourceID != nil {
		event.ResourceID = *b.ResourceID
	}
	if b.Date != nil {
		event.Date = utils.FormatDate(*b.Date)
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := s.events.PublishJSON(pubCtx, key, event); err != nil {
		s.log.Warn("Failed to publish booking event",
			zap.Error(err),
			zap.String("event", key),
			zap.String("booking_id", event.BookingID),
		)
	}
}

// enrichLookup memoizes slot and resource reads across one listing.
type enrichLookup struct {
	repo      *repository.Repository
	log       *zap.Logger
	slots     map[uuid.UUID]*entity.Slot
	resources map[string]*entity.Resource
}

func newEnrichLookup(repo *repository.Repository, log *zap.Logger) *enrichLookup {
	return &enrichLookup{
		repo:      repo,
		log:       log,
		slots:     make(map[uuid.UUID]*entity.Slot),
		resources: make(map[string]*entity.Resource),
	}
}

// enrich resolves both placement variants the same way; anything that cannot
// be found is reported as Unknown.
func (l *enrichLookup) enrich(ctx context.Context, b *entity.Booking) response.BookingViewResponse {
	view := response.BookingViewResponse{
		ID:           b.ID.String(),
		SlotID:       b.SlotID.String(),
		Name:         b.Name,
		Phone:        b.Phone,
		Email:        b.Email,
		ResourceName: response.Unknown,
		SlotTime:     response.Unknown,
		Date:         response.Unknown,
	}

	slot := l.slot(ctx, b.SlotID)
	if slot != nil {
		view.SlotTime = slot.TimeSlot
	}

	var resourceID string
	switch p := b.Placement().(type) {
	case entity.PlacementDirect:
		resourceID = p.ResourceID
		view.Date = utils.FormatDate(p.Date)
	case entity.PlacementViaSlot:
		if slot != nil {
			resourceID = slot.ResourceID
			view.Date = utils.FormatDate(slot.Date)
		}
	}

	if resource := l.resource(ctx, resourceID); resource != nil {
		view.ResourceName = resource.Name
	}

	return view
}

func (l *enrichLookup) slot(ctx context.Context, id uuid.UUID) *entity.Slot {
	if slot, ok := l.slots[id]; ok {
		return slot
	}
	slot, err := l.repo.Slot.FindByID(ctx, id)
	if err != nil {
		l.log.Warn("Enrichment: slot lookup failed", zap.Error(err), zap.String("slot_id", id.String()))
		slot = nil
	}
	l.slots[id] = slot
	return slot
}

func (l *enrichLookup) resource(ctx context.Context, id string) *entity.Resource {
	if id == "" {
		return nil
	}
	if resource, ok := l.resources[id]; ok {
		return resource
	}

	var resource *entity.Resource
	if resourceUUID, err := uuid.Parse(id); err == nil {
		resource, err = l.repo.Resource.FindByID(ctx, resourceUUID)
		if err != nil {
			l.log.Warn("Enrichment: resource lookup failed", zap.Error(err), zap.String("resource_id", id))
			resource = nil
		}
	}
	l.resources[id] = resource
	return resource
}
