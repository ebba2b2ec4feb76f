package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"reserveit/internal/data/entity"
	"reserveit/internal/data/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// memStore is an in-memory stand-in for the Postgres tables. A single mutex
// plays the role of the row lock and unique constraints.
type memStore struct {
	mu        sync.Mutex
	resources map[uuid.UUID]*entity.Resource
	slots     map[uuid.UUID]*entity.Slot
	bookings  map[uuid.UUID]*entity.Booking
	failFind  error
}

func newMemStore() *memStore {
	return &memStore{
		resources: make(map[uuid.UUID]*entity.Resource),
		slots:     make(map[uuid.UUID]*entity.Slot),
		bookings:  make(map[uuid.UUID]*entity.Booking),
	}
}

func (m *memStore) repository() *repository.Repository {
	return &repository.Repository{
		Resource: memResources{m},
		Slot:     memSlots{m},
		Booking:  memBookings{m},
	}
}

func (m *memStore) addResource(name string) *entity.Resource {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := &entity.Resource{BaseSimple: entity.BaseSimple{ID: uuid.New()}, Name: name, Position: len(m.resources) + 1}
	m.resources[r.ID] = r
	return r
}

func (m *memStore) addSlot(resourceID string, date time.Time, label string) *entity.Slot {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := &entity.Slot{BaseSimple: entity.BaseSimple{ID: uuid.New()}, ResourceID: resourceID, Date: date, TimeSlot: label}
	m.slots[s.ID] = s
	return s
}

func (m *memStore) addBooking(b *entity.Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[b.ID] = b
}

func (m *memStore) setBookedFlag(id uuid.UUID, booked bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[id].IsBooked = booked
}

func (m *memStore) slotCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.slots)
}

type memResources struct{ *memStore }

func (m memResources) FindAll(ctx context.Context) ([]*entity.Resource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*entity.Resource, 0, len(m.resources))
	for _, r := range m.resources {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (m memResources) FindByID(ctx context.Context, id uuid.UUID) (*entity.Resource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resources[id], nil
}

func (m memResources) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.resources)), nil
}

func (m memResources) CreateBatch(ctx context.Context, resources []*entity.Resource) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var inserted int64
next:
	for _, r := range resources {
		for _, existing := range m.resources {
			if existing.Name == r.Name {
				continue next
			}
		}
		m.resources[r.ID] = r
		inserted++
	}
	return inserted, nil
}

type memSlots struct{ *memStore }

func (m memSlots) FindByResourceAndDate(ctx context.Context, resourceID string, date time.Time) ([]*entity.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Slot
	for _, s := range m.slots {
		if s.ResourceID == resourceID && s.Date.Equal(date) {
			c := *s
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TimeSlot < out[j].TimeSlot })
	return out, nil
}

func (m memSlots) FindByID(ctx context.Context, id uuid.UUID) (*entity.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failFind != nil {
		return nil, m.failFind
	}
	s, ok := m.slots[id]
	if !ok {
		return nil, nil
	}
	c := *s
	return &c, nil
}

func (m memSlots) CreateBatch(ctx context.Context, slots []*entity.Slot) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var inserted int64
next:
	for _, s := range slots {
		for _, existing := range m.slots {
			if existing.ResourceID == s.ResourceID && existing.Date.Equal(s.Date) && existing.TimeSlot == s.TimeSlot {
				continue next
			}
		}
		c := *s
		m.slots[s.ID] = &c
		inserted++
	}
	return inserted, nil
}

func (m memSlots) ResetOrphans(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	referenced := make(map[uuid.UUID]bool)
	for _, b := range m.bookings {
		referenced[b.SlotID] = true
	}
	var n int64
	for _, s := range m.slots {
		if s.IsBooked && !referenced[s.ID] {
			s.IsBooked = false
			n++
		}
	}
	return n, nil
}

type memBookings struct{ *memStore }

func (m memBookings) Claim(ctx context.Context, booking *entity.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	slot, ok := m.slots[booking.SlotID]
	if !ok {
		return repository.ErrSlotNotFound
	}
	for _, b := range m.bookings {
		if b.SlotID == booking.SlotID {
			return repository.ErrSlotTaken
		}
	}
	resourceID, date := slot.ResourceID, slot.Date
	booking.ResourceID = &resourceID
	booking.Date = &date
	c := *booking
	m.bookings[booking.ID] = &c
	slot.IsBooked = true
	return nil
}

func (m memBookings) Release(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	delete(m.bookings, id)
	if slot, ok := m.slots[b.SlotID]; ok {
		slot.IsBooked = false
	}
	return b, nil
}

func (m memBookings) FindByUserID(ctx context.Context, userID string) ([]*entity.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Booking
	for _, b := range m.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m memBookings) FindBookedSlotIDs(ctx context.Context, slotIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	booked := make(map[uuid.UUID]bool)
	for _, b := range m.bookings {
		booked[b.SlotID] = true
	}
	out := make(map[uuid.UUID]bool, len(slotIDs))
	for _, id := range slotIDs {
		if booked[id] {
			out[id] = true
		}
	}
	return out, nil
}

// staticIdentity answers every validation with the same status.
type staticIdentity struct {
	status IdentityStatus
	mu     sync.Mutex
	calls  int
}

func (s *staticIdentity) Validate(ctx context.Context, userID string) IdentityStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.status
}

type publishedEvent struct {
	key   string
	event BookingEvent
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *recordingPublisher) PublishJSON(ctx context.Context, key string, v any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if ev, ok := v.(BookingEvent); ok {
		p.events = append(p.events, publishedEvent{key: key, event: ev})
	}
	return p.err
}

var errBrokerDown = errors.New("broker down")

func newTestService(store *memStore, identity IdentityValidator, events EventPublisher) *Service {
	return NewService(store.repository(), identity, events, zap.NewNop())
}
