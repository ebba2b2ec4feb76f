package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"reserveit/internal/data/entity"
	"reserveit/internal/dto/response"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func slotIDs(slots []response.SlotResponse) []string {
	ids := make([]string, len(slots))
	for i, s := range slots {
		ids[i] = s.ID
	}
	return ids
}

func slotLabels(slots []response.SlotResponse) []string {
	labels := make([]string, len(slots))
	for i, s := range slots {
		labels[i] = s.TimeSlot
	}
	return labels
}

func TestGetSlots_GeneratesFixedSetOnce(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store, &staticIdentity{}, nil)
	ctx := context.Background()

	first, err := svc.Slot.GetSlots(ctx, "Table1", "2025-06-01")
	require.NoError(t, err)
	require.Len(t, first.Slots, 3)
	assert.Equal(t, entity.TimeSlots, slotLabels(first.Slots))
	for _, s := range first.Slots {
		assert.False(t, s.IsBooked)
	}

	second, err := svc.Slot.GetSlots(ctx, "Table1", "2025-06-01")
	require.NoError(t, err)
	assert.Equal(t, slotIDs(first.Slots), slotIDs(second.Slots))
	assert.Equal(t, 3, store.slotCount())
}

func TestGetSlots_DistinctKeysGetDistinctSlots(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store, &staticIdentity{}, nil)
	ctx := context.Background()

	a, err := svc.Slot.GetSlots(ctx, "Table1", "2025-06-01")
	require.NoError(t, err)
	b, err := svc.Slot.GetSlots(ctx, "Table1", "2025-06-02")
	require.NoError(t, err)
	c, err := svc.Slot.GetSlots(ctx, "Table2", "2025-06-01")
	require.NoError(t, err)

	assert.NotEqual(t, slotIDs(a.Slots), slotIDs(b.Slots))
	assert.NotEqual(t, slotIDs(a.Slots), slotIDs(c.Slots))
	assert.Equal(t, 9, store.slotCount())
}

func TestGetSlots_ConcurrentFirstAccess(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store, &staticIdentity{}, nil)

	const workers = 16
	results := make([][]string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := svc.Slot.GetSlots(context.Background(), "Gym", "2030-01-15")
			if assert.NoError(t, err) {
				results[i] = slotIDs(res.Slots)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 3, store.slotCount())
	for i := 1; i < workers; i++ {
		assert.Equal(t, results[0], results[i])
	}
}

func TestGetSlots_CompletesPartialSet(t *testing.T) {
	store := newMemStore()
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	existing := store.addSlot("Room", day, "14:00")
	svc := newTestService(store, &staticIdentity{}, nil)

	res, err := svc.Slot.GetSlots(context.Background(), "Room", "2025-06-01")
	require.NoError(t, err)
	require.Len(t, res.Slots, 3)
	assert.Equal(t, entity.TimeSlots, slotLabels(res.Slots))
	assert.Contains(t, slotIDs(res.Slots), existing.ID.String())
}

func TestGetSlots_InvalidDate(t *testing.T) {
	svc := newTestService(newMemStore(), &staticIdentity{}, nil)

	for _, date := range []string{"2099-13-40", "01-06-2025", "2025/06/01", "", "2025-02-30"} {
		_, err := svc.Slot.GetSlots(context.Background(), "R1", date)
		assert.ErrorIs(t, err, ErrInvalidDate, date)
	}
}

func TestGetSlots_BlankResource(t *testing.T) {
	svc := newTestService(newMemStore(), &staticIdentity{}, nil)

	_, err := svc.Slot.GetSlots(context.Background(), "  ", "2025-06-01")
	assert.ErrorIs(t, err, ErrInvalidResourceID)
}

func TestGetSlots_BookedFlagComesFromBookings(t *testing.T) {
	store := newMemStore()
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	booked := store.addSlot("Table1", day, "10:00")
	orphan := store.addSlot("Table1", day, "14:00")
	store.addSlot("Table1", day, "18:00")

	store.addBooking(&entity.Booking{BaseSimple: entity.BaseSimple{ID: uuid.New()}, UserID: "u", SlotID: booked.ID})
	// flagged booked but nothing references it
	store.setBookedFlag(orphan.ID, true)

	svc := newTestService(store, &staticIdentity{}, nil)
	res, err := svc.Slot.GetSlots(context.Background(), "Table1", "2025-06-01")
	require.NoError(t, err)

	got := make(map[string]bool)
	for _, s := range res.Slots {
		got[s.ID] = s.IsBooked
	}
	assert.True(t, got[booked.ID.String()])
	assert.False(t, got[orphan.ID.String()])
}
