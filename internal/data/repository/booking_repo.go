package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"reserveit/internal/data/entity"
	"reserveit/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookingRepository interface {
	// Claim inserts the booking if its slot exists and is free. The slot's
	// resource and date are copied onto the booking. Returns ErrSlotNotFound
	// or ErrSlotTaken.
	Claim(ctx context.Context, booking *entity.Booking) error
	// Release deletes the booking and frees its slot in one transaction.
	// Returns ErrBookingNotFound.
	Release(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByUserID(ctx context.Context, userID string) ([]*entity.Booking, error)
	// FindBookedSlotIDs returns the subset of slotIDs referenced by a booking.
	FindBookedSlotIDs(ctx context.Context, slotIDs []uuid.UUID) (map[uuid.UUID]bool, error)
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

func (r *bookingRepository) Claim(ctx context.Context, booking *entity.Booking) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin claim: %w", err)
	}
	defer tx.Rollback(ctx)

	// the row lock serializes concurrent claims on the same slot
	var resourceID string
	var date time.Time
	err = tx.QueryRow(ctx,
		`SELECT resource_id, date FROM slots WHERE id = $1 FOR UPDATE`,
		booking.SlotID,
	).Scan(&resourceID, &date)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrSlotNotFound
	}
	if err != nil {
		r.log.Error("Failed to lock slot",
			zap.Error(err),
			zap.String("slot_id", booking.SlotID.String()),
		)
		return fmt.Errorf("lock slot %s: %w", booking.SlotID.String(), err)
	}

	var taken bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM bookings WHERE slot_id = $1)`,
		booking.SlotID,
	).Scan(&taken)
	if err != nil {
		return fmt.Errorf("check slot %s: %w", booking.SlotID.String(), err)
	}
	if taken {
		return ErrSlotTaken
	}

	booking.ResourceID = &resourceID
	booking.Date = &date

	query := `
		INSERT INTO bookings (id, user_id, slot_id, resource_id, date, name, phone, email, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = tx.Exec(ctx, query,
		booking.ID,
		booking.UserID,
		booking.SlotID,
		booking.ResourceID,
		booking.Date,
		booking.Name,
		booking.Phone,
		booking.Email,
		booking.CreatedAt,
	)
	if isUniqueViolation(err) {
		return ErrSlotTaken
	}
	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("user_id", booking.UserID),
			zap.String("slot_id", booking.SlotID.String()),
		)
		return fmt.Errorf("create booking for slot %s: %w", booking.SlotID.String(), err)
	}

	if _, err := tx.Exec(ctx, `UPDATE slots SET is_booked = true WHERE id = $1`, booking.SlotID); err != nil {
		return fmt.Errorf("mark slot %s booked: %w", booking.SlotID.String(), err)
	}

	if err := tx.Commit(ctx); err != nil {
		if isUniqueViolation(err) {
			return ErrSlotTaken
		}
		return fmt.Errorf("commit claim: %w", err)
	}

	return nil
}

func (r *bookingRepository) Release(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin release: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		DELETE FROM bookings
		WHERE id = $1
		RETURNING id, user_id, slot_id, resource_id, date, name, phone, email, created_at
	`

	var booking entity.Booking
	err = tx.QueryRow(ctx, query, id).Scan(
		&booking.ID,
		&booking.UserID,
		&booking.SlotID,
		&booking.ResourceID,
		&booking.Date,
		&booking.Name,
		&booking.Phone,
		&booking.Email,
		&booking.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		r.log.Error("Failed to delete booking",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("delete booking %s: %w", id.String(), err)
	}

	if _, err := tx.Exec(ctx, `UPDATE slots SET is_booked = false WHERE id = $1`, booking.SlotID); err != nil {
		return nil, fmt.Errorf("free slot %s: %w", booking.SlotID.String(), err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit release: %w", err)
	}

	r.log.Info("Booking deleted", zap.String("booking_id", id.String()))
	return &booking, nil
}

func (r *bookingRepository) FindByUserID(ctx context.Context, userID string) ([]*entity.Booking, error) {
	query := `
		SELECT id, user_id, slot_id, resource_id, date, name, phone, email, created_at
		FROM bookings
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to find bookings by user ID",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return nil, fmt.Errorf("find bookings by user ID %s: %w", userID, err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		var booking entity.Booking
		err := rows.Scan(
			&booking.ID,
			&booking.UserID,
			&booking.SlotID,
			&booking.ResourceID,
			&booking.Date,
			&booking.Name,
			&booking.Phone,
			&booking.Email,
			&booking.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, &booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}

	return bookings, nil
}

func (r *bookingRepository) FindBookedSlotIDs(ctx context.Context, slotIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	booked := make(map[uuid.UUID]bool, len(slotIDs))
	if len(slotIDs) == 0 {
		return booked, nil
	}

	ids := make([]string, len(slotIDs))
	for i, id := range slotIDs {
		ids[i] = id.String()
	}

	rows, err := r.db.Query(ctx, `SELECT slot_id FROM bookings WHERE slot_id = ANY($1::uuid[])`, ids)
	if err != nil {
		r.log.Error("Failed to find booked slots", zap.Error(err), zap.Int("slots", len(ids)))
		return nil, fmt.Errorf("find booked slots: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var slotID uuid.UUID
		if err := rows.Scan(&slotID); err != nil {
			return nil, fmt.Errorf("scan booked slot: %w", err)
		}
		booked[slotID] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate booked slots: %w", err)
	}

	return booked, nil
}
