package repository

import (
	"context"
	"fmt"
	"time"

	"reserveit/internal/data/entity"
	"reserveit/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type SlotRepository interface {
	FindByResourceAndDate(ctx context.Context, resourceID string, date time.Time) ([]*entity.Slot, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Slot, error)
	// CreateBatch inserts slots, silently skipping any (resource, date, time)
	// that already exists, and returns the number of new rows.
	CreateBatch(ctx context.Context, slots []*entity.Slot) (int64, error)
	// ResetOrphans clears the booked flag on slots no booking references.
	ResetOrphans(ctx context.Context) (int64, error)
}

type slotRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewSlotRepository(db database.PgxIface, log *zap.Logger) SlotRepository {
	return &slotRepository{
		db:  db,
		log: log.With(zap.String("repository", "slot")),
	}
}

func (r *slotRepository) FindByResourceAndDate(ctx context.Context, resourceID string, date time.Time) ([]*entity.Slot, error) {
	query := `
		SELECT id, resource_id, date, time_slot, is_booked, created_at
		FROM slots
		WHERE resource_id = $1 AND date = $2
		ORDER BY time_slot
	`

	rows, err := r.db.Query(ctx, query, resourceID, date)
	if err != nil {
		r.log.Error("Failed to find slots",
			zap.Error(err),
			zap.String("resource_id", resourceID),
			zap.Time("date", date),
		)
		return nil, fmt.Errorf("find slots for %s on %s: %w", resourceID, date.Format("2006-01-02"), err)
	}
	defer rows.Close()

	var slots []*entity.Slot
	for rows.Next() {
		var slot entity.Slot
		if err := rows.Scan(
			&slot.ID,
			&slot.ResourceID,
			&slot.Date,
			&slot.TimeSlot,
			&slot.IsBooked,
			&slot.CreatedAt,
		); err != nil {
			r.log.Error("Failed to scan slot row", zap.Error(err))
			return nil, fmt.Errorf("scan slot row: %w", err)
		}
		slots = append(slots, &slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate slots: %w", err)
	}

	return slots, nil
}

func (r *slotRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Slot, error) {
	query := `
		SELECT id, resource_id, date, time_slot, is_booked, created_at
		FROM slots
		WHERE id = $1
	`

	var slot entity.Slot
	err := r.db.QueryRow(ctx, query, id).Scan(
		&slot.ID,
		&slot.ResourceID,
		&slot.Date,
		&slot.TimeSlot,
		&slot.IsBooked,
		&slot.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find slot by ID",
			zap.Error(err),
			zap.String("slot_id", id.String()),
		)
		return nil, fmt.Errorf("find slot by ID %s: %w", id.String(), err)
	}

	return &slot, nil
}

func (r *slotRepository) CreateBatch(ctx context.Context, slots []*entity.Slot) (int64, error) {
	query := `
		INSERT INTO slots (id, resource_id, date, time_slot, is_booked, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (resource_id, date, time_slot) DO NOTHING
	`

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin create slots: %w", err)
	}
	defer tx.Rollback(ctx)

	var inserted int64
	for _, slot := range slots {
		tag, err := tx.Exec(ctx, query,
			slot.ID,
			slot.ResourceID,
			slot.Date,
			slot.TimeSlot,
			slot.IsBooked,
			slot.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to create slot",
				zap.Error(err),
				zap.String("resource_id", slot.ResourceID),
				zap.String("time_slot", slot.TimeSlot),
			)
			return 0, fmt.Errorf("create slot %s %s: %w", slot.ResourceID, slot.TimeSlot, err)
		}
		inserted += tag.RowsAffected()
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit create slots: %w", err)
	}

	return inserted, nil
}

func (r *slotRepository) ResetOrphans(ctx context.Context) (int64, error) {
	query := `
		UPDATE slots s SET is_booked = false
		WHERE s.is_booked
		AND NOT EXISTS (SELECT 1 FROM bookings b WHERE b.slot_id = s.id)
	`

	tag, err := r.db.Exec(ctx, query)
	if err != nil {
		r.log.Error("Failed to reset orphaned slots", zap.Error(err))
		return 0, fmt.Errorf("reset orphaned slots: %w", err)
	}

	return tag.RowsAffected(), nil
}
