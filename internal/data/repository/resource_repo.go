package repository

import (
	"context"
	"fmt"

	"reserveit/internal/data/entity"
	"reserveit/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ResourceRepository interface {
	FindAll(ctx context.Context) ([]*entity.Resource, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Resource, error)
	Count(ctx context.Context) (int64, error)
	// CreateBatch skips resources whose name already exists and returns
	// how many rows were inserted.
	CreateBatch(ctx context.Context, resources []*entity.Resource) (int64, error)
}

type resourceRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewResourceRepository(db database.PgxIface, log *zap.Logger) ResourceRepository {
	return &resourceRepository{
		db:  db,
		log: log.With(zap.String("repository", "resource")),
	}
}

func (r *resourceRepository) FindAll(ctx context.Context) ([]*entity.Resource, error) {
	query := `
		SELECT id, name, position, created_at
		FROM resources
		ORDER BY position, name
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to list resources", zap.Error(err))
		return nil, fmt.Errorf("list resources: %w", err)
	}
	defer rows.Close()

	resources := make([]*entity.Resource, 0)
	for rows.Next() {
		var resource entity.Resource
		if err := rows.Scan(
			&resource.ID,
			&resource.Name,
			&resource.Position,
			&resource.CreatedAt,
		); err != nil {
			r.log.Error("Failed to scan resource row", zap.Error(err))
			return nil, fmt.Errorf("scan resource row: %w", err)
		}
		resources = append(resources, &resource)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate resources: %w", err)
	}

	return resources, nil
}

func (r *resourceRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Resource, error) {
	query := `
		SELECT id, name, position, created_at
		FROM resources
		WHERE id = $1
	`

	var resource entity.Resource
	err := r.db.QueryRow(ctx, query, id).Scan(
		&resource.ID,
		&resource.Name,
		&resource.Position,
		&resource.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find resource by ID",
			zap.Error(err),
			zap.String("resource_id", id.String()),
		)
		return nil, fmt.Errorf("find resource by ID %s: %w", id.String(), err)
	}

	return &resource, nil
}

func (r *resourceRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM resources`).Scan(&count); err != nil {
		r.log.Error("Failed to count resources", zap.Error(err))
		return 0, fmt.Errorf("count resources: %w", err)
	}
	return count, nil
}

func (r *resourceRepository) CreateBatch(ctx context.Context, resources []*entity.Resource) (int64, error) {
	query := `
		INSERT INTO resources (id, name, position, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO NOTHING
	`

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin create resources: %w", err)
	}
	defer tx.Rollback(ctx)

	var inserted int64
	for _, resource := range resources {
		tag, err := tx.Exec(ctx, query,
			resource.ID,
			resource.Name,
			resource.Position,
			resource.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to create resource",
				zap.Error(err),
				zap.String("name", resource.Name),
			)
			return 0, fmt.Errorf("create resource %s: %w", resource.Name, err)
		}
		inserted += tag.RowsAffected()
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit create resources: %w", err)
	}

	return inserted, nil
}
