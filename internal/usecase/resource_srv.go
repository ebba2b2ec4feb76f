package usecase

import (
	"context"
	"fmt"
	"time"

	"reserveit/internal/data/entity"
	"reserveit/internal/data/repository"
	"reserveit/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ResourceService interface {
	ListResources(ctx context.Context) (*response.ResourceListResponse, error)
	// SeedDefaults fills an empty catalog with the default resources and
	// reports how many were inserted. Safe to run repeatedly.
	SeedDefaults(ctx context.Context) (int64, error)
}

type resourceService struct {
	repo repository.ResourceRepository
	log  *zap.Logger
}

func NewResourceService(repo repository.ResourceRepository, log *zap.Logger) ResourceService {
	return &resourceService{
		repo: repo,
		log:  log.With(zap.String("service", "resource")),
	}
}

func (s *resourceService) ListResources(ctx context.Context) (*response.ResourceListResponse, error) {
	resources, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}

	out := make([]response.ResourceResponse, 0, len(resources))
	for _, r := range resources {
		out = append(out, response.ResourceToResponse(r))
	}

	return &response.ResourceListResponse{Resources: out}, nil
}

func (s *resourceService) SeedDefaults(ctx context.Context) (int64, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count resources: %w", err)
	}
	if count > 0 {
		s.log.Debug("Resource catalog already seeded", zap.Int64("count", count))
		return 0, nil
	}

	now := time.Now().UTC()
	resources := make([]*entity.Resource, len(entity.DefaultResources))
	for i, name := range entity.DefaultResources {
		resources[i] = &entity.Resource{
			BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
			Name:       name,
			Position:   i + 1,
		}
	}

	inserted, err := s.repo.CreateBatch(ctx, resources)
	if err != nil {
		return 0, fmt.Errorf("seed resources: %w", err)
	}

	s.log.Info("Resource catalog seeded", zap.Int64("inserted", inserted))
	return inserted, nil
}
