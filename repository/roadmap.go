package repository

import (
	"context"

	"github.com/fastygo/trackdesk/domain"
)

type RoadmapRepository interface {
	// List returns items ordered by quarter then position.
	List(ctx context.Context) ([]domain.RoadmapItem, error)
	GetByID(ctx context.Context, id string) (*domain.RoadmapItem, error)
	Create(ctx context.Context, item *domain.RoadmapItem) (*domain.RoadmapItem, error)
	Update(ctx context.Context, item *domain.RoadmapItem) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}
