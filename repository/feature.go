package repository

import (
	"context"

	"github.com/fastygo/trackdesk/domain"
)

type FeatureRepository interface {
	List(ctx context.Context) ([]domain.FeatureRequest, error)
	GetByID(ctx context.Context, id string) (*domain.FeatureRequest, error)
	Create(ctx context.Context, feature *domain.FeatureRequest) (*domain.FeatureRequest, error)
	Update(ctx context.Context, feature *domain.FeatureRequest) error
	Delete(ctx context.Context, id string) error
	// Vote increments the vote counter and returns the new total.
	Vote(ctx context.Context, id string) (int, error)
	Count(ctx context.Context) (int, error)
}
