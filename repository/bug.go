package repository

import (
	"context"

	"github.com/fastygo/trackdesk/domain"
)

type BugRepository interface {
	List(ctx context.Context) ([]domain.Bug, error)
	GetByID(ctx context.Context, id string) (*domain.Bug, error)
	Create(ctx context.Context, bug *domain.Bug) (*domain.Bug, error)
	Update(ctx context.Context, bug *domain.Bug) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}
