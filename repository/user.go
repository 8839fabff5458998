package repository

import (
	"context"

	"github.com/fastygo/trackdesk/domain"
)

// UserRepository is the roster's handle on the users table.
type UserRepository interface {
	// List returns every user ordered by created_at descending.
	List(ctx context.Context) ([]domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// Update writes the editable columns of one row and returns the stored row.
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	// UpdateRoles sets role on every listed id in one statement.
	UpdateRoles(ctx context.Context, ids []string, role domain.Role) ([]domain.User, error)
	SetActive(ctx context.Context, id string, active bool) (*domain.User, error)
	Count(ctx context.Context) (int, error)
}
