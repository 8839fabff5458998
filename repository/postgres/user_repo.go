package postgres

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/trackdesk/domain"
	"github.com/fastygo/trackdesk/repository"
)

const userColumns = `id, email, full_name, COALESCE(nickname, ''), role, is_active, COALESCE(password_hash, ''), created_at, updated_at`

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository instantiates a Postgres-backed user repository.
func NewUserRepository(pool *pgxpool.Pool) repository.UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = $1`
	return scanUser(r.pool.QueryRow(ctx, query, strings.ToLower(strings.TrimSpace(email))))
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	if err := user.Validate(); err != nil {
		return nil, err
	}

	query := `
	UPDATE users
	SET email = $2,
		full_name = $3,
		nickname = $4,
		role = $5,
		is_active = $6,
		updated_at = NOW()
	WHERE id = $1
	RETURNING ` + userColumns

	updated, err := scanUser(r.pool.QueryRow(ctx, query,
		user.ID,
		user.Email,
		user.FullName,
		nullString(user.Nickname),
		string(user.Role),
		user.IsActive,
	))
	if err != nil {
		return nil, uniqueViolation(err, domain.ErrEmailTaken)
	}
	return updated, nil
}

func (r *userRepository) UpdateRoles(ctx context.Context, ids []string, role domain.Role) ([]domain.User, error) {
	if !role.Valid() {
		return nil, domain.ErrInvalidRole
	}
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
	UPDATE users
	SET role = $2,
		updated_at = NOW()
	WHERE id = ANY($1)
	RETURNING ` + userColumns

	rows, err := r.pool.Query(ctx, query, ids, string(role))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func (r *userRepository) SetActive(ctx context.Context, id string, active bool) (*domain.User, error) {
	query := `
	UPDATE users
	SET is_active = $2,
		updated_at = NOW()
	WHERE id = $1
	RETURNING ` + userColumns

	return scanUser(r.pool.QueryRow(ctx, query, id, active))
}

func (r *userRepository) Count(ctx context.Context) (int, error) {
	return count(ctx, r.pool, "users")
}

func scanUser(row rowScanner) (*domain.User, error) {
	var user domain.User
	var role string

	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.FullName,
		&user.Nickname,
		&role,
		&user.IsActive,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, notFound(err, domain.ErrUserNotFound)
	}

	user.Role = domain.Role(role)
	return &user, nil
}
