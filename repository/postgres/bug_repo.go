package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/trackdesk/domain"
	"github.com/fastygo/trackdesk/repository"
)

const bugColumns = `id, title, description, status, priority, reporter_id, assignee_id, created_at, updated_at`

type bugRepository struct {
	pool *pgxpool.Pool
}

// NewBugRepository returns a Postgres-backed implementation of BugRepository.
func NewBugRepository(pool *pgxpool.Pool) repository.BugRepository {
	return &bugRepository{pool: pool}
}

func (r *bugRepository) List(ctx context.Context) ([]domain.Bug, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+bugColumns+` FROM bugs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bugs []domain.Bug
	for rows.Next() {
		bug, err := scanBug(rows)
		if err != nil {
			return nil, err
		}
		bugs = append(bugs, *bug)
	}
	return bugs, rows.Err()
}

func (r *bugRepository) GetByID(ctx context.Context, id string) (*domain.Bug, error) {
	return scanBug(r.pool.QueryRow(ctx, `SELECT `+bugColumns+` FROM bugs WHERE id = $1`, id))
}

func (r *bugRepository) Create(ctx context.Context, bug *domain.Bug) (*domain.Bug, error) {
	if bug == nil {
		return nil, domain.ErrInvalidPayload
	}
	if bug.ID == "" {
		bug.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO bugs (id, title, description, status, priority, reporter_id, assignee_id)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING created_at, updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		bug.ID,
		bug.Title,
		bug.Description,
		string(bug.Status),
		string(bug.Priority),
		bug.ReporterID,
		nullStringPtr(bug.AssigneeID),
	).Scan(&bug.CreatedAt, &bug.UpdatedAt); err != nil {
		return nil, err
	}
	return bug, nil
}

func (r *bugRepository) Update(ctx context.Context, bug *domain.Bug) error {
	if bug == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE bugs
	SET title = $2,
		description = $3,
		status = $4,
		priority = $5,
		assignee_id = $6,
		updated_at = NOW()
	WHERE id = $1
	RETURNING created_at, updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		bug.ID,
		bug.Title,
		bug.Description,
		string(bug.Status),
		string(bug.Priority),
		nullStringPtr(bug.AssigneeID),
	).Scan(&bug.CreatedAt, &bug.UpdatedAt); err != nil {
		return notFound(err, domain.ErrBugNotFound)
	}
	return nil
}

func (r *bugRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM bugs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBugNotFound
	}
	return nil
}

func (r *bugRepository) Count(ctx context.Context) (int, error) {
	return count(ctx, r.pool, "bugs")
}

func scanBug(row rowScanner) (*domain.Bug, error) {
	var bug domain.Bug
	var status, priority string

	if err := row.Scan(
		&bug.ID,
		&bug.Title,
		&bug.Description,
		&status,
		&priority,
		&bug.ReporterID,
		&bug.AssigneeID,
		&bug.CreatedAt,
		&bug.UpdatedAt,
	); err != nil {
		return nil, notFound(err, domain.ErrBugNotFound)
	}

	bug.Status = domain.BugStatus(status)
	bug.Priority = domain.Priority(priority)
	return &bug, nil
}
