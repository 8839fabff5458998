package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/trackdesk/domain"
	"github.com/fastygo/trackdesk/repository"
)

const roadmapColumns = `id, title, description, quarter, status, feature_request_id, position, created_at, updated_at`

type roadmapRepository struct {
	pool *pgxpool.Pool
}

// NewRoadmapRepository returns a Postgres-backed implementation of RoadmapRepository.
func NewRoadmapRepository(pool *pgxpool.Pool) repository.RoadmapRepository {
	return &roadmapRepository{pool: pool}
}

func (r *roadmapRepository) List(ctx context.Context) ([]domain.RoadmapItem, error) {
	// quarter labels are "Qn YYYY"; order by year then quarter number
	const query = `
	SELECT ` + roadmapColumns + `
	FROM roadmap_items
	ORDER BY substring(quarter from 4 for 4), substring(quarter from 2 for 1), position, created_at
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.RoadmapItem
	for rows.Next() {
		item, err := scanRoadmapItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (r *roadmapRepository) GetByID(ctx context.Context, id string) (*domain.RoadmapItem, error) {
	return scanRoadmapItem(r.pool.QueryRow(ctx, `SELECT `+roadmapColumns+` FROM roadmap_items WHERE id = $1`, id))
}

func (r *roadmapRepository) Create(ctx context.Context, item *domain.RoadmapItem) (*domain.RoadmapItem, error) {
	if item == nil {
		return nil, domain.ErrInvalidPayload
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO roadmap_items (id, title, description, quarter, status, feature_request_id, position)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING created_at, updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		item.ID,
		item.Title,
		item.Description,
		item.Quarter,
		string(item.Status),
		nullStringPtr(item.FeatureRequestID),
		item.Position,
	).Scan(&item.CreatedAt, &item.UpdatedAt); err != nil {
		return nil, err
	}
	return item, nil
}

func (r *roadmapRepository) Update(ctx context.Context, item *domain.RoadmapItem) error {
	if item == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE roadmap_items
	SET title = $2,
		description = $3,
		quarter = $4,
		status = $5,
		feature_request_id = $6,
		position = $7,
		updated_at = NOW()
	WHERE id = $1
	RETURNING created_at, updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		item.ID,
		item.Title,
		item.Description,
		item.Quarter,
		string(item.Status),
		nullStringPtr(item.FeatureRequestID),
		item.Position,
	).Scan(&item.CreatedAt, &item.UpdatedAt); err != nil {
		return notFound(err, domain.ErrRoadmapItemNotFound)
	}
	return nil
}

func (r *roadmapRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM roadmap_items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRoadmapItemNotFound
	}
	return nil
}

func (r *roadmapRepository) Count(ctx context.Context) (int, error) {
	return count(ctx, r.pool, "roadmap_items")
}

func scanRoadmapItem(row rowScanner) (*domain.RoadmapItem, error) {
	var item domain.RoadmapItem
	var status string

	if err := row.Scan(
		&item.ID,
		&item.Title,
		&item.Description,
		&item.Quarter,
		&status,
		&item.FeatureRequestID,
		&item.Position,
		&item.CreatedAt,
		&item.UpdatedAt,
	); err != nil {
		return nil, notFound(err, domain.ErrRoadmapItemNotFound)
	}

	item.Status = domain.RoadmapStatus(status)
	return &item, nil
}
