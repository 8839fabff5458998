package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/trackdesk/domain"
	"github.com/fastygo/trackdesk/repository"
)

const featureColumns = `id, title, description, status, votes, requester_id, created_at, updated_at`

type featureRepository struct {
	pool *pgxpool.Pool
}

// NewFeatureRepository returns a Postgres-backed implementation of FeatureRepository.
func NewFeatureRepository(pool *pgxpool.Pool) repository.FeatureRepository {
	return &featureRepository{pool: pool}
}

func (r *featureRepository) List(ctx context.Context) ([]domain.FeatureRequest, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+featureColumns+` FROM feature_requests ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var features []domain.FeatureRequest
	for rows.Next() {
		feature, err := scanFeature(rows)
		if err != nil {
			return nil, err
		}
		features = append(features, *feature)
	}
	return features, rows.Err()
}

func (r *featureRepository) GetByID(ctx context.Context, id string) (*domain.FeatureRequest, error) {
	return scanFeature(r.pool.QueryRow(ctx, `SELECT `+featureColumns+` FROM feature_requests WHERE id = $1`, id))
}

func (r *featureRepository) Create(ctx context.Context, feature *domain.FeatureRequest) (*domain.FeatureRequest, error) {
	if feature == nil {
		return nil, domain.ErrInvalidPayload
	}
	if feature.ID == "" {
		feature.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO feature_requests (id, title, description, status, votes, requester_id)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING created_at, updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		feature.ID,
		feature.Title,
		feature.Description,
		string(feature.Status),
		feature.Votes,
		feature.RequesterID,
	).Scan(&feature.CreatedAt, &feature.UpdatedAt); err != nil {
		return nil, err
	}
	return feature, nil
}

func (r *featureRepository) Update(ctx context.Context, feature *domain.FeatureRequest) error {
	if feature == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE feature_requests
	SET title = $2,
		description = $3,
		status = $4,
		updated_at = NOW()
	WHERE id = $1
	RETURNING votes, requester_id, created_at, updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		feature.ID,
		feature.Title,
		feature.Description,
		string(feature.Status),
	).Scan(&feature.Votes, &feature.RequesterID, &feature.CreatedAt, &feature.UpdatedAt); err != nil {
		return notFound(err, domain.ErrFeatureNotFound)
	}
	return nil
}

func (r *featureRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM feature_requests WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrFeatureNotFound
	}
	return nil
}

func (r *featureRepository) Vote(ctx context.Context, id string) (int, error) {
	const query = `
	UPDATE feature_requests
	SET votes = votes + 1,
		updated_at = NOW()
	WHERE id = $1
	RETURNING votes
	`
	var votes int
	if err := r.pool.QueryRow(ctx, query, id).Scan(&votes); err != nil {
		return 0, notFound(err, domain.ErrFeatureNotFound)
	}
	return votes, nil
}

func (r *featureRepository) Count(ctx context.Context) (int, error) {
	return count(ctx, r.pool, "feature_requests")
}

func scanFeature(row rowScanner) (*domain.FeatureRequest, error) {
	var feature domain.FeatureRequest
	var status string

	if err := row.Scan(
		&feature.ID,
		&feature.Title,
		&feature.Description,
		&status,
		&feature.Votes,
		&feature.RequesterID,
		&feature.CreatedAt,
		&feature.UpdatedAt,
	); err != nil {
		return nil, notFound(err, domain.ErrFeatureNotFound)
	}

	feature.Status = domain.FeatureStatus(status)
	return &feature, nil
}
