package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/trackdesk/domain"
	"github.com/fastygo/trackdesk/repository"
)

const mentionColumns = `id, recipient_id, author_id, bug_id, feature_request_id, body, is_read, created_at`

type mentionRepository struct {
	pool *pgxpool.Pool
}

// NewMentionRepository returns a Postgres-backed implementation of MentionRepository.
func NewMentionRepository(pool *pgxpool.Pool) repository.MentionRepository {
	return &mentionRepository{pool: pool}
}

func (r *mentionRepository) Create(ctx context.Context, mention *domain.Mention) (*domain.Mention, error) {
	if mention == nil {
		return nil, domain.ErrInvalidPayload
	}
	if mention.ID == "" {
		mention.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO mentions (id, recipient_id, author_id, bug_id, feature_request_id, body)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING is_read, created_at
	`

	if err := r.pool.QueryRow(ctx, query,
		mention.ID,
		mention.RecipientID,
		mention.AuthorID,
		nullStringPtr(mention.BugID),
		nullStringPtr(mention.FeatureRequestID),
		mention.Body,
	).Scan(&mention.IsRead, &mention.CreatedAt); err != nil {
		return nil, err
	}
	return mention, nil
}

func (r *mentionRepository) ListForRecipient(ctx context.Context, recipientID string, unreadOnly bool) ([]domain.Mention, error) {
	const query = `
	SELECT ` + mentionColumns + `
	FROM mentions
	WHERE recipient_id = $1
	  AND (NOT $2 OR is_read = FALSE)
	ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, recipientID, unreadOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var mentions []domain.Mention
	for rows.Next() {
		var m domain.Mention
		if err := rows.Scan(
			&m.ID,
			&m.RecipientID,
			&m.AuthorID,
			&m.BugID,
			&m.FeatureRequestID,
			&m.Body,
			&m.IsRead,
			&m.CreatedAt,
		); err != nil {
			return nil, err
		}
		mentions = append(mentions, m)
	}
	return mentions, rows.Err()
}

func (r *mentionRepository) MarkRead(ctx context.Context, recipientID string, ids []string) ([]string, error) {
	const query = `
	UPDATE mentions
	SET is_read = TRUE
	WHERE recipient_id = $1
	  AND is_read = FALSE
	  AND (cardinality($2::text[]) = 0 OR id = ANY($2::text[]))
	RETURNING id
	`
	if ids == nil {
		ids = []string{}
	}
	rows, err := r.pool.Query(ctx, query, recipientID, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var updated []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		updated = append(updated, id)
	}
	return updated, rows.Err()
}

func (r *mentionRepository) CountUnread(ctx context.Context, recipientID string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM mentions WHERE recipient_id = $1 AND is_read = FALSE`, recipientID).Scan(&n)
	return n, err
}
