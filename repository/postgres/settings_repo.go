package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/trackdesk/repository"
)

type settingsRepository struct {
	pool *pgxpool.Pool
}

// NewSettingsRepository stores configuration forms in the settings table.
func NewSettingsRepository(pool *pgxpool.Pool) repository.SettingsRepository {
	return &settingsRepository{pool: pool}
}

func (r *settingsRepository) Get(ctx context.Context, key string, dest interface{}) (bool, time.Time, error) {
	var (
		payload   []byte
		updatedAt time.Time
	)
	err := r.pool.QueryRow(ctx, `SELECT value, updated_at FROM settings WHERE key = $1`, key).Scan(&payload, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, time.Time{}, nil
		}
		return false, time.Time{}, err
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return false, time.Time{}, err
	}
	return true, updatedAt, nil
}

func (r *settingsRepository) Put(ctx context.Context, key string, value interface{}) (time.Time, error) {
	payload, err := json.Marshal(value)
	if err != nil {
		return time.Time{}, err
	}

	const query = `
	INSERT INTO settings (key, value, updated_at)
	VALUES ($1, $2, NOW())
	ON CONFLICT (key) DO UPDATE
	SET value = EXCLUDED.value,
		updated_at = NOW()
	RETURNING updated_at
	`

	var updatedAt time.Time
	if err := r.pool.QueryRow(ctx, query, key, payload).Scan(&updatedAt); err != nil {
		return time.Time{}, err
	}
	return updatedAt, nil
}
