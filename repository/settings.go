package repository

import (
	"context"
	"time"
)

// SettingsRepository stores one JSON document per configuration form.
type SettingsRepository interface {
	// Get decodes the stored document into dest. found is false when the
	// key has never been saved.
	Get(ctx context.Context, key string, dest interface{}) (found bool, updatedAt time.Time, err error)
	Put(ctx context.Context, key string, value interface{}) (time.Time, error)
}
