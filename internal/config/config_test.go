package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DB_PASSWORD", "pw")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "trackdesk", cfg.AppName)
	assert.Equal(t, "0.0.0.0:8080", cfg.Address())
	assert.Equal(t, 10*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, "postgres://trackdesk:pw@localhost:5432/trackdesk?sslmode=disable", cfg.Database.URL)
	assert.Equal(t, 12*time.Hour, cfg.JWT.SessionTTL)
	assert.Equal(t, int64(10<<20), cfg.Storage.MaxAttachmentSize)
	assert.Equal(t, "@every 1h", cfg.Janitor.Schedule)
	assert.Equal(t, 8, cfg.Roadmap.QuarterCount)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/x")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("REQUEST_TIMEOUT", "2s")
	t.Setenv("ROADMAP_QUARTERS", "4")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://u:p@db:5432/x", cfg.Database.URL)
	assert.Equal(t, "0.0.0.0:9090", cfg.Address())
	assert.Equal(t, 2*time.Second, cfg.Context.RequestTimeout)
	assert.Equal(t, 4, cfg.Roadmap.QuarterCount)
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
}
