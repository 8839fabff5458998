package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fastygo/trackdesk/internal/infrastructure/monitor"
)

type staticStatus monitor.Status

func (s staticStatus) GetStatus() monitor.Status { return monitor.Status(s) }

func TestHealthCheck(t *testing.T) {
	healthy := staticStatus{
		Healthy:    true,
		LastCheck:  time.Now(),
		Components: map[string]monitor.Component{"postgres": {Online: true}},
	}
	ctx := newCtx(http.MethodGet, "", nil)
	NewHealthHandler(healthy, testAdapter, nil).Check(ctx)
	assert.Equal(t, http.StatusOK, ctx.Response.StatusCode())
	assert.Contains(t, string(ctx.Response.Body()), `"postgres"`)

	degraded := staticStatus{
		Components: map[string]monitor.Component{"redis": {Online: false, Error: "dial tcp: refused"}},
	}
	ctx = newCtx(http.MethodGet, "", nil)
	NewHealthHandler(degraded, testAdapter, nil).Check(ctx)
	assert.Equal(t, http.StatusServiceUnavailable, ctx.Response.StatusCode())
	env := readEnvelope(t, ctx)
	assert.Equal(t, "DEGRADED", env.Code)
	assert.Contains(t, string(env.Meta), "dial tcp: refused")
}
