package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/trackdesk/domain"
	"github.com/fastygo/trackdesk/internal/testutil"
	"github.com/fastygo/trackdesk/pkg/httpcontext"
	authUC "github.com/fastygo/trackdesk/usecase/auth"
	"github.com/fastygo/trackdesk/usecase/roster"
)

type loginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      domain.User `json:"user"`
}

func newAuthHandler(t *testing.T) (*AuthHandler, *roster.Workspaces, *testutil.Sessions) {
	t.Helper()
	hash, err := authUC.HashPassword("hunter2")
	require.NoError(t, err)
	users := testutil.NewUsers(
		domain.User{ID: "alice", Email: "alice@example.com", Role: domain.RoleAdmin, IsActive: true, PasswordHash: hash},
		domain.User{ID: "carol", Email: "carol@example.com", Role: domain.RoleUser, IsActive: true, PasswordHash: hash},
	)
	sessions := testutil.NewSessions()
	uc := authUC.New(users, sessions, authUC.NewTokens("secret", "trackdesk"), time.Hour, nil)
	ws := roster.NewWorkspaces(users, nil)
	return NewAuthHandler(uc, ws, testAdapter, nil), ws, sessions
}

func TestLoginAndLogout(t *testing.T) {
	h, ws, sessions := newAuthHandler(t)

	ctx := newCtx(http.MethodPost, `{"email":"alice@example.com","password":"hunter2"}`, nil)
	h.Login(ctx)
	require.Equal(t, http.StatusCreated, ctx.Response.StatusCode(), string(ctx.Response.Body()))
	var res loginResponse
	readData(t, ctx, &res)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "alice", res.User.ID)
	assert.NotContains(t, string(ctx.Response.Body()), "password")

	claims, err := authUC.NewTokens("secret", "trackdesk").Parse(res.Token)
	require.NoError(t, err)

	ws.For("alice")
	require.Equal(t, 1, ws.Len())

	ctx = newCtx(http.MethodPost, "", nil)
	httpcontext.SetOperator(ctx, httpcontext.Operator{UserID: "alice", Role: domain.RoleAdmin, SessionID: claims.SessionID})
	h.Refresh(ctx)
	require.Equal(t, http.StatusOK, ctx.Response.StatusCode())
	var refreshed loginResponse
	readData(t, ctx, &refreshed)
	assert.NotEmpty(t, refreshed.Token)

	ctx = newCtx(http.MethodPost, "", nil)
	httpcontext.SetOperator(ctx, httpcontext.Operator{UserID: "alice", Role: domain.RoleAdmin, SessionID: claims.SessionID})
	h.Logout(ctx)
	require.Equal(t, http.StatusOK, ctx.Response.StatusCode())
	assert.Equal(t, 0, ws.Len())

	_, err = sessions.Get(context.Background(), claims.SessionID)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
}

func TestLoginRejected(t *testing.T) {
	h, _, _ := newAuthHandler(t)

	ctx := newCtx(http.MethodPost, `{"email":"alice@example.com","password":"wrong"}`, nil)
	h.Login(ctx)
	assert.Equal(t, http.StatusUnauthorized, ctx.Response.StatusCode())

	ctx = newCtx(http.MethodPost, `{"email":"carol@example.com","password":"hunter2"}`, nil)
	h.Login(ctx)
	assert.Equal(t, http.StatusForbidden, ctx.Response.StatusCode())

	ctx = newCtx(http.MethodPost, `garbage`, nil)
	h.Login(ctx)
	assert.Equal(t, http.StatusBadRequest, ctx.Response.StatusCode())
}
