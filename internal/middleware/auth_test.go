package middleware

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"

	"github.com/fastygo/trackdesk/domain"
	"github.com/fastygo/trackdesk/pkg/httpcontext"
)

type fakeAuth map[string]*domain.Session

func (f fakeAuth) Authenticate(_ context.Context, token string) (*domain.Session, error) {
	if token == "broken" {
		return nil, errors.New("redis down")
	}
	if s, ok := f[token]; ok {
		return s, nil
	}
	return nil, domain.ErrUnauthorized
}

var sessions = fakeAuth{
	"admin-token": {ID: "s1", UserID: "alice", Role: domain.RoleAdmin},
	"dev-token":   {ID: "s2", UserID: "bob", Role: domain.RoleDeveloper},
}

func serve(h fasthttp.RequestHandler, authorization, query string) *fasthttp.RequestCtx {
	var ctx fasthttp.RequestCtx
	ctx.Request.SetRequestURI("/api/v1/users" + query)
	if authorization != "" {
		ctx.Request.Header.Set("Authorization", authorization)
	}
	h(&ctx)
	return &ctx
}

func okHandler(ctx *fasthttp.RequestCtx) {
	op, _ := httpcontext.OperatorFrom(ctx)
	ctx.SetStatusCode(http.StatusOK)
	ctx.SetBodyString(op.UserID)
}

func TestJWTAuth(t *testing.T) {
	h := JWTAuth(sessions, 0, nil)(okHandler)

	ctx := serve(h, "Bearer admin-token", "")
	assert.Equal(t, http.StatusOK, ctx.Response.StatusCode())
	assert.Equal(t, "alice", string(ctx.Response.Body()))

	ctx = serve(h, "bearer dev-token", "")
	assert.Equal(t, "bob", string(ctx.Response.Body()))

	ctx = serve(h, "", "?access_token=dev-token")
	assert.Equal(t, http.StatusOK, ctx.Response.StatusCode())

	ctx = serve(h, "", "")
	assert.Equal(t, http.StatusUnauthorized, ctx.Response.StatusCode())
	assert.Contains(t, string(ctx.Response.Body()), `"code":"UNAUTHORIZED"`)

	ctx = serve(h, "Bearer forged", "")
	assert.Equal(t, http.StatusUnauthorized, ctx.Response.StatusCode())

	ctx = serve(h, "Bearer broken", "")
	assert.Equal(t, http.StatusServiceUnavailable, ctx.Response.StatusCode())
}

func TestRequireRole(t *testing.T) {
	h := Chain(okHandler, JWTAuth(sessions, 0, nil), RequireRole(domain.RoleAdmin))

	assert.Equal(t, http.StatusOK, serve(h, "Bearer admin-token", "").Response.StatusCode())

	ctx := serve(h, "Bearer dev-token", "")
	assert.Equal(t, http.StatusForbidden, ctx.Response.StatusCode())
	assert.Contains(t, string(ctx.Response.Body()), `"code":"FORBIDDEN"`)

	bare := RequireRole(domain.RoleDeveloper)(okHandler)
	assert.Equal(t, http.StatusUnauthorized, serve(bare, "", "").Response.StatusCode())
}
