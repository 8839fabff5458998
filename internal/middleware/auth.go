package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/trackdesk/api/transport"
	"github.com/fastygo/trackdesk/domain"
	"github.com/fastygo/trackdesk/pkg/httpcontext"
)

// Authenticator resolves a bearer token to a live session.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.Session, error)
}

// Middleware wraps a handler.
type Middleware func(fasthttp.RequestHandler) fasthttp.RequestHandler

// JWTAuth rejects requests without a valid token bound to an existing
// session and records the operator on the request.
func JWTAuth(auth Authenticator, timeout time.Duration, logger *zap.Logger) Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			tokenString := extractToken(ctx)
			if tokenString == "" {
				deny(ctx, http.StatusUnauthorized, domain.ErrUnauthorized)
				return
			}

			stdCtx, cancel := context.WithTimeout(context.Background(), timeout)
			session, err := auth.Authenticate(stdCtx, tokenString)
			cancel()
			if err != nil {
				if domain.IsDomainError(err, domain.ErrCodeUnauthorized) {
					logger.Debug("rejected token", zap.Error(err))
					deny(ctx, http.StatusUnauthorized, domain.ErrUnauthorized)
					return
				}
				logger.Error("session lookup failed", zap.Error(err))
				deny(ctx, http.StatusServiceUnavailable, domain.NewError(domain.ErrCodeInternal, "session store unavailable"))
				return
			}

			httpcontext.SetOperator(ctx, httpcontext.Operator{
				UserID:    session.UserID,
				Role:      session.Role,
				SessionID: session.ID,
			})
			next(ctx)
		}
	}
}

// RequireRole lets through operators holding at least min. It must run
// inside JWTAuth.
func RequireRole(min domain.Role) Middleware {
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			op, ok := httpcontext.OperatorFrom(ctx)
			if !ok {
				deny(ctx, http.StatusUnauthorized, domain.ErrUnauthorized)
				return
			}
			if !op.Role.AtLeast(min) {
				deny(ctx, http.StatusForbidden, domain.ErrForbidden)
				return
			}
			next(ctx)
		}
	}
}

// Chain applies middlewares so the first one listed runs first.
func Chain(h fasthttp.RequestHandler, mws ...Middleware) fasthttp.RequestHandler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

func deny(ctx *fasthttp.RequestCtx, status int, err *domain.Error) {
	body, _ := json.Marshal(transport.NewError(string(err.Code), err.Message, nil))
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}

func extractToken(ctx *fasthttp.RequestCtx) string {
	header := strings.TrimSpace(string(ctx.Request.Header.Peek("Authorization")))
	if header == "" {
		// EventSource cannot set headers
		return strings.TrimSpace(string(ctx.QueryArgs().Peek("access_token")))
	}
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}
