package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/trackdesk/api/transport"
	"github.com/fastygo/trackdesk/pkg/httpcontext"
	authUC "github.com/fastygo/trackdesk/usecase/auth"
)

// WorkspaceDropper releases per-operator state on logout.
type WorkspaceDropper interface {
	Drop(operatorID string)
}

type AuthHandler struct {
	baseHandler
	uc         *authUC.UseCase
	workspaces WorkspaceDropper
}

func NewAuthHandler(uc *authUC.UseCase, workspaces WorkspaceDropper, adapter *httpcontext.Adapter, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		workspaces:  workspaces,
	}
}

// @Summary Sign in with e-mail and password
// @Tags auth
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(ctx *fasthttp.RequestCtx) {
	var req transport.LoginRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	res, err := h.uc.Login(stdCtx, req.Email, req.Password)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.log(stdCtx).Info("operator signed in", zap.String("user_id", res.User.ID), zap.String("role", string(res.User.Role)))
	h.respondSuccess(ctx, http.StatusCreated, res)
}

// @Summary Extend the current session and re-issue the token
// @Tags auth
// @Router /api/v1/auth/refresh [post]
func (h *AuthHandler) Refresh(ctx *fasthttp.RequestCtx) {
	op, ok := h.operator(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	res, err := h.uc.Refresh(stdCtx, op.SessionID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, res)
}

// @Summary End the current session
// @Tags auth
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(ctx *fasthttp.RequestCtx) {
	op, ok := h.operator(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.RevokeSession(stdCtx, op.SessionID); err != nil {
		h.respondError(ctx, err)
		return
	}
	if h.workspaces != nil {
		h.workspaces.Drop(op.UserID)
	}
	h.respondSuccess(ctx, http.StatusOK, nil)
}
