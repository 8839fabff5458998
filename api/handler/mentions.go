package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/trackdesk/api/transport"
	"github.com/fastygo/trackdesk/domain"
	"github.com/fastygo/trackdesk/pkg/httpcontext"
	mentionUC "github.com/fastygo/trackdesk/usecase/mention"
)

type MentionHandler struct {
	baseHandler
	uc *mentionUC.UseCase
}

func NewMentionHandler(uc *mentionUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *MentionHandler {
	return &MentionHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List the operator's mentions
// @Tags mentions
// @Router /api/v1/mentions [get]
func (h *MentionHandler) List(ctx *fasthttp.RequestCtx) {
	op, ok := h.operator(ctx)
	if !ok {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	list, err := h.uc.List(stdCtx, op.UserID, ctx.QueryArgs().GetBool("unread"))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondList(ctx, list, len(list))
}

// @Summary Mention a user on a bug or feature request
// @Tags mentions
// @Router /api/v1/mentions [post]
func (h *MentionHandler) Create(ctx *fasthttp.RequestCtx) {
	op, ok := h.operator(ctx)
	if !ok {
		return
	}
	var req transport.MentionRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	m, err := h.uc.Create(stdCtx, &domain.Mention{
		RecipientID:      req.RecipientID,
		AuthorID:         op.UserID,
		BugID:            req.BugID,
		FeatureRequestID: req.FeatureRequestID,
		Body:             req.Body,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, m)
}

// @Summary Mark mentions read
// @Tags mentions
// @Router /api/v1/mentions/read [post]
func (h *MentionHandler) MarkRead(ctx *fasthttp.RequestCtx) {
	op, ok := h.operator(ctx)
	if !ok {
		return
	}
	var req transport.MarkReadRequest
	if len(ctx.PostBody()) > 0 && !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.MarkRead(stdCtx, op.UserID, req.IDs)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondList(ctx, updated, len(updated))
}
