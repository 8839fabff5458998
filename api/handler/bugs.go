package handler

import (
	"net/http"
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/trackdesk/api/transport"
	"github.com/fastygo/trackdesk/domain"
	"github.com/fastygo/trackdesk/pkg/httpcontext"
	bugUC "github.com/fastygo/trackdesk/usecase/bug"
)

type BugHandler struct {
	baseHandler
	uc *bugUC.UseCase
}

func NewBugHandler(uc *bugUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *BugHandler {
	return &BugHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List bugs
// @Tags bugs
// @Router /api/v1/bugs [get]
func (h *BugHandler) List(ctx *fasthttp.RequestCtx) {
	filter := bugUC.Filter{
		Status:     domain.BugStatus(query(ctx, "status")),
		Priority:   domain.Priority(query(ctx, "priority")),
		AssigneeID: query(ctx, "assignee_id"),
		ReporterID: query(ctx, "reporter_id"),
		Search:     query(ctx, "search"),
	}
	if filter.AssigneeID == "me" {
		if op, ok := httpcontext.OperatorFrom(ctx); ok {
			filter.AssigneeID = op.UserID
		}
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	bugs, err := h.uc.List(stdCtx, filter)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondList(ctx, bugs, len(bugs))
}

// @Summary Get bug
// @Tags bugs
// @Router /api/v1/bugs/{id} [get]
func (h *BugHandler) Get(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx, "id")
	if !ok {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	bug, err := h.uc.Get(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, bug)
}

// @Summary Report a bug
// @Tags bugs
// @Router /api/v1/bugs [post]
func (h *BugHandler) Create(ctx *fasthttp.RequestCtx) {
	op, ok := h.operator(ctx)
	if !ok {
		return
	}
	bug, ok := h.parseBug(ctx)
	if !ok {
		return
	}
	bug.ReporterID = op.UserID

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.Create(stdCtx, bug)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Update bug
// @Tags bugs
// @Router /api/v1/bugs/{id} [put]
func (h *BugHandler) Update(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx, "id")
	if !ok {
		return
	}
	bug, ok := h.parseBug(ctx)
	if !ok {
		return
	}
	bug.ID = id

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.Update(stdCtx, bug)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Delete bug and its attachments
// @Tags bugs
// @Router /api/v1/bugs/{id} [delete]
func (h *BugHandler) Delete(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx, "id")
	if !ok {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Delete(stdCtx, id); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, nil)
}

func (h *BugHandler) parseBug(ctx *fasthttp.RequestCtx) (*domain.Bug, bool) {
	var req transport.BugRequest
	if !h.decode(ctx, &req) {
		return nil, false
	}
	bug := &domain.Bug{
		Title:       req.Title,
		Description: strings.TrimSpace(req.Description),
		Status:      domain.BugStatus(req.Status),
		Priority:    domain.Priority(req.Priority),
		AssigneeID:  req.AssigneeID,
	}
	return bug, true
}
