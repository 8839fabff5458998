package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/trackdesk/api/transport"
	"github.com/fastygo/trackdesk/domain"
	"github.com/fastygo/trackdesk/pkg/httpcontext"
	"github.com/fastygo/trackdesk/usecase/roster"
)

// RosterView is the user list as the operator currently sees it.
type RosterView struct {
	Users    []domain.User `json:"users"`
	Total    int           `json:"total"`
	Mode     roster.Mode   `json:"mode"`
	Draft    *roster.Draft `json:"draft,omitempty"`
	LoadedAt time.Time     `json:"loaded_at"`
}

// UserHandler exposes each operator's roster workspace.
type UserHandler struct {
	baseHandler
	workspaces *roster.Workspaces
}

func NewUserHandler(workspaces *roster.Workspaces, adapter *httpcontext.Adapter, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		baseHandler: newBaseHandler(adapter, logger),
		workspaces:  workspaces,
	}
}

// roster returns the operator's loaded roster. refresh forces a re-fetch.
func (h *UserHandler) roster(ctx *fasthttp.RequestCtx, stdCtx context.Context, refresh bool) (*roster.Roster, bool) {
	op, ok := h.operator(ctx)
	if !ok {
		return nil, false
	}
	r := h.workspaces.For(op.UserID)
	if err := r.Ensure(stdCtx, refresh); err != nil {
		h.respondError(ctx, err)
		return nil, false
	}
	return r, true
}

// @Summary List users with search, role, status and sort applied
// @Tags users
// @Router /api/v1/users [get]
func (h *UserHandler) List(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	r, ok := h.roster(ctx, stdCtx, ctx.QueryArgs().GetBool("refresh"))
	if !ok {
		return
	}

	q := roster.NewQuery(query(ctx, "search"), query(ctx, "role"), query(ctx, "status"), query(ctx, "sort"))
	users := r.View(q)
	if users == nil {
		users = []domain.User{}
	}
	view := RosterView{
		Users:    users,
		Total:    len(r.Records()),
		Mode:     r.Mode(),
		LoadedAt: r.LoadedAt(),
	}
	if d, editing := r.Draft(); editing {
		view.Draft = &d
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewSuccess(view, transport.ListMeta{Count: len(users), Total: view.Total}))
}

// @Summary Get one user from the loaded roster
// @Tags users
// @Router /api/v1/users/{id} [get]
func (h *UserHandler) Get(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx, "id")
	if !ok {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	r, ok := h.roster(ctx, stdCtx, false)
	if !ok {
		return
	}
	for _, u := range r.Records() {
		if u.ID == id {
			h.respondSuccess(ctx, http.StatusOK, u)
			return
		}
	}
	h.respondError(ctx, domain.ErrUserNotFound)
}

// @Summary Start editing a user
// @Tags users
// @Router /api/v1/users/{id}/edit [post]
func (h *UserHandler) BeginEdit(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx, "id")
	if !ok {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	r, ok := h.roster(ctx, stdCtx, false)
	if !ok {
		return
	}
	draft, err := r.BeginEdit(id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, draft)
}

// @Summary Show the edit buffer
// @Tags users
// @Router /api/v1/roster/draft [get]
func (h *UserHandler) Draft(ctx *fasthttp.RequestCtx) {
	op, ok := h.operator(ctx)
	if !ok {
		return
	}
	draft, editing := h.workspaces.For(op.UserID).Draft()
	if !editing {
		h.respondError(ctx, domain.ErrNotEditing)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, draft)
}

// @Summary Change fields of the edit buffer
// @Tags users
// @Router /api/v1/roster/draft [patch]
func (h *UserHandler) Edit(ctx *fasthttp.RequestCtx) {
	op, ok := h.operator(ctx)
	if !ok {
		return
	}
	var req transport.UserPatchRequest
	if !h.decode(ctx, &req) {
		return
	}
	draft, err := h.workspaces.For(op.UserID).Edit(patchFrom(req))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, draft)
}

// @Summary Discard the edit buffer
// @Tags users
// @Router /api/v1/roster/draft [delete]
func (h *UserHandler) Cancel(ctx *fasthttp.RequestCtx) {
	op, ok := h.operator(ctx)
	if !ok {
		return
	}
	if err := h.workspaces.For(op.UserID).Cancel(); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, nil)
}

// @Summary Save the edit buffer
// @Tags users
// @Router /api/v1/roster/draft/save [post]
func (h *UserHandler) Save(ctx *fasthttp.RequestCtx) {
	op, ok := h.operator(ctx)
	if !ok {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	saved, err := h.workspaces.For(op.UserID).Save(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, saved)
}

// @Summary Edit and save one user in a single call
// @Tags users
// @Router /api/v1/users/{id} [put]
func (h *UserHandler) Update(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx, "id")
	if !ok {
		return
	}
	var req transport.UserPatchRequest
	if !h.decode(ctx, &req) {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	r, ok := h.roster(ctx, stdCtx, false)
	if !ok {
		return
	}
	saved, err := r.Update(stdCtx, id, patchFrom(req))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, saved)
}

// @Summary Set the role of several users at once
// @Tags users
// @Router /api/v1/roster/roles [post]
func (h *UserHandler) BulkSetRole(ctx *fasthttp.RequestCtx) {
	var req transport.BulkRoleRequest
	if !h.decode(ctx, &req) {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	r, ok := h.roster(ctx, stdCtx, false)
	if !ok {
		return
	}
	updated, err := r.BulkSetRole(stdCtx, req.IDs, req.Role)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondList(ctx, updated, len(updated))
}

// @Summary Deactivate a user (soft delete)
// @Tags users
// @Router /api/v1/users/{id}/deactivate [post]
func (h *UserHandler) Deactivate(ctx *fasthttp.RequestCtx) {
	h.setActive(ctx, false)
}

// @Summary Reactivate a user
// @Tags users
// @Router /api/v1/users/{id}/reactivate [post]
func (h *UserHandler) Reactivate(ctx *fasthttp.RequestCtx) {
	h.setActive(ctx, true)
}

func (h *UserHandler) setActive(ctx *fasthttp.RequestCtx, active bool) {
	id, ok := h.pathID(ctx, "id")
	if !ok {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	r, ok := h.roster(ctx, stdCtx, false)
	if !ok {
		return
	}
	user, err := r.SetActive(stdCtx, id, active)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, user)
}

func patchFrom(req transport.UserPatchRequest) roster.Patch {
	return roster.Patch{
		Email:    req.Email,
		FullName: req.FullName,
		Nickname: req.Nickname,
		Role:     req.Role,
		IsActive: req.IsActive,
	}
}
