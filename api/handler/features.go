package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/trackdesk/api/transport"
	"github.com/fastygo/trackdesk/domain"
	"github.com/fastygo/trackdesk/pkg/httpcontext"
	featureUC "github.com/fastygo/trackdesk/usecase/feature"
	roadmapUC "github.com/fastygo/trackdesk/usecase/roadmap"
)

type FeatureHandler struct {
	baseHandler
	uc      *featureUC.UseCase
	roadmap *roadmapUC.UseCase
}

func NewFeatureHandler(uc *featureUC.UseCase, roadmap *roadmapUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *FeatureHandler {
	return &FeatureHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		roadmap:     roadmap,
	}
}

// @Summary List feature requests
// @Tags features
// @Router /api/v1/features [get]
func (h *FeatureHandler) List(ctx *fasthttp.RequestCtx) {
	filter := featureUC.Filter{
		Status:      domain.FeatureStatus(query(ctx, "status")),
		RequesterID: query(ctx, "requester_id"),
		Search:      query(ctx, "search"),
		Sort:        featureUC.SortKey(query(ctx, "sort")),
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	list, err := h.uc.List(stdCtx, filter)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondList(ctx, list, len(list))
}

// @Summary Get feature request
// @Tags features
// @Router /api/v1/features/{id} [get]
func (h *FeatureHandler) Get(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx, "id")
	if !ok {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	fr, err := h.uc.Get(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, fr)
}

// @Summary Submit a feature request
// @Tags features
// @Router /api/v1/features [post]
func (h *FeatureHandler) Create(ctx *fasthttp.RequestCtx) {
	op, ok := h.operator(ctx)
	if !ok {
		return
	}
	var req transport.FeatureRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.Create(stdCtx, &domain.FeatureRequest{
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.FeatureStatus(req.Status),
		RequesterID: op.UserID,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Update feature request
// @Tags features
// @Router /api/v1/features/{id} [put]
func (h *FeatureHandler) Update(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx, "id")
	if !ok {
		return
	}
	var req transport.FeatureRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.Update(stdCtx, &domain.FeatureRequest{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.FeatureStatus(req.Status),
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Move a feature request to another status
// @Tags features
// @Router /api/v1/features/{id}/status [put]
func (h *FeatureHandler) SetStatus(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx, "id")
	if !ok {
		return
	}
	var req transport.StatusRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	fr, err := h.uc.SetStatus(stdCtx, id, domain.FeatureStatus(req.Status))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, fr)
}

// @Summary Delete feature request
// @Tags features
// @Router /api/v1/features/{id} [delete]
func (h *FeatureHandler) Delete(ctx *fasthttp.RequestCtx) {
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

// @Summary Vote for a feature request
// @Tags features
// @Router /api/v1/features/{id}/vote [post]
func (h *FeatureHandler) Vote(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx, "id")
	if !ok {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	votes, err := h.uc.Vote(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]int{"votes": votes})
}

// @Summary Schedule a feature request on the roadmap
// @Tags features
// @Router /api/v1/features/{id}/promote [post]
func (h *FeatureHandler) Promote(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx, "id")
	if !ok {
		return
	}
	var req transport.PromoteRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	item, err := h.roadmap.Promote(stdCtx, id, req.Quarter)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, item)
}
