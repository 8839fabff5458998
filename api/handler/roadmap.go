package handler

import (
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/trackdesk/api/transport"
	"github.com/fastygo/trackdesk/domain"
	"github.com/fastygo/trackdesk/pkg/httpcontext"
	roadmapUC "github.com/fastygo/trackdesk/usecase/roadmap"
)

type RoadmapHandler struct {
	baseHandler
	uc  *roadmapUC.UseCase
	now func() time.Time
}

func NewRoadmapHandler(uc *roadmapUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *RoadmapHandler {
	return &RoadmapHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		now:         time.Now,
	}
}

// @Summary Selectable quarter labels
// @Tags roadmap
// @Router /api/v1/roadmap/quarters [get]
func (h *RoadmapHandler) Quarters(ctx *fasthttp.RequestCtx) {
	labels := h.uc.Quarters(h.now())
	h.respondList(ctx, labels, len(labels))
}

// @Summary Roadmap grouped by quarter
// @Tags roadmap
// @Router /api/v1/roadmap/board [get]
func (h *RoadmapHandler) Board(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	board, err := h.uc.Board(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, board)
}

// @Summary List roadmap items
// @Tags roadmap
// @Router /api/v1/roadmap/items [get]
func (h *RoadmapHandler) List(ctx *fasthttp.RequestCtx) {
	filter := roadmapUC.Filter{
		Quarter: query(ctx, "quarter"),
		Status:  domain.RoadmapStatus(query(ctx, "status")),
		Search:  query(ctx, "search"),
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	items, err := h.uc.List(stdCtx, filter)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondList(ctx, items, len(items))
}

// @Summary Get roadmap item
// @Tags roadmap
// @Router /api/v1/roadmap/items/{id} [get]
func (h *RoadmapHandler) Get(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx, "id")
	if !ok {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	item, err := h.uc.Get(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, item)
}

// @Summary Create roadmap item
// @Tags roadmap
// @Router /api/v1/roadmap/items [post]
func (h *RoadmapHandler) Create(ctx *fasthttp.RequestCtx) {
	item, ok := h.parseItem(ctx)
	if !ok {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.Create(stdCtx, item)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Update roadmap item
// @Tags roadmap
// @Router /api/v1/roadmap/items/{id} [put]
func (h *RoadmapHandler) Update(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx, "id")
	if !ok {
		return
	}
	item, ok := h.parseItem(ctx)
	if !ok {
		return
	}
	item.ID = id

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.Update(stdCtx, item)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Delete roadmap item
// @Tags roadmap
// @Router /api/v1/roadmap/items/{id} [delete]
func (h *RoadmapHandler) Delete(ctx *fasthttp.RequestCtx) {
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

func (h *RoadmapHandler) parseItem(ctx *fasthttp.RequestCtx) (*domain.RoadmapItem, bool) {
	var req transport.RoadmapItemRequest
	if !h.decode(ctx, &req) {
		return nil, false
	}
	return &domain.RoadmapItem{
		Title:            req.Title,
		Description:      req.Description,
		Quarter:          req.Quarter,
		Status:           domain.RoadmapStatus(req.Status),
		FeatureRequestID: req.FeatureRequestID,
		Position:         req.Position,
	}, true
}
