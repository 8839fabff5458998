package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/trackdesk/pkg/httpcontext"
	overviewUC "github.com/fastygo/trackdesk/usecase/overview"
)

type OverviewHandler struct {
	baseHandler
	uc *overviewUC.UseCase
}

func NewOverviewHandler(uc *overviewUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *OverviewHandler {
	return &OverviewHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Dashboard counts
// @Tags overview
// @Router /api/v1/overview [get]
func (h *OverviewHandler) Summary(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	s, err := h.uc.Summary(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, s)
}
