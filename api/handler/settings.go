package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/trackdesk/domain"
	"github.com/fastygo/trackdesk/pkg/httpcontext"
	settingsUC "github.com/fastygo/trackdesk/usecase/settings"
)

type SettingsHandler struct {
	baseHandler
	uc *settingsUC.UseCase
}

func NewSettingsHandler(uc *settingsUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary General settings
// @Tags settings
// @Router /api/v1/settings/general [get]
func (h *SettingsHandler) General(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	s, err := h.uc.General(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, s)
}

// @Summary Save general settings
// @Tags settings
// @Router /api/v1/settings/general [put]
func (h *SettingsHandler) SaveGeneral(ctx *fasthttp.RequestCtx) {
	var req domain.GeneralSettings
	if !h.decode(ctx, &req) {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	saved, err := h.uc.SaveGeneral(stdCtx, req)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, saved)
}

// @Summary E-mail settings
// @Tags settings
// @Router /api/v1/settings/email [get]
func (h *SettingsHandler) Email(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	s, err := h.uc.Email(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, s)
}

// @Summary Save e-mail settings
// @Tags settings
// @Router /api/v1/settings/email [put]
func (h *SettingsHandler) SaveEmail(ctx *fasthttp.RequestCtx) {
	var req domain.EmailSettings
	if !h.decode(ctx, &req) {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	saved, err := h.uc.SaveEmail(stdCtx, req)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, saved)
}
