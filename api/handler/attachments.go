package handler

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/trackdesk/domain"
	"github.com/fastygo/trackdesk/pkg/httpcontext"
	attachmentUC "github.com/fastygo/trackdesk/usecase/attachment"
)

type AttachmentHandler struct {
	baseHandler
	uc      *attachmentUC.UseCase
	maxSize int64
}

func NewAttachmentHandler(uc *attachmentUC.UseCase, maxSize int64, adapter *httpcontext.Adapter, logger *zap.Logger) *AttachmentHandler {
	if maxSize <= 0 {
		maxSize = attachmentUC.DefaultMaxSize
	}
	return &AttachmentHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		maxSize:     maxSize,
	}
}

// @Summary List a bug's attachments
// @Tags attachments
// @Router /api/v1/bugs/{id}/attachments [get]
func (h *AttachmentHandler) List(ctx *fasthttp.RequestCtx) {
	bugID, ok := h.pathID(ctx, "id")
	if !ok {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	list, err := h.uc.List(stdCtx, bugID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondList(ctx, list, len(list))
}

// @Summary Upload an attachment (multipart field "file")
// @Tags attachments
// @Router /api/v1/bugs/{id}/attachments [post]
func (h *AttachmentHandler) Upload(ctx *fasthttp.RequestCtx) {
	bugID, ok := h.pathID(ctx, "id")
	if !ok {
		return
	}

	header, err := ctx.FormFile("file")
	if err != nil {
		h.respondInvalid(ctx, "multipart field \"file\" is required")
		return
	}
	if header.Size > h.maxSize {
		h.respondError(ctx, domain.ErrAttachmentTooLarge)
		return
	}
	f, err := header.Open()
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	defer f.Close()

	// one extra byte so the use case can see an oversized body
	data, err := io.ReadAll(io.LimitReader(f, h.maxSize+1))
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	meta, err := h.uc.Upload(stdCtx, bugID, header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, meta)
}

// @Summary Download an attachment
// @Tags attachments
// @Router /api/v1/attachments/{id} [get]
func (h *AttachmentHandler) Download(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx, "id")
	if !ok {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	meta, data, err := h.uc.Download(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	ctx.Response.Header.SetContentType(meta.ContentType)
	ctx.Response.Header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", strconv.Quote(meta.FileName)))
	ctx.SetStatusCode(http.StatusOK)
	ctx.SetBody(data)
}

// @Summary Delete an attachment
// @Tags attachments
// @Router /api/v1/attachments/{id} [delete]
func (h *AttachmentHandler) Delete(ctx *fasthttp.RequestCtx) {
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
