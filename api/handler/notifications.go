package handler

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/trackdesk/api/transport"
	"github.com/fastygo/trackdesk/pkg/httpcontext"
)

// UnreadCounter is a live unread-mention count bound to one operator.
type UnreadCounter interface {
	Start(ctx context.Context) error
	Stop()
	Updates() <-chan int
}

// UnreadSource answers one-off unread-count queries.
type UnreadSource interface {
	UnreadCount(ctx context.Context, recipientID string) (int, error)
}

// CounterFactory opens a counter for recipientID.
type CounterFactory func(recipientID string) UnreadCounter

type NotificationHandler struct {
	baseHandler
	source     UnreadSource
	newCounter CounterFactory
	heartbeat  time.Duration
}

func NewNotificationHandler(source UnreadSource, newCounter CounterFactory, heartbeat time.Duration, adapter *httpcontext.Adapter, logger *zap.Logger) *NotificationHandler {
	if heartbeat <= 0 {
		heartbeat = 25 * time.Second
	}
	return &NotificationHandler{
		baseHandler: newBaseHandler(adapter, logger),
		source:      source,
		newCounter:  newCounter,
		heartbeat:   heartbeat,
	}
}

// @Summary Unread mention count
// @Tags notifications
// @Router /api/v1/notifications/unread [get]
func (h *NotificationHandler) Unread(ctx *fasthttp.RequestCtx) {
	op, ok := h.operator(ctx)
	if !ok {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	n, err := h.source.UnreadCount(stdCtx, op.UserID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.UnreadCount{Count: n})
}

// @Summary Stream the unread mention count as server-sent events
// @Tags notifications
// @Router /api/v1/notifications/stream [get]
func (h *NotificationHandler) Stream(ctx *fasthttp.RequestCtx) {
	op, ok := h.operator(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.adapter.AttachStream(ctx)
	counter := h.newCounter(op.UserID)
	if err := counter.Start(stdCtx); err != nil {
		cancel()
		counter.Stop()
		h.respondError(ctx, err)
		return
	}

	ctx.Response.Header.SetContentType("text/event-stream")
	ctx.Response.Header.Set("Cache-Control", "no-cache")
	ctx.Response.Header.Set("Connection", "keep-alive")
	ctx.Response.Header.Set("X-Accel-Buffering", "no")
	ctx.SetStatusCode(http.StatusOK)

	log := h.log(stdCtx).With(zap.String("user_id", op.UserID))
	ctx.SetBodyStreamWriter(func(w *bufio.Writer) {
		defer cancel()
		defer counter.Stop()

		ticker := time.NewTicker(h.heartbeat)
		defer ticker.Stop()

		for {
			select {
			case n, open := <-counter.Updates():
				if !open {
					return
				}
				if err := writeEvent(w, "unread", transport.UnreadCount{Count: n}); err != nil {
					log.Debug("notification stream closed", zap.Error(err))
					return
				}
			case <-ticker.C:
				if _, err := w.WriteString(": ping\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					log.Debug("notification stream closed", zap.Error(err))
					return
				}
			}
		}
	})
}

func writeEvent(w *bufio.Writer, event string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	return w.Flush()
}
