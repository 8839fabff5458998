package httpcontext

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	"github.com/fastygo/trackdesk/domain"
	appLogger "github.com/fastygo/trackdesk/pkg/logger"
)

// Key represents a context value key exported for reuse.
type Key string

const (
	KeyRemoteAddr Key = "remote_addr"
	KeyUserAgent  Key = "user_agent"
	KeyOperator   Key = "operator"
)

// Operator is the authenticated caller, set on the fasthttp request by the
// auth middleware and copied into the request context by Attach.
type Operator struct {
	UserID    string
	Role      domain.Role
	SessionID string
}

// SetOperator stores op on the fasthttp request.
func SetOperator(ctx *fasthttp.RequestCtx, op Operator) {
	ctx.SetUserValue(string(KeyOperator), op)
}

// OperatorFrom returns the operator stored on the fasthttp request.
func OperatorFrom(ctx *fasthttp.RequestCtx) (Operator, bool) {
	op, ok := ctx.UserValue(string(KeyOperator)).(Operator)
	return op, ok && op.UserID != ""
}

// OperatorFromContext returns the operator attached to a request context.
func OperatorFromContext(ctx context.Context) (Operator, bool) {
	op, ok := ctx.Value(KeyOperator).(Operator)
	return op, ok && op.UserID != ""
}

// Adapter converts fasthttp.RequestCtx into a stdlib context with deadlines and metadata.
type Adapter struct {
	timeout time.Duration
}

// NewAdapter constructs a new Adapter using the provided timeout.
func NewAdapter(timeout time.Duration) *Adapter {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Adapter{
		timeout: timeout,
	}
}

// Attach creates a context with timeout derived from the adapter and enriches it with request metadata.
func (a *Adapter) Attach(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	stdCtx, cancel := context.WithTimeout(context.Background(), a.timeout)
	return a.enrich(stdCtx, ctx), cancel
}

// AttachStream is Attach without the deadline, for long-lived responses
// such as event streams.
func (a *Adapter) AttachStream(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	stdCtx, cancel := context.WithCancel(context.Background())
	return a.enrich(stdCtx, ctx), cancel
}

func (a *Adapter) enrich(stdCtx context.Context, ctx *fasthttp.RequestCtx) context.Context {
	reqID := getRequestID(ctx)
	stdCtx = appLogger.ContextWithRequestID(stdCtx, reqID)
	if ctx == nil {
		return stdCtx
	}
	ctx.Response.Header.Set("X-Request-ID", reqID)

	if remoteAddr := ctx.RemoteAddr(); remoteAddr != nil {
		stdCtx = context.WithValue(stdCtx, KeyRemoteAddr, remoteAddr.String())
	}
	if ua := string(ctx.Request.Header.UserAgent()); ua != "" {
		stdCtx = context.WithValue(stdCtx, KeyUserAgent, ua)
	}
	if op, ok := OperatorFrom(ctx); ok {
		stdCtx = context.WithValue(stdCtx, KeyOperator, op)
	}
	return stdCtx
}

func getRequestID(ctx *fasthttp.RequestCtx) string {
	if ctx == nil {
		return uuid.NewString()
	}
	if header := strings.TrimSpace(string(ctx.Request.Header.Peek("X-Request-ID"))); header != "" {
		return header
	}
	return uuid.NewString()
}
