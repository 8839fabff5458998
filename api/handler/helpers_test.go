package handler

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/fastygo/trackdesk/domain"
	"github.com/fastygo/trackdesk/pkg/httpcontext"
)

var testAdapter = httpcontext.NewAdapter(time.Second)

type envelope struct {
	Status string          `json:"status"`
	Code   string          `json:"code"`
	Data   json.RawMessage `json:"data"`
	Error  json.RawMessage `json:"error"`
	Meta   json.RawMessage `json:"meta"`
}

// newCtx builds a request for handler tests. params become route values.
func newCtx(method string, body string, params map[string]string) *fasthttp.RequestCtx {
	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI("/test")
	if body != "" {
		ctx.Request.Header.SetContentType("application/json")
		ctx.Request.SetBodyString(body)
	}
	for k, v := range params {
		ctx.SetUserValue(k, v)
	}
	return &ctx
}

func as(ctx *fasthttp.RequestCtx, userID string, role domain.Role) *fasthttp.RequestCtx {
	httpcontext.SetOperator(ctx, httpcontext.Operator{UserID: userID, Role: role, SessionID: "sess-" + userID})
	return ctx
}

func readEnvelope(t *testing.T, ctx *fasthttp.RequestCtx) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &env), string(ctx.Response.Body()))
	return env
}

func readData(t *testing.T, ctx *fasthttp.RequestCtx, dst interface{}) envelope {
	t.Helper()
	env := readEnvelope(t, ctx)
	require.Equal(t, "success", env.Status, string(ctx.Response.Body()))
	require.NoError(t, json.Unmarshal(env.Data, dst))
	return env
}
