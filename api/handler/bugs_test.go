package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/fastygo/trackdesk/domain"
	"github.com/fastygo/trackdesk/internal/testutil"
	attachmentUC "github.com/fastygo/trackdesk/usecase/attachment"
	bugUC "github.com/fastygo/trackdesk/usecase/bug"
)

func TestBugCreateAndList(t *testing.T) {
	bugs := testutil.NewBugs()
	h := NewBugHandler(bugUC.New(bugs, testutil.NewAttachments(), nil), testAdapter, nil)

	ctx := as(newCtx(http.MethodPost, `{"title":"  Login page blank ","assignee_id":"bob"}`, nil), "alice", domain.RoleAdmin)
	h.Create(ctx)
	require.Equal(t, http.StatusCreated, ctx.Response.StatusCode())
	var created domain.Bug
	readData(t, ctx, &created)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Login page blank", created.Title)
	assert.Equal(t, "alice", created.ReporterID)
	assert.Equal(t, domain.BugOpen, created.Status)
	assert.Equal(t, domain.PriorityMedium, created.Priority)

	ctx = as(newCtx(http.MethodPost, `{"title":"Crash on save","priority":"critical"}`, nil), "alice", domain.RoleAdmin)
	h.Create(ctx)
	require.Equal(t, http.StatusCreated, ctx.Response.StatusCode())

	ctx = as(newCtx(http.MethodGet, "", nil), "bob", domain.RoleDeveloper)
	ctx.Request.SetRequestURI("/api/v1/bugs?assignee_id=me")
	h.List(ctx)
	var list []domain.Bug
	readData(t, ctx, &list)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	ctx = as(newCtx(http.MethodGet, "", nil), "bob", domain.RoleDeveloper)
	ctx.Request.SetRequestURI("/api/v1/bugs?priority=critical")
	h.List(ctx)
	readData(t, ctx, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "Crash on save", list[0].Title)
}

func TestBugCreateRejectsInvalid(t *testing.T) {
	h := NewBugHandler(bugUC.New(testutil.NewBugs(), testutil.NewAttachments(), nil), testAdapter, nil)

	ctx := as(newCtx(http.MethodPost, `{"title":"   "}`, nil), "alice", domain.RoleAdmin)
	h.Create(ctx)
	assert.Equal(t, http.StatusBadRequest, ctx.Response.StatusCode())

	ctx = as(newCtx(http.MethodPost, `{"title":"x","status":"wontfix"}`, nil), "alice", domain.RoleAdmin)
	h.Create(ctx)
	assert.Equal(t, http.StatusBadRequest, ctx.Response.StatusCode())

	ctx = newCtx(http.MethodPost, `{"title":"x"}`, nil)
	h.Create(ctx)
	assert.Equal(t, http.StatusUnauthorized, ctx.Response.StatusCode())
}

func TestBugGetAndDelete(t *testing.T) {
	bugs := testutil.NewBugs(domain.Bug{ID: "b1", Title: "Crash", Status: domain.BugOpen, Priority: domain.PriorityLow, ReporterID: "alice"})
	h := NewBugHandler(bugUC.New(bugs, testutil.NewAttachments(), nil), testAdapter, nil)

	ctx := newCtx(http.MethodGet, "", map[string]string{"id": "b1"})
	h.Get(ctx)
	assert.Equal(t, http.StatusOK, ctx.Response.StatusCode())

	ctx = newCtx(http.MethodDelete, "", map[string]string{"id": "b1"})
	h.Delete(ctx)
	assert.Equal(t, http.StatusOK, ctx.Response.StatusCode())

	ctx = newCtx(http.MethodGet, "", map[string]string{"id": "b1"})
	h.Get(ctx)
	assert.Equal(t, http.StatusNotFound, ctx.Response.StatusCode())
}

func multipartCtx(t *testing.T, field, name string, data []byte) *fasthttp.RequestCtx {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	ctx := newCtx(http.MethodPost, "", map[string]string{"id": "b1"})
	ctx.Request.Header.SetContentType(w.FormDataContentType())
	ctx.Request.SetBody(body.Bytes())
	return ctx
}

func TestAttachmentUploadAndDownload(t *testing.T) {
	bugs := testutil.NewBugs(domain.Bug{ID: "b1", Title: "Crash", Status: domain.BugOpen, Priority: domain.PriorityLow, ReporterID: "alice"})
	store := testutil.NewAttachments()
	h := NewAttachmentHandler(attachmentUC.New(bugs, store, 64, nil), 64, testAdapter, nil)

	ctx := multipartCtx(t, "file", "trace.txt", []byte("panic: nil map"))
	h.Upload(ctx)
	require.Equal(t, http.StatusCreated, ctx.Response.StatusCode(), string(ctx.Response.Body()))
	var meta domain.Attachment
	readData(t, ctx, &meta)
	assert.Equal(t, "b1", meta.BugID)
	assert.Equal(t, "trace.txt", meta.FileName)
	assert.Equal(t, int64(14), meta.Size)
	assert.Contains(t, meta.ContentType, "text/plain")

	ctx = newCtx(http.MethodGet, "", map[string]string{"id": "b1"})
	h.List(ctx)
	var list []domain.Attachment
	readData(t, ctx, &list)
	assert.Len(t, list, 1)

	ctx = newCtx(http.MethodGet, "", map[string]string{"id": meta.ID})
	h.Download(ctx)
	require.Equal(t, http.StatusOK, ctx.Response.StatusCode())
	assert.Equal(t, "panic: nil map", string(ctx.Response.Body()))
	assert.Equal(t, `attachment; filename="trace.txt"`, string(ctx.Response.Header.Peek("Content-Disposition")))

	ctx = newCtx(http.MethodDelete, "", map[string]string{"id": meta.ID})
	h.Delete(ctx)
	assert.Equal(t, http.StatusOK, ctx.Response.StatusCode())

	ctx = newCtx(http.MethodGet, "", map[string]string{"id": meta.ID})
	h.Download(ctx)
	assert.Equal(t, http.StatusNotFound, ctx.Response.StatusCode())
}

func TestAttachmentUploadRejections(t *testing.T) {
	bugs := testutil.NewBugs(domain.Bug{ID: "b1", Title: "Crash", Status: domain.BugOpen, Priority: domain.PriorityLow, ReporterID: "alice"})
	h := NewAttachmentHandler(attachmentUC.New(bugs, testutil.NewAttachments(), 8, nil), 8, testAdapter, nil)

	ctx := multipartCtx(t, "file", "big.bin", bytes.Repeat([]byte("x"), 32))
	h.Upload(ctx)
	assert.Equal(t, http.StatusBadRequest, ctx.Response.StatusCode())

	ctx = multipartCtx(t, "upload", "a.txt", []byte("hi"))
	h.Upload(ctx)
	assert.Equal(t, http.StatusBadRequest, ctx.Response.StatusCode())

	ctx = multipartCtx(t, "file", "a.txt", []byte("hi"))
	ctx.SetUserValue("id", "missing")
	h.Upload(ctx)
	assert.Equal(t, http.StatusNotFound, ctx.Response.StatusCode())
}
