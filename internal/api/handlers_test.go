package api

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"site_ai_server/internal/site"
	"site_ai_server/internal/store"
	"site_ai_server/internal/types"
)

type fakeRunner struct {
	result *types.GenerationResult
	err    error
	prompt string
}

func (r *fakeRunner) Run(_ context.Context, prompt string) (*types.GenerationResult, error) {
	r.prompt = prompt
	return r.result, r.err
}

func newTestRouter(t *testing.T, runner GenerationRunner, dir string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h, err := store.NewHistory(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { h.Close() })

	router := gin.New()
	RegisterRoutes(router, NewAPIHandler(runner, site.NewWorkspace(dir), h))
	return router
}

func postGenerate(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/generate", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestGenerateSuccess(t *testing.T) {
	runner := &fakeRunner{result: &types.GenerationResult{
		SessionID: "abc-123",
		Files:     []string{"style.css", "index.html", "script.js"},
	}}
	router := newTestRouter(t, runner, t.TempDir())

	rec := postGenerate(router, `{"prompt": "cozy coffee shop"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp GenerateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "abc-123", resp.SessionID)
	assert.Equal(t, []string{"style.css", "index.html", "script.js"}, resp.FilesCreated)
	assert.Equal(t, "/output/index.html", resp.PreviewURL)
	assert.Equal(t, "cozy coffee shop", runner.prompt)
}

func TestGenerateRejectsEmptyPrompt(t *testing.T) {
	router := newTestRouter(t, &fakeRunner{}, t.TempDir())

	for _, body := range []string{`{}`, `{"prompt": ""}`, `{"prompt": "   "}`} {
		rec := postGenerate(router, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body: %s", body)
	}
}

func TestGenerateRejectsOverlongPrompt(t *testing.T) {
	router := newTestRouter(t, &fakeRunner{}, t.TempDir())

	long := strings.Repeat("a", maxPromptLength+1)
	rec := postGenerate(router, `{"prompt": "`+long+`"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGeneratePromptLengthCountsRunes(t *testing.T) {
	runner := &fakeRunner{result: &types.GenerationResult{SessionID: "abc", Files: []string{"index.html"}}}
	router := newTestRouter(t, runner, t.TempDir())

	// 600 two-byte runes: over the limit in bytes, well under it in
	// characters, so it must be accepted.
	rec := postGenerate(router, `{"prompt": "`+strings.Repeat("é", 600)+`"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = postGenerate(router, `{"prompt": "`+strings.Repeat("é", maxPromptLength+1)+`"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGeneratePipelineErrorIs500(t *testing.T) {
	runner := &fakeRunner{err: errors.New("initial generation failed: rate limit")}
	router := newTestRouter(t, runner, t.TempDir())

	rec := postGenerate(router, `{"prompt": "simple landing page"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "rate limit")
}

func TestDownloadZipEmptyWorkspaceIs404(t *testing.T) {
	router := newTestRouter(t, &fakeRunner{}, t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/download-zip", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDownloadZipStreamsArchive(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html></html>"), 0644))
	router := newTestRouter(t, &fakeRunner{}, dir)

	req := httptest.NewRequest(http.MethodGet, "/download-zip", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/zip", rec.Header().Get("Content-Type"))

	reader, err := zip.NewReader(bytes.NewReader(rec.Body.Bytes()), int64(rec.Body.Len()))
	require.NoError(t, err)
	require.Len(t, reader.File, 1)
	assert.Equal(t, "index.html", reader.File[0].Name)
}

func TestServeGeneratedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>Blooms</h1>"), 0644))
	router := newTestRouter(t, &fakeRunner{}, dir)

	// index.html must come back directly, never as a redirect to /output/.
	req := httptest.NewRequest(http.MethodGet, "/output/index.html", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Location"))
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "Blooms")
}

func TestServeGeneratedFileMissingIs404(t *testing.T) {
	router := newTestRouter(t, &fakeRunner{}, t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/output/missing.html", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFilesListing(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html></html>"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "style.css"), []byte("body {}"), 0644))
	router := newTestRouter(t, &fakeRunner{}, dir)

	req := httptest.NewRequest(http.MethodGet, "/files", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Files []types.GeneratedFile `json:"files"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Files, 2)
	assert.Equal(t, "index.html", resp.Files[0].Filename)
	assert.Equal(t, "<html></html>", resp.Files[0].Content)
}

func TestHistoryEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h, err := store.NewHistory(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { h.Close() })

	id, err := h.CreateWebsite("flower shop with orders", []string{"index.html"})
	require.NoError(t, err)
	require.NoError(t, h.AddPromptHistory(id, "flower shop with orders", store.PromptTypeInitial))

	router := gin.New()
	RegisterRoutes(router, NewAPIHandler(&fakeRunner{}, site.NewWorkspace(t.TempDir()), h))

	req := httptest.NewRequest(http.MethodGet, "/history", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		History []store.Prompt `json:"history"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.History, 1)
	assert.Equal(t, "flower shop with orders", resp.History[0].PromptText)
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t, &fakeRunner{}, t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}
