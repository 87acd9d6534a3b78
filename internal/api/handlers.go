package api

import (
	"context"
	"log"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"site_ai_server/internal/site"
	"site_ai_server/internal/store"
	"site_ai_server/internal/types"
)

// maxPromptLength bounds user prompts; anything longer is rejected before it
// reaches the completion API.
const maxPromptLength = 1000

// GenerationRunner runs one full site generation. *pipeline.Pipeline
// implements it.
type GenerationRunner interface {
	Run(ctx context.Context, prompt string) (*types.GenerationResult, error)
}

// HistoryReader exposes the stored prompt history. *store.History implements
// it; may be nil when no history store is configured.
type HistoryReader interface {
	AllPromptHistory() ([]store.Prompt, error)
}

// APIHandler holds dependencies for API endpoints.
type APIHandler struct {
	runner    GenerationRunner
	workspace *site.Workspace
	history   HistoryReader
}

// NewAPIHandler initializes a new API handler with its dependencies.
func NewAPIHandler(runner GenerationRunner, workspace *site.Workspace, history HistoryReader) *APIHandler {
	return &APIHandler{
		runner:    runner,
		workspace: workspace,
		history:   history,
	}
}

// --- Structs for API Requests/Responses ---

type GenerateRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

type GenerateResponse struct {
	SessionID       string   `json:"session_id"`
	FilesCreated    []string `json:"files_created"`
	PreviewURL      string   `json:"preview_url,omitempty"`
	RequiresBackend bool     `json:"requires_backend"`
	MissingRequired []string `json:"missing_required,omitempty"`
	Refinement      bool     `json:"refinement"`
}

// --- API Handlers ---

// POST /generate
func (h *APIHandler) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prompt must not be empty"})
		return
	}
	if utf8.RuneCountInString(prompt) > maxPromptLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prompt too long"})
		return
	}

	log.Printf("Received generation request (%d chars)", len(prompt))

	result, err := h.runner.Run(c.Request.Context(), prompt)
	if err != nil {
		log.Printf("Error generating site: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, GenerateResponse{
		SessionID:       result.SessionID,
		FilesCreated:    result.Files,
		PreviewURL:      previewURL(result.Files),
		RequiresBackend: result.RequiresBackend,
		MissingRequired: result.MissingRequired,
		Refinement:      result.Refinement,
	})
}

// previewURL points at the first HTML file, alphabetically, or is empty.
func previewURL(files []string) string {
	sorted := append([]string{}, files...)
	sort.Strings(sorted)
	for _, name := range sorted {
		if strings.HasSuffix(name, ".html") {
			return "/output/" + name
		}
	}
	return ""
}

// GET /output/:filename
// Serves one generated file directly. http.FileServer is deliberately not
// used here: it 301-redirects any path ending in /index.html, which would
// break the preview_url returned by Generate.
func (h *APIHandler) ServeOutput(c *gin.Context) {
	name := filepath.Base(c.Param("filename"))
	data, err := os.ReadFile(filepath.Join(h.workspace.Dir(), name))
	if err != nil {
		if os.IsNotExist(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
			return
		}
		log.Printf("Error reading output file %s: %v", name, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
		return
	}

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	c.Data(http.StatusOK, contentType, data)
}

// GET /files
func (h *APIHandler) Files(c *gin.Context) {
	priorFiles, err := h.workspace.PriorFiles()
	if err != nil {
		log.Printf("Error reading workspace files: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read generated files"})
		return
	}

	names := priorFiles.Filenames()
	sort.Strings(names)
	files := make([]types.GeneratedFile, 0, len(names))
	for _, name := range names {
		files = append(files, types.GeneratedFile{Filename: name, Content: priorFiles[name]})
	}
	c.JSON(http.StatusOK, gin.H{"files": files})
}

// GET /download-zip
func (h *APIHandler) DownloadZip(c *gin.Context) {
	if !h.workspace.HasPriorFiles() {
		c.JSON(http.StatusNotFound, gin.H{"error": "No generated website to download"})
		return
	}

	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", `attachment; filename="website.zip"`)
	if err := h.workspace.Zip(c.Writer); err != nil {
		log.Printf("Error streaming zip archive: %v", err)
	}
}

// GET /history
func (h *APIHandler) History(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusOK, gin.H{"history": []store.Prompt{}})
		return
	}

	records, err := h.history.AllPromptHistory()
	if err != nil {
		log.Printf("Error reading prompt history: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read history"})
		return
	}
	if records == nil {
		records = []store.Prompt{}
	}
	c.JSON(http.StatusOK, gin.H{"history": records})
}

// GET /health
func (h *APIHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
