package utils

import (
	"errors"
	"path/filepath"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// ShouldRetry reports whether a completion error looks transient (rate
// limits, upstream 5xx, timeouts). The pipeline retries such calls once.
func ShouldRetry(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "rate limit") ||
		strings.Contains(errMsg, "500 internal server error") ||
		strings.Contains(errMsg, "502 bad gateway") ||
		strings.Contains(errMsg, "503 service unavailable") ||
		strings.Contains(errMsg, "504 gateway timeout") ||
		strings.Contains(errMsg, "timeout") ||
		strings.Contains(errMsg, "connection reset by peer") {
		return true
	}
	var openAIErr *openai.APIError
	if errors.As(err, &openAIErr) {
		if openAIErr.HTTPStatusCode >= 500 || openAIErr.HTTPStatusCode == 429 {
			return true
		}
	}
	return false
}

// DetermineFileType maps a generated filename to a coarse type label used in
// logs and the history records.
func DetermineFileType(filename string) string {
	switch filepath.Ext(strings.ToLower(filename)) {
	case ".html":
		return "HTML"
	case ".css":
		return "CSS"
	case ".js":
		return "JavaScript"
	case ".py":
		return "Python"
	case ".sql":
		return "SQL"
	case ".vue":
		return "Vue"
	case ".example", ".env":
		return "Env"
	case ".txt":
		return "Text"
	case ".json":
		return "JSON"
	default:
		return "Unknown"
	}
}
