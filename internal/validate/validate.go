package validate

import (
	"strings"

	"site_ai_server/internal/types"
)

// Missing-artifact labels. The gap-fill prompt builder keys off these, so
// they are part of the pipeline's internal contract.
const (
	MissingHTML     = "HTML file"
	MissingCSS      = "CSS file"
	MissingFlask    = "Flask backend (app.py)"
	MissingDatabase = "Database files (database.py or schema.sql)"
)

// requirement maps an abstract artifact category to a predicate over the
// generated file map.
type requirement struct {
	label       string
	backendOnly bool
	satisfied   func(files types.FileMap) bool
}

var requirements = []requirement{
	{
		label: MissingHTML,
		satisfied: func(files types.FileMap) bool {
			return anyFilenameContains(files, "html")
		},
	},
	{
		label: MissingCSS,
		satisfied: func(files types.FileMap) bool {
			return anyFilenameContains(files, "css")
		},
	},
	{
		label:       MissingFlask,
		backendOnly: true,
		satisfied: func(files types.FileMap) bool {
			for name, content := range files {
				if strings.Contains(name, "app.py") {
					return true
				}
				if strings.Contains(strings.ToLower(content), "flask") &&
					strings.Contains(content, "from flask import") {
					return true
				}
			}
			return false
		},
	},
	{
		label:       MissingDatabase,
		backendOnly: true,
		satisfied: func(files types.FileMap) bool {
			return anyFilenameContains(files, "schema.sql") ||
				anyFilenameContains(files, "database.py")
		},
	},
}

// Files checks the generated file map against the required artifact
// categories and returns whether it is complete plus the list of missing
// category labels. Backend-only requirements are skipped for frontend-only
// requests. Pure function, no side effects.
func Files(files types.FileMap, requiresBackend bool) (bool, []string) {
	var missing []string
	for _, req := range requirements {
		if req.backendOnly && !requiresBackend {
			continue
		}
		if !req.satisfied(files) {
			missing = append(missing, req.label)
		}
	}
	return len(missing) == 0, missing
}

func anyFilenameContains(files types.FileMap, substr string) bool {
	for name := range files {
		if strings.Contains(strings.ToLower(name), substr) {
			return true
		}
	}
	return false
}
