package types

// GeneratedFile is one filename/content pair extracted from an LLM response.
type GeneratedFile struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

// FileMap holds the working set of generated files for one run, keyed by
// filename. Later pipeline stages may overwrite entries in place before the
// map is written to disk.
type FileMap map[string]string

// Filenames returns the keys of the map. Order is not significant.
func (m FileMap) Filenames() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	return names
}

// GenerationResult is the outcome of one full orchestration run.
// MissingRequired may be non-empty even on success: completeness is
// attempted, never guaranteed.
type GenerationResult struct {
	SessionID       string   `json:"sessionId"`
	Files           []string `json:"files"`
	RequiresBackend bool     `json:"requiresBackend"`
	MissingRequired []string `json:"missingRequired,omitempty"`
	Refinement      bool     `json:"refinement"`
}
