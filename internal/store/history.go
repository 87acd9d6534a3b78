package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Prompt history record types.
const (
	PromptTypeInitial    = "initial"
	PromptTypeRefinement = "refinement"
)

// History is the append-only prompt/result record store. Failures here never
// invalidate a generation; callers log and move on.
type History struct {
	db *sql.DB
}

// Website is one generated-site record with its prompt history.
type Website struct {
	ID        int64     `json:"id"`
	Prompt    string    `json:"prompt"`
	Files     []string  `json:"files_generated"`
	CreatedAt time.Time `json:"created_at"`
	History   []Prompt  `json:"history,omitempty"`
}

// Prompt is one prompt-history row.
type Prompt struct {
	WebsiteID  int64     `json:"website_id,omitempty"`
	PromptText string    `json:"prompt_text"`
	PromptType string    `json:"prompt_type"`
	CreatedAt  time.Time `json:"created_at"`
	Files      []string  `json:"files_generated,omitempty"`
}

// NewHistory opens (creating if needed) the SQLite history database.
func NewHistory(dbPath string) (*History, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=10000", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// Single writer keeps things simple; the whole system is serial anyway.
	db.SetMaxOpenConns(1)

	h := &History{db: db}
	if err := h.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	return h, nil
}

func (h *History) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS websites (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		prompt TEXT NOT NULL,
		files_generated TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS prompt_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		website_id INTEGER NOT NULL REFERENCES websites(id),
		prompt_text TEXT NOT NULL,
		prompt_type TEXT NOT NULL DEFAULT 'initial',
		created_at INTEGER NOT NULL
	);
	`
	_, err := h.db.Exec(schema)
	return err
}

func (h *History) Close() error { return h.db.Close() }

// CreateWebsite inserts a new website record and returns its id.
func (h *History) CreateWebsite(prompt string, filenames []string) (int64, error) {
	encoded, err := json.Marshal(filenames)
	if err != nil {
		return 0, err
	}
	now := time.Now().Unix()
	res, err := h.db.Exec(
		`INSERT INTO websites (prompt, files_generated, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		prompt, string(encoded), now, now,
	)
	if err != nil {
		return 0, fmt.Errorf("creating website record: %w", err)
	}
	return res.LastInsertId()
}

// AddPromptHistory appends one prompt record for a website. promptType is
// "initial" or "refinement".
func (h *History) AddPromptHistory(websiteID int64, promptText, promptType string) error {
	_, err := h.db.Exec(
		`INSERT INTO prompt_history (website_id, prompt_text, prompt_type, created_at) VALUES (?, ?, ?, ?)`,
		websiteID, promptText, promptType, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("adding prompt history: %w", err)
	}
	return nil
}

// UpdateWebsiteFiles replaces the filename list of an existing record.
func (h *History) UpdateWebsiteFiles(websiteID int64, filenames []string) error {
	encoded, err := json.Marshal(filenames)
	if err != nil {
		return err
	}
	_, err = h.db.Exec(
		`UPDATE websites SET files_generated = ?, updated_at = ? WHERE id = ?`,
		string(encoded), time.Now().Unix(), websiteID,
	)
	if err != nil {
		return fmt.Errorf("updating website files: %w", err)
	}
	return nil
}

// LatestWebsite returns the most recent website with its prompt history, or
// nil when the store is empty.
func (h *History) LatestWebsite() (*Website, error) {
	row := h.db.QueryRow(
		`SELECT id, prompt, files_generated, created_at FROM websites ORDER BY created_at DESC, id DESC LIMIT 1`,
	)

	var w Website
	var encoded string
	var createdAt int64
	if err := row.Scan(&w.ID, &w.Prompt, &encoded, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	w.CreatedAt = time.Unix(createdAt, 0)
	if err := json.Unmarshal([]byte(encoded), &w.Files); err != nil {
		return nil, err
	}

	rows, err := h.db.Query(
		`SELECT prompt_text, prompt_type, created_at FROM prompt_history WHERE website_id = ? ORDER BY created_at ASC, id ASC`,
		w.ID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var p Prompt
		var ts int64
		if err := rows.Scan(&p.PromptText, &p.PromptType, &ts); err != nil {
			return nil, err
		}
		p.CreatedAt = time.Unix(ts, 0)
		w.History = append(w.History, p)
	}
	return &w, rows.Err()
}

// AllPromptHistory returns every prompt record joined with its website's
// filename list, newest first.
func (h *History) AllPromptHistory() ([]Prompt, error) {
	rows, err := h.db.Query(`
		SELECT ph.website_id, ph.prompt_text, ph.prompt_type, ph.created_at, w.files_generated
		FROM prompt_history ph
		JOIN websites w ON ph.website_id = w.id
		ORDER BY ph.created_at DESC, ph.id DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Prompt
	for rows.Next() {
		var p Prompt
		var ts int64
		var encoded string
		if err := rows.Scan(&p.WebsiteID, &p.PromptText, &p.PromptType, &ts, &encoded); err != nil {
			return nil, err
		}
		p.CreatedAt = time.Unix(ts, 0)
		if err := json.Unmarshal([]byte(encoded), &p.Files); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
