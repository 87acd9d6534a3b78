package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHistory(t *testing.T) *History {
	t.Helper()
	h, err := NewHistory(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { h.Close() })
	return h
}

func TestCreateAndLatest(t *testing.T) {
	h := newTestHistory(t)

	id, err := h.CreateWebsite("flower shop with orders", []string{"index.html", "style.css"})
	require.NoError(t, err)
	require.NoError(t, h.AddPromptHistory(id, "flower shop with orders", PromptTypeInitial))

	latest, err := h.LatestWebsite()
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, id, latest.ID)
	assert.Equal(t, []string{"index.html", "style.css"}, latest.Files)
	require.Len(t, latest.History, 1)
	assert.Equal(t, PromptTypeInitial, latest.History[0].PromptType)
}

func TestLatestOnEmptyStore(t *testing.T) {
	h := newTestHistory(t)
	latest, err := h.LatestWebsite()
	require.NoError(t, err)
	assert.Nil(t, latest)
}

func TestUpdateWebsiteFiles(t *testing.T) {
	h := newTestHistory(t)
	id, err := h.CreateWebsite("bakery site", []string{"index.html"})
	require.NoError(t, err)

	require.NoError(t, h.UpdateWebsiteFiles(id, []string{"index.html", "style.css", "script.js"}))

	latest, err := h.LatestWebsite()
	require.NoError(t, err)
	assert.Len(t, latest.Files, 3)
}

func TestAllPromptHistoryJoinsFiles(t *testing.T) {
	h := newTestHistory(t)

	id, err := h.CreateWebsite("bookstore with events", []string{"index.html", "style.css"})
	require.NoError(t, err)
	require.NoError(t, h.AddPromptHistory(id, "bookstore with events", PromptTypeInitial))
	require.NoError(t, h.AddPromptHistory(id, "add a dark theme", PromptTypeRefinement))

	records, err := h.AllPromptHistory()
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, rec := range records {
		assert.Equal(t, id, rec.WebsiteID)
		assert.Equal(t, []string{"index.html", "style.css"}, rec.Files)
	}
}
