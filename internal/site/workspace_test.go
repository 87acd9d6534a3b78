package site

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"site_ai_server/internal/types"
)

func TestPriorFilesEmptyWhenDirMissing(t *testing.T) {
	w := NewWorkspace(filepath.Join(t.TempDir(), "does-not-exist"))
	files, err := w.PriorFiles()
	require.NoError(t, err)
	assert.Empty(t, files)
	assert.False(t, w.HasPriorFiles())
}

func TestWriteThenReadBack(t *testing.T) {
	w := NewWorkspace(t.TempDir())
	in := types.FileMap{
		"index.html": "<html></html>",
		"style.css":  "body { margin: 0; }",
	}

	written, err := w.WriteFiles(in)
	require.NoError(t, err)
	assert.Equal(t, []string{"index.html", "style.css"}, written)

	out, err := w.PriorFiles()
	require.NoError(t, err)
	assert.Equal(t, in, out)
	assert.True(t, w.HasPriorFiles())
}

func TestWriteOverwritesExisting(t *testing.T) {
	w := NewWorkspace(t.TempDir())
	_, err := w.WriteFiles(types.FileMap{"index.html": "old"})
	require.NoError(t, err)
	_, err = w.WriteFiles(types.FileMap{"index.html": "new"})
	require.NoError(t, err)

	files, err := w.PriorFiles()
	require.NoError(t, err)
	assert.Equal(t, "new", files["index.html"])
}

func TestWriteStripsPathComponents(t *testing.T) {
	// The output directory is flat; a filename with directories collapses to
	// its base name.
	dir := t.TempDir()
	w := NewWorkspace(dir)
	written, err := w.WriteFiles(types.FileMap{"assets/style.css": "body {}"})
	require.NoError(t, err)
	assert.Equal(t, []string{"style.css"}, written)
	_, err = os.Stat(filepath.Join(dir, "style.css"))
	assert.NoError(t, err)
}

func TestZipRoundTrip(t *testing.T) {
	w := NewWorkspace(t.TempDir())
	_, err := w.WriteFiles(types.FileMap{
		"index.html": "<html></html>",
		"style.css":  "body {}",
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, w.Zip(&buf))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	assert.Len(t, zr.File, 2)
}

func TestZipEmptyDir(t *testing.T) {
	w := NewWorkspace(t.TempDir())
	var buf bytes.Buffer
	err := w.Zip(&buf)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("write: broken pipe")
}

func TestZipSurfacesWriterError(t *testing.T) {
	w := NewWorkspace(t.TempDir())
	// Large enough to force the archive's buffer to flush mid-file, hitting
	// the error path inside the copy loop rather than at the final close.
	_, err := w.WriteFiles(types.FileMap{"index.html": strings.Repeat("<p>x</p>", 4096)})
	require.NoError(t, err)

	err = w.Zip(failingWriter{})
	assert.Error(t, err)
}
