package site

import (
	"archive/zip"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"

	"site_ai_server/internal/types"
)

// Workspace is the session context for one output directory: whatever a
// previous run wrote there becomes the prior-files context of the next run.
// The directory is flat; subdirectories are ignored.
type Workspace struct {
	dir string
}

func NewWorkspace(dir string) *Workspace {
	return &Workspace{dir: dir}
}

func (w *Workspace) Dir() string { return w.dir }

// PriorFiles reads every regular file in the output directory as UTF-8 text.
// A missing directory is an empty context, not an error.
func (w *Workspace) PriorFiles() (types.FileMap, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return types.FileMap{}, nil
		}
		return nil, fmt.Errorf("reading output directory %s: %w", w.dir, err)
	}

	files := types.FileMap{}
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(w.dir, entry.Name()))
		if err != nil {
			log.Printf("WARN: skipping unreadable prior file %s: %v", entry.Name(), err)
			continue
		}
		files[entry.Name()] = string(data)
	}
	return files, nil
}

// HasPriorFiles reports whether the directory held at least one regular file,
// i.e. whether the next run is a refinement of an earlier one.
func (w *Workspace) HasPriorFiles() bool {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			return true
		}
	}
	return false
}

// WriteFiles writes every file in the map to the output directory (UTF-8,
// overwrite-if-exists) and returns the written filenames sorted. A write
// failure aborts and is fatal for the run; files already written stay on
// disk.
func (w *Workspace) WriteFiles(files types.FileMap) ([]string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", w.dir, err)
	}

	names := files.Filenames()
	sort.Strings(names)

	written := make([]string, 0, len(names))
	for _, name := range names {
		path := filepath.Join(w.dir, filepath.Base(name))
		if err := os.WriteFile(path, []byte(files[name]), 0o644); err != nil {
			return written, fmt.Errorf("writing %s: %w", name, err)
		}
		log.Printf("File saved: %s", path)
		written = append(written, filepath.Base(name))
	}
	return written, nil
}

// Zip streams the current output directory as a zip archive. Returns
// os.ErrNotExist when the directory holds no files.
func (w *Workspace) Zip(out io.Writer) error {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return err
	}

	zw := zip.NewWriter(out)
	count := 0
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(w.dir, entry.Name()))
		if err != nil {
			zw.Close()
			return err
		}
		f, err := zw.Create(entry.Name())
		if err != nil {
			zw.Close()
			return err
		}
		if _, err := f.Write(data); err != nil {
			zw.Close()
			return err
		}
		count++
	}
	if count == 0 {
		zw.Close()
		return os.ErrNotExist
	}
	return zw.Close()
}
