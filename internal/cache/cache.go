// Package cache keeps downloaded bulletins on disk keyed by report kind and
// date, so re-parsing never needs the network.
package cache

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/fuelprices-cli/internal/model"
)

// Cache stores raw documents.
type Cache interface {
	Get(kind model.ReportKind, date time.Time) ([]byte, bool, error)
	Put(kind model.ReportKind, date time.Time, data []byte) error
	Clear(kind model.ReportKind) error
}

// FileCache stores documents as {dir}/{kind}/{yyyy-mm-dd}.pdf.
type FileCache struct {
	dir string
}

// NewFileCache returns a cache rooted at dir. The directory is created lazily.
func NewFileCache(dir string) *FileCache {
	return &FileCache{dir: dir}
}

// Path returns the file a document is cached under.
func (c *FileCache) Path(kind model.ReportKind, date time.Time) string {
	return filepath.Join(c.dir, string(kind), date.Format(model.DateLayout)+".pdf")
}

// Get returns the cached document. ok is false on a miss.
func (c *FileCache) Get(kind model.ReportKind, date time.Time) ([]byte, bool, error) {
	data, err := os.ReadFile(c.Path(kind, date))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, eris.Wrapf(err, "cache: read %s %s", kind, date.Format(model.DateLayout))
	}
	return data, true, nil
}

// Put stores data, replacing any previous entry. The file is written to a
// temporary name and renamed so readers never see a partial document.
func (c *FileCache) Put(kind model.ReportKind, date time.Time, data []byte) error {
	path := c.Path(kind, date)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "cache: create %s", dir)
	}

	tmp, err := os.CreateTemp(dir, ".partial-*")
	if err != nil {
		return eris.Wrap(err, "cache: create temp file")
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return eris.Wrapf(err, "cache: write %s", path)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return eris.Wrapf(err, "cache: close %s", path)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return eris.Wrapf(err, "cache: rename %s", path)
	}
	return nil
}

// Clear removes every cached document of kind.
func (c *FileCache) Clear(kind model.ReportKind) error {
	if err := os.RemoveAll(filepath.Join(c.dir, string(kind))); err != nil {
		return eris.Wrapf(err, "cache: clear %s", kind)
	}
	return nil
}
