package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/vanshika/netlatency/backend/internal/domain"
	"github.com/vanshika/netlatency/backend/internal/ingest"
)

// CurrentFile is the name of the persisted dataset inside the data directory.
const CurrentFile = "current.csv"

// FileBackend keeps the dataset as a canonical CSV file.
type FileBackend struct {
	dir string
}

// NewFileBackend creates dir if needed.
func NewFileBackend(dir string) (*FileBackend, error) {
	if dir == "" {
		return nil, errors.New("data directory is required")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create data directory %s: %w", dir, err)
	}
	return &FileBackend{dir: dir}, nil
}

// Path returns the location of the persisted dataset.
func (b *FileBackend) Path() string {
	return filepath.Join(b.dir, CurrentFile)
}

// Save writes to a temporary file and renames it over the current file.
func (b *FileBackend) Save(_ context.Context, ds domain.Dataset) error {
	tmp, err := os.CreateTemp(b.dir, ".current-*.csv")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := ingest.Encode(tmp, ds.Records, true); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("encode dataset: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, b.Path()); err != nil {
		return fmt.Errorf("publish dataset: %w", err)
	}
	return nil
}

// Load decodes the current file. Version is left empty; the file carries
// only the records.
func (b *FileBackend) Load(_ context.Context) (domain.Dataset, bool, error) {
	f, err := os.Open(b.Path())
	if errors.Is(err, fs.ErrNotExist) {
		return domain.Dataset{}, false, nil
	}
	if err != nil {
		return domain.Dataset{}, false, fmt.Errorf("open %s: %w", b.Path(), err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return domain.Dataset{}, false, fmt.Errorf("stat %s: %w", b.Path(), err)
	}

	records, _, err := ingest.Decode(f)
	if err != nil {
		return domain.Dataset{}, false, fmt.Errorf("decode %s: %w", b.Path(), err)
	}
	return domain.Dataset{
		Filename: CurrentFile,
		LoadedAt: info.ModTime().UTC(),
		Records:  records,
	}, true, nil
}

func (b *FileBackend) Close() error { return nil }
