// Package store holds the single current latency dataset and persists it
// through a pluggable backend.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/vanshika/netlatency/backend/internal/domain"
	"github.com/vanshika/netlatency/backend/internal/ingest"
)

// Backend persists the current dataset.
type Backend interface {
	Save(ctx context.Context, ds domain.Dataset) error
	// Load returns false when nothing has been stored yet.
	Load(ctx context.Context) (domain.Dataset, bool, error)
	Close() error
}

// Prober is implemented by backends that can report their own health.
type Prober interface {
	Probe(ctx context.Context) error
}

// ErrClosed is returned by operations on a closed Holder.
var ErrClosed = errors.New("store is closed")

// Holder owns the current dataset. Readers take immutable snapshots without
// locking; replacements are serialized and swapped in atomically, so a query
// always sees either the old or the new dataset in full.
type Holder struct {
	backend Backend
	logger  *slog.Logger
	now     func() time.Time

	mu      sync.Mutex
	closed  bool
	current atomic.Pointer[domain.Dataset]
}

// NewHolder wraps backend. A nil logger discards log output.
func NewHolder(backend Backend, logger *slog.Logger) *Holder {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Holder{
		backend: backend,
		logger:  logger.With("component", "store"),
		now:     time.Now,
	}
}

// Snapshot returns the current dataset, or nil when nothing is loaded. The
// returned value must not be modified.
func (h *Holder) Snapshot() *domain.Dataset {
	return h.current.Load()
}

// Replace persists records as the new current dataset and publishes it.
// The records are copied; ids are kept as given.
func (h *Holder) Replace(ctx context.Context, filename string, records []domain.EdgeRecord) (*domain.Dataset, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, ErrClosed
	}

	ds := &domain.Dataset{
		Version:  uuid.NewString(),
		Filename: filename,
		LoadedAt: h.now().UTC(),
		Records:  append([]domain.EdgeRecord(nil), records...),
	}
	if err := h.backend.Save(ctx, *ds); err != nil {
		return nil, fmt.Errorf("save dataset: %w", err)
	}

	h.current.Store(ds)
	h.logger.Info("dataset replaced", "version", ds.Version, "filename", filename, "rows", len(records))
	return ds, nil
}

// Load restores the dataset from the backend. It reports whether a dataset
// was found; an empty backend leaves the holder unchanged. Stored records
// failing validation are rejected and nothing is published.
func (h *Holder) Load(ctx context.Context) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return false, ErrClosed
	}

	ds, ok, err := h.backend.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("load dataset: %w", err)
	}
	if !ok {
		return false, nil
	}
	if err := ingest.ValidateRecords(ds.Records); err != nil {
		return false, fmt.Errorf("load dataset: %w", err)
	}
	if ds.Version == "" {
		ds.Version = uuid.NewString()
	}
	if ds.LoadedAt.IsZero() {
		ds.LoadedAt = h.now().UTC()
	}

	h.current.Store(&ds)
	h.logger.Info("dataset loaded", "version", ds.Version, "filename", ds.Filename, "rows", len(ds.Records))
	return true, nil
}

// Reload re-reads the backend and publishes its dataset only when the
// records differ from the current snapshot. It reports whether the snapshot
// changed.
func (h *Holder) Reload(ctx context.Context) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return false, ErrClosed
	}

	ds, ok, err := h.backend.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("reload dataset: %w", err)
	}
	if !ok {
		return false, nil
	}
	if err := ingest.ValidateRecords(ds.Records); err != nil {
		return false, fmt.Errorf("reload dataset: %w", err)
	}
	if cur := h.current.Load(); cur != nil && slices.Equal(cur.Records, ds.Records) {
		return false, nil
	}
	ds.Version = uuid.NewString()
	if ds.LoadedAt.IsZero() {
		ds.LoadedAt = h.now().UTC()
	}

	h.current.Store(&ds)
	h.logger.Info("dataset reloaded", "version", ds.Version, "rows", len(ds.Records))
	return true, nil
}

// Probe checks backend health when the backend supports it.
func (h *Holder) Probe(ctx context.Context) error {
	if p, ok := h.backend.(Prober); ok {
		return p.Probe(ctx)
	}
	return nil
}

// Close releases the backend. Snapshots stay readable.
func (h *Holder) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	return h.backend.Close()
}
