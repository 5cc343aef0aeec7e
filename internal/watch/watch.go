// Package watch reloads the dataset when its backing file changes on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses the burst of events a single save produces.
const DefaultDebounce = 250 * time.Millisecond

// Reloader re-reads the dataset from its backend.
type Reloader interface {
	Reload(ctx context.Context) (bool, error)
}

// Watcher observes one file and calls the reloader after writes settle.
type Watcher struct {
	path     string
	reloader Reloader
	logger   *slog.Logger
	debounce time.Duration
	fsw      *fsnotify.Watcher
}

// New starts watching the directory containing path. Events for other files
// in that directory are ignored.
func New(path string, reloader Reloader, logger *slog.Logger, debounce time.Duration) (*Watcher, error) {
	if reloader == nil {
		return nil, errors.New("reloader is required")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{
		path:     abs,
		reloader: reloader,
		logger:   logger.With("component", "watch", "path", abs),
		debounce: debounce,
		fsw:      fsw,
	}, nil
}

// Run processes events until ctx is cancelled, then releases the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)

		case <-fire:
			fire = nil
			w.reload(ctx)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write)
}

func (w *Watcher) reload(ctx context.Context) {
	reloadCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	changed, err := w.reloader.Reload(reloadCtx)
	if err != nil {
		w.logger.Error("reload failed", "error", err)
		return
	}
	w.logger.Debug("reload finished", "changed", changed)
}
