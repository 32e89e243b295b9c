package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ErrWatcherFailed indicates the filesystem watcher failed to initialize
var ErrWatcherFailed = errors.New("failed to initialize filesystem watcher")

// DefaultDebounce coalesces bursts of writes from editors that save in
// several steps
const DefaultDebounce = 100 * time.Millisecond

// FileWatcher reports changes to a single file. The parent directory is
// watched so that atomic renames by editors are still seen.
type FileWatcher struct {
	path     string
	watcher  *fsnotify.Watcher
	changes  chan struct{}
	debounce time.Duration
	logger   *zap.Logger
}

// New creates a watcher for path
func New(path string, logger *zap.Logger) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWatcherFailed, err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileWatcher{
		path:     abs,
		watcher:  w,
		changes:  make(chan struct{}, 1),
		debounce: DefaultDebounce,
		logger:   logger,
	}, nil
}

// WithDebounce overrides the quiet period before a change is reported
func (fw *FileWatcher) WithDebounce(d time.Duration) *FileWatcher {
	fw.debounce = d
	return fw
}

// Changes receives one value per settled burst of changes
func (fw *FileWatcher) Changes() <-chan struct{} {
	return fw.changes
}

// Run processes filesystem events until ctx is done or the watcher is closed
func (fw *FileWatcher) Run(ctx context.Context) {
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != fw.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			fw.logger.Debug("file changed", zap.String("path", fw.path), zap.String("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(fw.debounce)
			} else {
				timer.Reset(fw.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			select {
			case fw.changes <- struct{}{}:
			default:
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Warn("watch error", zap.String("path", fw.path), zap.Error(err))
		}
	}
}

// Close releases the underlying watcher
func (fw *FileWatcher) Close() error {
	return fw.watcher.Close()
}
