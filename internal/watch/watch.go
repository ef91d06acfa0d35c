// Package watch reports changes made to a single file by other programs.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce coalesces the bursts of events editors produce when
// they save.
const DefaultDebounce = 200 * time.Millisecond

// File watches one path. The parent directory is watched so that files
// replaced by rename keep being tracked.
type File struct {
	path     string
	debounce time.Duration
	log      *zap.Logger

	w       *fsnotify.Watcher
	changes chan struct{}
	done    chan struct{}
}

// New starts watching path until ctx is done or Close is called.
func New(ctx context.Context, path string, debounce time.Duration, log *zap.Logger) (*File, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if log == nil {
		log = zap.NewNop()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	f := &File{
		path:     abs,
		debounce: debounce,
		log:      log.Named("watch"),
		w:        w,
		changes:  make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	go f.run(ctx)
	return f, nil
}

// Changes delivers one value per burst of writes to the file. Pending
// notifications are merged. The channel is closed when the watcher stops.
func (f *File) Changes() <-chan struct{} { return f.changes }

// Close stops the watcher and waits for it to exit.
func (f *File) Close() error {
	err := f.w.Close()
	<-f.done
	return err
}

func (f *File) run(ctx context.Context) {
	defer close(f.done)
	defer close(f.changes)

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-f.w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != f.path || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			timer.Reset(f.debounce)
		case err, ok := <-f.w.Errors:
			if !ok {
				return
			}
			f.log.Warn("watch error", zap.String("path", f.path), zap.Error(err))
		case <-timer.C:
			select {
			case f.changes <- struct{}{}:
			default:
			}
		}
	}
}
