package watch

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// FileWatcher reports when watched track files are removed or renamed away.
// It watches the parent directories, since editors and tools often replace
// files rather than modify them in place.
type FileWatcher struct {
	watcher *fsnotify.Watcher
	removed chan string

	mu    sync.Mutex
	files map[string]struct{}
	dirs  map[string]struct{}
}

// NewFileWatcher creates a watcher with nothing watched.
func NewFileWatcher() (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &FileWatcher{
		watcher: w,
		removed: make(chan string, 16),
		files:   make(map[string]struct{}),
		dirs:    make(map[string]struct{}),
	}, nil
}

// Add starts watching paths. Paths already watched are ignored.
func (f *FileWatcher) Add(paths ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, path := range paths {
		path = filepath.Clean(path)
		f.files[path] = struct{}{}

		dir := filepath.Dir(path)
		if _, ok := f.dirs[dir]; ok {
			continue
		}
		if err := f.watcher.Add(dir); err != nil {
			return err
		}
		f.dirs[dir] = struct{}{}
	}
	return nil
}

// Forget stops reporting path. Its directory stays watched.
func (f *FileWatcher) Forget(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.files, filepath.Clean(path))
}

// Removed returns the channel of removed paths. It is closed when Start
// returns.
func (f *FileWatcher) Removed() <-chan string {
	return f.removed
}

// Start forwards removals until ctx is cancelled or the watcher is closed.
func (f *FileWatcher) Start(ctx context.Context) error {
	defer close(f.removed)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-f.watcher.Events:
			if !ok {
				return nil
			}
			if !isRemoval(event.Op) || !f.forget(event.Name) {
				continue
			}
			log.Debug().Str("path", event.Name).Msg("Track file removed")
			select {
			case f.removed <- event.Name:
			case <-ctx.Done():
				return ctx.Err()
			}

		case err, ok := <-f.watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("File watcher error")
		}
	}
}

// Close stops the underlying watcher.
func (f *FileWatcher) Close() error {
	return f.watcher.Close()
}

// forget drops a watched path and reports whether it was watched.
func (f *FileWatcher) forget(path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	path = filepath.Clean(path)
	if _, ok := f.files[path]; !ok {
		return false
	}
	delete(f.files, path)
	return true
}

func isRemoval(op fsnotify.Op) bool {
	return op&(fsnotify.Rename|fsnotify.Remove) != 0
}
