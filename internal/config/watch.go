package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 150 * time.Millisecond

// Watch calls fn with the reloaded configuration each time path changes,
// until ctx is done. The parent directory is watched so editors that
// replace the file on save are still seen. A parse failure is passed to fn
// with a nil config.
func Watch(ctx context.Context, path string, fn func(*UserConfig, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	go func() {
		defer watcher.Close()
		var pending <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(path) {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
					pending = time.After(watchDebounce)
				}
			case <-pending:
				pending = nil
				fn(Load(path))
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				fn(nil, fmt.Errorf("watch config: %w", err))
			}
		}
	}()
	return nil
}
