package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Run watches a source tree and invokes rebuild after changes settle for the
// debounce window. It blocks until the context is cancelled. Intended for
// authoring sessions only; it serves nothing.
func Run(ctx context.Context, dir string, debounce time.Duration, logger *slog.Logger, rebuild func(context.Context) error) error {
	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = 400 * time.Millisecond
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := addTree(watcher, dir); err != nil {
		return err
	}

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ignorableEvent(event) {
				continue
			}
			// New directories need their own watch before anything inside
			// them can be observed.
			if event.Op.Has(fsnotify.Create) {
				_ = addTree(watcher, event.Name)
			}
			logger.Debug("source change", "path", event.Name, "op", event.Op.String())
			if pending {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
			}
			timer.Reset(debounce)
			pending = true
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch", "error", err)
		case <-timer.C:
			pending = false
			if err := rebuild(ctx); err != nil {
				logger.Error("rebuild", "error", err)
				continue
			}
			logger.Info("rebuild completed")
		}
	}
}

func addTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			// The path may have vanished between the event and the walk.
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && p != root {
			return filepath.SkipDir
		}
		return watcher.Add(p)
	})
}

func ignorableEvent(event fsnotify.Event) bool {
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") {
		return true
	}
	return event.Op == fsnotify.Chmod
}
