package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce collapses the burst of events an editor emits on save.
const watchDebounce = 200 * time.Millisecond

// watchFile calls render once, then again after every change to path, until
// ctx is cancelled. Render errors are reported and watching continues.
//
// The parent directory is watched rather than the file so that editors that
// save by rename keep being observed.
func watchFile(ctx context.Context, path string, render func() error) error {
	logger := loggerFromContext(ctx)

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	rerender := func() {
		if err := render(); err != nil {
			printError("%v", err)
		}
	}
	rerender()
	logger.Info("Watching for changes", "file", path)

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !isContentChange(ev.Op) {
				continue
			}
			logger.Debug("file changed", "file", path, "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			fire = timer.C

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "err", err)

		case <-fire:
			fire = nil
			rerender()
		}
	}
}

func isContentChange(op fsnotify.Op) bool {
	return op.Has(fsnotify.Write) || op.Has(fsnotify.Create) || op.Has(fsnotify.Rename)
}
