// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package snapshot

import (
	"context"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce groups the burst of events a spreadsheet editor produces
// when it saves a file.
const DefaultDebounce = 500 * time.Millisecond

// Watch reloads the store whenever the file at path is written, created or
// renamed into place. It blocks until ctx is done. The parent directory is
// watched so that atomic replace-on-save is seen.
func Watch(ctx context.Context, store *Store, path string, debounce time.Duration) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create watcher")
	}
	defer w.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrapf(err, "resolve %q", path)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return errors.Wrapf(err, "watch %q", filepath.Dir(abs))
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}

	zap.S().Infow("watching data file", "path", abs)
	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			zap.S().Debugw("data file changed", "path", ev.Name, "op", ev.Op.String())
			timer.Reset(debounce)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			zap.S().Warnw("watcher error", "error", err)

		case <-timer.C:
			if _, err := store.Load(ctx); err != nil {
				zap.S().Errorw("reload failed, keeping previous dataset", "path", abs, "error", err)
				continue
			}
		}
	}
}
