// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package watch monitors a single file for changes using fsnotify. The
// parent directory is watched rather than the file itself because editors
// commonly replace a file on save, which would invalidate a direct watch.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// File watches path and invokes onChange after each debounced burst of
// write, create, or rename events touching it. It blocks until ctx is
// cancelled.
func File(ctx context.Context, path string, debounce time.Duration, onChange func()) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}

	// The timer fires once per quiet period; each qualifying event
	// pushes it out again.
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	base := filepath.Base(abs)
	for {
		select {
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				timer.Reset(debounce)
			}

		case <-timer.C:
			onChange()

		case _, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			// fsnotify recovers from transient errors on its own.

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
