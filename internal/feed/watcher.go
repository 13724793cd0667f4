// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package feed

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"
)

// =============================================================================
// FEED WATCHER
// =============================================================================

// Change reports that a watched feed file was modified.
type Change struct {
	Path string
	At   time.Time
}

// DefaultWatchInterval bounds how often a Change is emitted.
const DefaultWatchInterval = 2 * time.Second

// Watcher signals edits to file-backed feeds. It never reloads anything
// itself; resolved detections must not come back mid-session.
type Watcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]struct{}
	changes  chan Change
	throttle *rate.Sometimes
	logger   *slog.Logger
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
}

// WatchPaths returns the file paths behind specs that a Watcher can follow.
func WatchPaths(specs []string) []string {
	var paths []string
	for _, spec := range specs {
		spec = strings.TrimSpace(spec)
		if spec == "" || strings.EqualFold(spec, "demo") {
			continue
		}
		paths = append(paths, strings.TrimPrefix(spec, "sqlite:"))
	}
	return paths
}

// NewWatcher starts watching paths. Directories are watched so that
// editors replacing files by rename are still seen.
func NewWatcher(paths []string, interval time.Duration, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = DefaultWatchInterval
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		watcher:  fsw,
		files:    make(map[string]struct{}),
		changes:  make(chan Change, 1),
		throttle: &rate.Sometimes{Interval: interval},
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}

	dirs := make(map[string]struct{})
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			continue
		}
		w.files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			// Non-fatal, the feed may live somewhere we cannot watch
			logger.Warn("cannot watch feed directory", "dir", dir, "error", err)
		}
	}

	go w.processEvents()
	return w, nil
}

// Changes delivers throttled change signals.
func (w *Watcher) Changes() <-chan Change {
	return w.changes
}

// Close stops the watcher and closes the Changes channel.
func (w *Watcher) Close() error {
	w.cancel()
	err := w.watcher.Close()
	<-w.done
	return err
}

func (w *Watcher) processEvents() {
	defer close(w.done)
	defer close(w.changes)

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if _, watched := w.files[filepath.Clean(event.Name)]; !watched {
				continue
			}
			w.throttle.Do(func() {
				w.emit(Change{Path: event.Name, At: time.Now()})
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("feed watcher error", "error", err)
		}
	}
}

// emit never blocks; a pending unread change already says the same thing.
func (w *Watcher) emit(c Change) {
	select {
	case w.changes <- c:
	default:
	}
}
