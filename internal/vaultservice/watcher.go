package vaultservice

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// RebuildCallback is called after a watcher-driven rebuild actually changed
// the model.
type RebuildCallback func()

// Watch starts an fsnotify watcher on the vault root and triggers a full
// rebuild when relevant files change, until ctx is cancelled. The vault model
// has no incremental update path, so every change funnels into one debounced
// Rebuild call; bursts of events (editor saves, git checkouts) collapse into
// a single pass.
//
// New directories created at runtime are automatically added to the watch
// list.
func (s *Service) Watch(ctx context.Context, logger *slog.Logger, cb RebuildCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	root := s.store.Root()
	if err := addDirsRecursive(w, root); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", root))

	var rebuildTimer *time.Timer
	var rebuildCh <-chan time.Time

	scheduleRebuild := func() {
		if rebuildTimer == nil {
			rebuildTimer = time.NewTimer(300 * time.Millisecond)
			rebuildCh = rebuildTimer.C
		} else {
			rebuildTimer.Reset(300 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if rebuildTimer != nil {
				rebuildTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-rebuildCh:
			changed, err := s.Rebuild(ctx)
			if err != nil {
				logger.Warn("watcher: rebuild failed", slog.String("error", err.Error()))
				continue
			}
			if changed && cb != nil {
				cb()
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			// New directories join the watch list; their contents count
			// as a change like any other.
			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					}
					scheduleRebuild()
					continue
				}
			}

			if !relevantFile(ev.Name) {
				continue
			}
			logger.Debug("watcher: change", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
			scheduleRebuild()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// relevantFile reports whether a change to this path can affect the vault
// model: notes, canvas files and anything the app can embed.
func relevantFile(p string) bool {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".md", ".canvas",
		".png", ".jpg", ".jpeg", ".gif", ".bmp", ".svg",
		".mp3", ".webm", ".wav", ".m4a", ".ogg", ".3gp", ".flac",
		".mp4", ".ogv", ".mov", ".mkv",
		".pdf":
		return true
	}
	return false
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
// Hidden directories stay unwatched; the listing skips them too.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}
