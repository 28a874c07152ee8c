package export

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/ansuz/internal/vault"
)

// refreshDelay debounces bursts of file events (editors often write a
// file several times in quick succession) into one re-export.
const refreshDelay = 250 * time.Millisecond

// RefreshCallback is called after a watcher-driven re-export commits.
type RefreshCallback func()

// Watch starts an fsnotify watcher on the vault root and re-exports the
// whole graph after file changes, until ctx is cancelled. Exports are
// full rebuilds: page links, placeholders, and namespace rows can all
// shift when a single file changes, so incremental updates would have
// to re-derive most of the database anyway.
//
// New directories created at runtime are added to the watch list. cb
// (if non-nil) runs after each successful export.
func Watch(ctx context.Context, db *DB, v *vault.Vault, logger *slog.Logger, cb RefreshCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, v.Root()); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", v.Root()))

	var refreshTimer *time.Timer
	var refreshCh <-chan time.Time
	var lastFingerprint string

	scheduleRefresh := func() {
		if refreshTimer == nil {
			refreshTimer = time.NewTimer(refreshDelay)
			refreshCh = refreshTimer.C
		} else {
			refreshTimer.Reset(refreshDelay)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if refreshTimer != nil {
				refreshTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-refreshCh:
			// Editors fire events for touches and atomic saves that
			// leave content unchanged; the fingerprint filters those.
			fp, fpErr := v.Fingerprint()
			if fpErr == nil && fp == lastFingerprint {
				logger.Debug("watcher: content unchanged, skipping export")
				continue
			}
			if err := Refresh(ctx, db, v, logger); err != nil {
				logger.Error("watcher: export failed", slog.String("error", err.Error()))
				continue
			}
			if fpErr == nil {
				lastFingerprint = fp
			}
			if cb != nil {
				cb()
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					}
					scheduleRefresh()
					continue
				}
			}

			if !relevant(ev.Name) {
				continue
			}
			logger.Debug("watcher: change", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
			scheduleRefresh()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// Refresh loads the vault from scratch and writes a fresh export.
func Refresh(ctx context.Context, db *DB, v *vault.Vault, logger *slog.Logger) error {
	g, err := v.LoadGraph(ctx, logger)
	if err != nil {
		return err
	}
	if err := db.Write(Collect(g, logger)); err != nil {
		return err
	}
	logger.Info("export: refreshed", slog.Int("pages", len(g.Pages)), slog.Int("blocks", len(g.Blocks)))
	return nil
}

// relevant reports whether a change to the path can affect the export:
// page sources and anything under assets/.
func relevant(path string) bool {
	if strings.HasSuffix(path, ".md") {
		return true
	}
	sep := string(os.PathSeparator)
	return strings.Contains(path, sep+"assets"+sep)
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
