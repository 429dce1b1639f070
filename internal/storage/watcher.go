package storage

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// ChangeCallback is called when a collection file changes on disk. This
// includes the process's own saves, which land as a rename onto the
// collection file.
type ChangeCallback func(c Collection)

// Watch starts an fsnotify watcher on the data directory and reports
// collection file changes until ctx is cancelled. The watcher only
// notifies; it never re-reads or merges state, since the process remains
// the single logical writer.
func Watch(ctx context.Context, dataDir string, logger *slog.Logger, cb ChangeCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(dataDir); err != nil {
		return err
	}

	byFile := make(map[string]Collection, len(collectionFiles))
	for c, name := range collectionFiles {
		byFile[name] = c
	}

	logger.Info("watcher: started", slog.String("dir", dataDir))

	for {
		select {
		case <-ctx.Done():
			logger.Info("watcher: stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			name := filepath.Base(ev.Name)
			// Atomic saves go through temp files; skip them.
			if strings.HasPrefix(name, ".lattice-tmp-") {
				continue
			}
			c, known := byFile[name]
			if !known {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("watcher: collection changed",
				slog.String("collection", string(c)),
				slog.String("op", ev.Op.String()))
			if cb != nil {
				cb(c)
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
