package style

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Load reads and parses the stylesheet at path.
func Load(path string) (*Stylesheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(string(data))
}

// Watch reloads the stylesheet at path whenever it changes and delivers
// each successfully parsed sheet to apply. It watches the parent directory
// so editors that replace the file are handled. Watch blocks until ctx is
// done.
func Watch(ctx context.Context, path string, log *slog.Logger, apply func(*Stylesheet)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(path)); err != nil {
		return err
	}
	target := filepath.Clean(path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			sheet, err := Load(path)
			if err != nil {
				log.Warn("stylesheet reload failed", "path", path, "err", err)
				continue
			}
			log.Info("stylesheet reloaded", "path", path, "rules", len(sheet.Rules))
			apply(sheet)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("stylesheet watcher", "err", err)
		}
	}
}
