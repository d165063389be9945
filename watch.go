package modelroute

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// WatchConfig watches the config file and swaps reloaded tier tables into
// the router until the context is done. A reload that fails to parse or
// validate is logged and skipped; the table in use is left untouched.
// In-flight requests complete against the snapshot they started with.
//
// The parent directory is watched rather than the file itself so that
// editors and configuration tools that replace the file atomically still
// trigger a reload.
func (r *Router) WatchConfig(ctx context.Context, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("modelroute: create config watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("modelroute: watch %s: %w", dir, err)
	}

	base := filepath.Base(path)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			cfg, err := LoadConfig(path)
			if err != nil {
				r.logger.Warn("config reload failed, keeping current tiers", zap.Error(err))
				continue
			}
			_, table, err := cfg.Build()
			if err != nil {
				r.logger.Warn("config reload failed, keeping current tiers", zap.Error(err))
				continue
			}

			r.SwapTiers(table)
			r.logger.Info("tier table reloaded", zap.String("path", path))

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.logger.Warn("config watcher error", zap.Error(err))
		}
	}
}
