package locale

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/yildizm/wedsite/internal/logger"
)

// reloadDebounce collapses the burst of events editors emit on save.
const reloadDebounce = 150 * time.Millisecond

// Watch reloads the catalog whenever a .toml file in its override directory
// changes, calling onReload after each successful reload. It blocks until
// ctx is done.
func Watch(ctx context.Context, c *Catalog, log *logger.Logger, onReload func()) error {
	if c.overrideDir == "" {
		return fmt.Errorf("no translations directory to watch")
	}

	watcher, err := createWatcher(c.overrideDir)
	if err != nil {
		return err
	}
	defer cleanupWatcher(watcher, log)

	log.Info("watching translations in %s", c.overrideDir)
	return runWatchLoop(ctx, watcher, c, log, onReload)
}

func createWatcher(dir string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	return watcher, nil
}

func cleanupWatcher(watcher *fsnotify.Watcher, log *logger.Logger) {
	if err := watcher.Close(); err != nil {
		log.Warn("failed to close watcher: %v", err)
	}
}

func runWatchLoop(ctx context.Context, watcher *fsnotify.Watcher, c *Catalog, log *logger.Logger, onReload func()) error {
	var (
		timer   *time.Timer
		reloads = make(chan struct{}, 1)
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isMessageFile(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(reloadDebounce, func() {
				select {
				case reloads <- struct{}{}:
				default:
				}
			})

		case <-reloads:
			if err := c.Reload(); err != nil {
				log.Warn("translation reload failed: %v", err)
				continue
			}
			log.Info("translations reloaded")
			if onReload != nil {
				onReload()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error: %v", err)
		}
	}
}

func isMessageFile(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".toml")
}
