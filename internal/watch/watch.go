// Package watch re-runs a callback when content files change on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"astroblog/internal/logger"
)

const DefaultDebounce = 200 * time.Millisecond

type Watcher struct {
	Dirs     []string
	Debounce time.Duration
	// OnChange runs once per burst of events, on the watcher goroutine.
	OnChange func(ctx context.Context)
	Log      logger.Logger
}

// DirsFor returns the existing parent directories of the candidate content
// files, deduplicated and sorted.
func DirsFor(candidates []string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, c := range candidates {
		dir := filepath.Dir(c)
		if _, ok := seen[dir]; ok {
			continue
		}
		seen[dir] = struct{}{}
		if st, err := os.Stat(dir); err == nil && st.IsDir() {
			out = append(out, dir)
		}
	}
	sort.Strings(out)
	return out
}

// Run blocks until ctx is cancelled or the underlying watcher fails.
func (w *Watcher) Run(ctx context.Context) error {
	if len(w.Dirs) == 0 {
		return errors.New("watch: no directories to watch")
	}
	log := w.Log
	if log == nil {
		log = logger.NewNop()
	}
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer fw.Close()

	for _, d := range w.Dirs {
		if err := fw.Add(d); err != nil {
			return fmt.Errorf("watch %s: %w", d, err)
		}
	}
	log.Info("watching content", logger.Strings("dirs", w.Dirs), logger.Duration("debounce", debounce))

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !relevant(ev) {
				continue
			}
			log.Debug("content event", logger.String("path", ev.Name), logger.String("op", ev.Op.String()))
			timer.Reset(debounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", logger.Error(err))
		case <-timer.C:
			if w.OnChange != nil {
				w.OnChange(ctx)
			}
		}
	}
}

func relevant(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return strings.EqualFold(filepath.Ext(ev.Name), ".json")
}
