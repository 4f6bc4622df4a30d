package app

import (
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

// debounceWindow batches bursts of filesystem events (a git clone
// writes thousands) into a single rescan.
const debounceWindow = 750 * time.Millisecond

// rootWatcher watches the configured project roots and emits a
// refreshMsg when their direct children change. Only the roots
// themselves are watched; changes inside a project do not trigger a
// rescan.
type rootWatcher struct {
	fw   *fsnotify.Watcher
	done chan struct{}
}

func newRootWatcher(roots []string, events chan<- tea.Msg, logger *slog.Logger) (*rootWatcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	watched := 0
	for _, root := range roots {
		if fi, err := os.Stat(root); err != nil || !fi.IsDir() {
			continue
		}
		if err := fw.Add(root); err != nil {
			logger.Warn("cannot watch root", "root", root, "error", err)
			continue
		}
		watched++
	}
	if watched == 0 {
		fw.Close()
		return nil, os.ErrNotExist
	}

	w := &rootWatcher{fw: fw, done: make(chan struct{})}
	go w.loop(events, logger)
	return w, nil
}

func (w *rootWatcher) loop(events chan<- tea.Msg, logger *slog.Logger) {
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounceWindow)
				fire = timer.C
			} else {
				if !timer.Stop() {
					<-timer.C
				}
				timer.Reset(debounceWindow)
			}

		case <-fire:
			timer = nil
			fire = nil
			select {
			case events <- refreshMsg{}:
			case <-w.done:
				return
			}

		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			logger.Warn("watcher error", "error", err)

		case <-w.done:
			return
		}
	}
}

func (w *rootWatcher) Close() {
	close(w.done)
	w.fw.Close()
}
