package file

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// watcher reloads the mirror when either table changes on disk, so a
// directory shared with another writer converges without restarts. The
// store's own atomic renames come back as events too; the debounced reload
// they trigger is a no-op because mirror and disk already agree.
type watcher struct {
	store *Store
	fsw   *fsnotify.Watcher

	mu    sync.Mutex
	timer *time.Timer

	done     chan struct{}
	stopOnce sync.Once
}

func newWatcher(s *Store) (*watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(s.dir); err != nil {
		fsw.Close()
		return nil, err
	}
	w := &watcher{store: s, fsw: fsw, done: make(chan struct{})}
	go w.run()
	s.log.Debug("file watcher started", zap.String("dir", s.dir))
	return w, nil
}

func (w *watcher) run() {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if err != nil {
				w.store.log.Debug("file watcher error", zap.Error(err))
			}
		}
	}
}

func (w *watcher) handle(ev fsnotify.Event) {
	name := filepath.Base(ev.Name)
	if name != "documents.json" && name != "outcomes.json" {
		return
	}
	// Atomic replacement surfaces as Create (rename target) or Write.
	if !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Write) {
		return
	}
	w.store.log.Debug("data file changed", zap.String("file", name), zap.String("op", ev.Op.String()))
	w.scheduleReload()
}

// scheduleReload restarts the debounce timer; bursts of events collapse
// into one reload.
func (w *watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.store.debounce, w.reload)
}

func (w *watcher) reload() {
	s := w.store
	s.mu.Lock()
	err := s.loadLocked()
	s.mu.Unlock()
	if err != nil {
		s.log.Warn("reload after data file change failed", zap.Error(err))
		return
	}
	s.log.Debug("data files reloaded")
}

func (w *watcher) stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
		w.fsw.Close()
	})
}
