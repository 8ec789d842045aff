package loader

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/Neumenon/flatconf/flatconf"
)

// Handler receives the freshly loaded tree after a watched file changes.
type Handler func(flatconf.Tree)

// Watcher reloads a set of configuration files whenever one of them
// changes and hands the new tree to a handler. Events are debounced so
// an editor's write-then-rename burst triggers a single reload.
type Watcher struct {
	paths    []string
	watched  map[string]bool
	handler  Handler
	debounce time.Duration
	log      zerolog.Logger

	fw   *fsnotify.Watcher
	mu   sync.Mutex
	tmr  *time.Timer
	done chan struct{}
}

// Watch starts watching paths. The handler runs on a background
// goroutine after each successful reload; failed reloads are logged and
// skipped, keeping the previous tree in effect.
func Watch(paths []string, debounce time.Duration, log zerolog.Logger, handler Handler) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		paths:    paths,
		watched:  make(map[string]bool, len(paths)),
		handler:  handler,
		debounce: debounce,
		log:      log,
		fw:       fw,
		done:     make(chan struct{}),
	}

	// Watch the containing directories: rename-replace saves would
	// otherwise detach a direct file watch.
	dirs := map[string]bool{}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fw.Close()
			return nil, err
		}
		w.watched[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, err
		}
	}

	go w.loop()
	return w, nil
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fw.Close()
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !w.watched[abs] {
				continue
			}
			w.log.Debug().Str("file", abs).Str("op", event.Op.String()).Msg("config file changed")
			w.schedule()
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("watch error")
		}
	}
}

// schedule arms (or re-arms) the debounce timer.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.tmr != nil {
		w.tmr.Stop()
	}
	w.tmr = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	select {
	case <-w.done:
		return
	default:
	}

	tree, err := Load(w.paths...)
	if err != nil {
		w.log.Error().Err(err).Msg("reload failed, keeping previous configuration")
		return
	}
	w.log.Info().Int("apps", len(tree)).Msg("configuration reloaded")
	w.handler(tree)
}
