// Package watch re-applies the schema whenever the schema file changes
// on disk. Ensure is idempotent, so replays cost nothing.
package watch

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

const defaultDebounce = 500 * time.Millisecond

// ApplyFunc reloads and applies the schema file. It is called once on
// start and again after each (debounced) change to the file.
type ApplyFunc func(ctx context.Context) error

// Watcher watches a single schema file for writes.
type Watcher struct {
	path     string
	apply    ApplyFunc
	debounce time.Duration

	watcher *fsnotify.Watcher
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	mu      sync.Mutex
	pending *time.Timer
	running bool
}

// New creates a watcher for the given schema file.
func New(path string, debounce time.Duration, apply ApplyFunc) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if debounce <= 0 {
		debounce = defaultDebounce
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Watcher{
		path:     path,
		apply:    apply,
		debounce: debounce,
		watcher:  fsWatcher,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Start applies the schema once, then begins watching for changes.
// The watch is on the parent directory; editors typically replace the
// file rather than write it in place, and a directory watch survives
// that.
func (w *Watcher) Start() error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.apply(w.ctx); err != nil {
		w.abort()
		return err
	}

	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		w.abort()
		return err
	}

	w.wg.Add(1)
	go w.eventLoop()

	log.Info().Str("path", w.path).Msg("Schema watcher started")
	return nil
}

// Stop stops the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	if w.pending != nil {
		w.pending.Stop()
		w.pending = nil
	}
	w.mu.Unlock()

	w.cancel()
	w.watcher.Close()
	w.wg.Wait()

	log.Info().Msg("Schema watcher stopped")
}

// abort releases the watcher after a failed Start, before the event
// loop exists.
func (w *Watcher) abort() {
	w.mu.Lock()
	w.running = false
	w.mu.Unlock()

	w.cancel()
	w.watcher.Close()
}

func (w *Watcher) eventLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Error().Err(err).Msg("Watcher error")
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}
	if filepath.Base(event.Name) != filepath.Base(w.path) {
		return
	}

	// Reset the debounce window on every event burst
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	if w.pending != nil {
		w.pending.Reset(w.debounce)
		return
	}
	w.pending = time.AfterFunc(w.debounce, w.fireApply)

	log.Debug().Str("path", event.Name).Str("debounce", w.debounce.String()).Msg("Scheduled schema reapply")
}

func (w *Watcher) fireApply() {
	w.mu.Lock()
	w.pending = nil
	w.mu.Unlock()

	log.Info().Str("path", w.path).Msg("Schema file changed; reapplying")
	if err := w.apply(w.ctx); err != nil {
		log.Error().Err(err).Msg("Failed to reapply schema")
	}
}
