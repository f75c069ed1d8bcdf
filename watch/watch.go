// Package watch reloads a journal whenever it or one of its included files
// changes on disk.
//
// Example usage:
//
//	w := watch.New("main.journal",
//	    watch.OnReload(func(r *loader.Result) { fmt.Println(len(r.Journal.Transactions())) }),
//	    watch.OnError(func(err error) { fmt.Fprintln(os.Stderr, err) }),
//	)
//	if err := w.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package watch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/robinvdvleuten/hledger/loader"
	"github.com/robinvdvleuten/hledger/telemetry"
)

// DefaultDebounce is how long the watcher waits after a change before reloading.
// Editors often write a file in several steps.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reloads a journal when its files change.
type Watcher struct {
	path     string
	loader   *loader.Loader
	debounce time.Duration
	onReload func(*loader.Result)
	onError  func(error)

	reloadMu sync.Mutex // Serializes reloads

	mu      sync.RWMutex
	result  *loader.Result
	watched map[string]bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLoader sets the loader used to read the journal.
func WithLoader(ldr *loader.Loader) Option {
	return func(w *Watcher) {
		w.loader = ldr
	}
}

// WithDebounce sets the delay between the last change and the reload.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// OnReload registers fn to receive every successfully loaded journal, including
// the first.
func OnReload(fn func(*loader.Result)) Option {
	return func(w *Watcher) {
		w.onReload = fn
	}
}

// OnError registers fn to receive reload and watch errors. The previous journal
// stays current when a reload fails.
func OnError(fn func(error)) Option {
	return func(w *Watcher) {
		w.onError = fn
	}
}

// New creates a watcher for the journal at path.
func New(path string, opts ...Option) *Watcher {
	w := &Watcher{
		path:     path,
		debounce: DefaultDebounce,
		onReload: func(*loader.Result) {},
		onError:  func(error) {},
		watched:  make(map[string]bool),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.loader == nil {
		w.loader = loader.New()
	}
	return w
}

// Result returns the most recently loaded journal, or nil before the first load.
func (w *Watcher) Result() *loader.Result {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.result
}

// Run loads the journal and then watches its files until ctx is done. It fails
// only when the first load fails or the file system cannot be watched.
func (w *Watcher) Run(ctx context.Context) error {
	result, err := w.load(ctx)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	w.updateWatches(watcher, result)
	w.onReload(result)

	w.run(ctx, watcher)
	return nil
}

func (w *Watcher) load(ctx context.Context) (*loader.Result, error) {
	timer := telemetry.StartTimer(ctx, "watch.reload")
	defer timer.End()

	result, err := w.loader.Load(telemetry.WithTimer(ctx, timer), w.path)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	w.result = result
	w.mu.Unlock()
	return result, nil
}

// run processes file system events with debouncing.
func (w *Watcher) run(ctx context.Context, watcher *fsnotify.Watcher) {
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
		_ = watcher.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			// Remove and Rename are how atomic saves show up.
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(w.debounce, func() {
				w.handleChange(ctx, watcher)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.onError(fmt.Errorf("file watcher: %w", err))
		}
	}
}

// handleChange reloads the journal and updates the watch list.
func (w *Watcher) handleChange(ctx context.Context, watcher *fsnotify.Watcher) {
	w.reloadMu.Lock()
	defer w.reloadMu.Unlock()

	if ctx.Err() != nil {
		return
	}

	result, err := w.load(ctx)
	if err != nil {
		w.onError(err)
		// An atomic save replaces the file, which drops its watch.
		w.updateWatches(watcher, w.Result())
		return
	}

	w.updateWatches(watcher, result)
	w.onReload(result)
}

// updateWatches watches the root and every include of result, and stops watching
// files that are no longer included.
func (w *Watcher) updateWatches(watcher *fsnotify.Watcher, result *loader.Result) {
	if result == nil {
		return
	}

	files := append([]string{result.Root}, result.Includes...)
	current := make(map[string]bool, len(files))
	for _, file := range files {
		current[file] = true
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	for file := range w.watched {
		if !current[file] {
			_ = watcher.Remove(file)
		}
	}

	// Re-adding catches files that were re-created.
	for _, file := range files {
		if err := watcher.Add(file); err != nil {
			w.onError(fmt.Errorf("failed to watch %s: %w", file, err))
		}
	}
	w.watched = current
}

// Files returns the files currently watched.
func (w *Watcher) Files() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	files := make([]string, 0, len(w.watched))
	for file := range w.watched {
		files = append(files, file)
	}
	return files
}
