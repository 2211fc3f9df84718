// Package watch keeps the index in step with a directory using fsnotify.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/membox/internal/core/domain"
	"github.com/custodia-labs/membox/internal/core/ports/driving"
	"github.com/custodia-labs/membox/internal/logger"
)

const (
	// DefaultDebounce is the quiet period a file needs before it is indexed.
	DefaultDebounce = time.Duration(domain.DefaultWatchDebounce) * time.Millisecond

	// DefaultRate is the sustained number of files handled per second.
	DefaultRate = 2.0

	// DefaultBurst is how many files may be handled back to back.
	DefaultBurst = 1

	queueSize = 64
)

// Action describes what happened to a watched file.
type Action string

const (
	ActionIndexed   Action = Action(domain.IndexStatusIndexed)
	ActionUnchanged Action = Action(domain.IndexStatusUnchanged)
	ActionDeleted   Action = "deleted"
	ActionFailed    Action = "failed"
)

// Event reports the outcome for one settled file.
type Event struct {
	Path   string
	Action Action
	Err    error
}

// Config controls a Watcher.
type Config struct {
	// Dir is the directory to watch. Subdirectories are not watched.
	Dir string

	// Glob filters file base names. Defaults to domain.DefaultGlob.
	Glob string

	// MinChars is passed through to IndexDocument.
	MinChars int

	// Debounce is the quiet period before a file is handled.
	Debounce time.Duration

	// Rate and Burst throttle the worker.
	Rate  float64
	Burst int
}

func (c Config) withDefaults() Config {
	if c.Glob == "" {
		c.Glob = domain.DefaultGlob
	}
	if c.Debounce <= 0 {
		c.Debounce = DefaultDebounce
	}
	if c.Rate <= 0 {
		c.Rate = DefaultRate
	}
	if c.Burst <= 0 {
		c.Burst = DefaultBurst
	}
	return c
}

// change is a settled file waiting for the worker.
type change struct {
	path    string
	removed bool
}

// Watcher indexes files in one directory as they change.
type Watcher struct {
	cfg     Config
	dir     string
	index   driving.IndexService
	docs    driving.DocumentService
	limiter *rate.Limiter

	mu      sync.Mutex
	onEvent func(Event)
}

// New validates cfg and returns a watcher. docs may be nil, in which case
// removed files keep their documents.
func New(cfg Config, index driving.IndexService, docs driving.DocumentService) (*Watcher, error) {
	if index == nil {
		return nil, errors.New("watch: index service is required")
	}
	cfg = cfg.withDefaults()

	if _, err := filepath.Match(cfg.Glob, ""); err != nil {
		return nil, fmt.Errorf("%w: glob %q: %w", domain.ErrInvalidInput, cfg.Glob, err)
	}

	dir, err := filepath.Abs(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", cfg.Dir, err)
	}
	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		dir = resolved
	}
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("directory %s: %w", cfg.Dir, domain.ErrNotFound)
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidInput, cfg.Dir)
	}

	return &Watcher{
		cfg:     cfg,
		dir:     dir,
		index:   index,
		docs:    docs,
		limiter: rate.NewLimiter(rate.Limit(cfg.Rate), cfg.Burst),
	}, nil
}

// Dir returns the resolved directory being watched.
func (w *Watcher) Dir() string {
	return w.dir
}

// OnEvent registers a callback for every handled file. It runs on the
// worker goroutine.
func (w *Watcher) OnEvent(fn func(Event)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onEvent = fn
}

func (w *Watcher) emit(e Event) {
	w.mu.Lock()
	fn := w.onEvent
	w.mu.Unlock()
	if fn != nil {
		fn(e)
	}
}

// Run watches until ctx is cancelled. Cancellation is a clean stop and
// returns nil.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}
	logger.Info("Watching %s for %s", w.dir, w.cfg.Glob)

	queue := make(chan change, queueSize)
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.work(ctx, queue)
	}()

	stop := make(chan struct{})
	fired := make(chan string)
	timers := make(map[string]*time.Timer)
	pending := make(map[string]bool)

	defer func() {
		close(stop)
		for _, t := range timers {
			t.Stop()
		}
		close(queue)
		<-done
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			c, ok := w.classify(ev)
			if !ok {
				continue
			}
			pending[c.path] = c.removed
			if t, ok := timers[c.path]; ok {
				t.Reset(w.cfg.Debounce)
				continue
			}
			path := c.path
			timers[path] = time.AfterFunc(w.cfg.Debounce, func() {
				select {
				case fired <- path:
				case <-stop:
				}
			})

		case path := <-fired:
			delete(timers, path)
			removed, ok := pending[path]
			if !ok {
				continue
			}
			delete(pending, path)
			select {
			case queue <- change{path: path, removed: removed}:
			case <-ctx.Done():
				return nil
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch: %v", err)
		}
	}
}

// classify maps a raw event to a change. Hidden files, directories,
// chmod-only events and names outside the glob are dropped. A rename
// reports the old name, so it is treated as a removal; the new name
// arrives as its own Create.
func (w *Watcher) classify(ev fsnotify.Event) (change, bool) {
	base := filepath.Base(ev.Name)
	if strings.HasPrefix(base, ".") {
		return change{}, false
	}
	if ok, _ := filepath.Match(w.cfg.Glob, base); !ok {
		return change{}, false
	}

	switch {
	case ev.Has(fsnotify.Create), ev.Has(fsnotify.Write):
		info, err := os.Stat(ev.Name)
		if err != nil {
			return change{path: ev.Name, removed: true}, true
		}
		if info.IsDir() {
			return change{}, false
		}
		return change{path: ev.Name}, true
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		return change{path: ev.Name, removed: true}, true
	default:
		return change{}, false
	}
}

// work drains the queue one file at a time under the rate limit.
func (w *Watcher) work(ctx context.Context, queue <-chan change) {
	for c := range queue {
		if err := w.limiter.Wait(ctx); err != nil {
			continue
		}
		if e, ok := w.apply(ctx, c); ok {
			w.emit(e)
		}
	}
}

func (w *Watcher) apply(ctx context.Context, c change) (Event, bool) {
	if !c.removed {
		if _, err := os.Stat(c.path); err != nil {
			c.removed = true
		}
	}

	if c.removed {
		if w.docs == nil {
			return Event{}, false
		}
		err := w.docs.Delete(ctx, c.path)
		if errors.Is(err, domain.ErrNotFound) {
			return Event{}, false
		}
		if err != nil {
			logger.Warn("watch: deleting %s: %v", c.path, err)
			return Event{Path: c.path, Action: ActionFailed, Err: err}, true
		}
		logger.Debug("watch: deleted %s", c.path)
		return Event{Path: c.path, Action: ActionDeleted}, true
	}

	result, err := w.index.IndexDocument(ctx, c.path, domain.IndexOptions{
		MinChars: w.cfg.MinChars,
		Glob:     w.cfg.Glob,
	})
	if err != nil {
		logger.Warn("watch: indexing %s: %v", c.path, err)
		return Event{Path: c.path, Action: ActionFailed, Err: err}, true
	}
	logger.Debug("watch: %s %s (%d chunks)", result.Status, c.path, result.Chunks)
	return Event{Path: c.path, Action: Action(result.Status)}, true
}
