// Package watch compares office documents as they land in a directory.
// It is meant for download directories written by a browser automation
// harness: each finished DOCX is compared with its baseline once writes
// to it have settled.
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

	"github.com/custodia-labs/docsnap/internal/core/domain"
	"github.com/custodia-labs/docsnap/internal/core/ports/driving"
	"github.com/custodia-labs/docsnap/internal/logger"
	"github.com/custodia-labs/docsnap/internal/normalisers/docx"
)

// DefaultDebounce is how long a file must stay quiet before it is compared.
const DefaultDebounce = 500 * time.Millisecond

// Event reports the comparison of one file.
type Event struct {
	// Path is the compared document.
	Path string

	// Result is set when the comparison ran.
	Result *domain.ComparisonResult

	// Err is set when the comparison failed.
	Err error
}

// Handler receives events. It is called from the watcher's goroutine, one
// event at a time.
type Handler func(Event)

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a file is compared.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithFilter replaces the default file filter (docx.IsSupported).
func WithFilter(filter func(path string) bool) Option {
	return func(w *Watcher) {
		if filter != nil {
			w.filter = filter
		}
	}
}

// Watcher compares documents written into a directory.
type Watcher struct {
	service  driving.SnapshotService
	dir      string
	handler  Handler
	debounce time.Duration
	filter   func(path string) bool
}

// New creates a watcher for dir.
func New(service driving.SnapshotService, dir string, handler Handler, opts ...Option) *Watcher {
	w := &Watcher{
		service:  service,
		dir:      dir,
		handler:  handler,
		debounce: DefaultDebounce,
		filter:   docx.IsSupported,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// settled is sent when a file's debounce timer fires. gen guards against
// timers that fired while being reset.
type settled struct {
	path string
	gen  int
}

// debouncer delays each path until it has been quiet for delay. Fired
// timers deliver on ready, or give up once done is closed.
type debouncer struct {
	delay   time.Duration
	ready   chan settled
	done    chan struct{}
	pending map[string]*time.Timer
	gens    map[string]int
	wg      sync.WaitGroup
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:   delay,
		ready:   make(chan settled),
		done:    make(chan struct{}),
		pending: make(map[string]*time.Timer),
		gens:    make(map[string]int),
	}
}

// schedule (re)starts the timer for path.
func (d *debouncer) schedule(path string) {
	d.gens[path]++
	gen := d.gens[path]
	if t, ok := d.pending[path]; ok && t.Stop() {
		d.wg.Done()
	}

	d.wg.Add(1)
	d.pending[path] = time.AfterFunc(d.delay, func() {
		defer d.wg.Done()
		select {
		case d.ready <- settled{path: path, gen: gen}:
		case <-d.done:
		}
	})
}

// settle reports whether s is the latest timer for its path and forgets it.
func (d *debouncer) settle(s settled) bool {
	if d.gens[s.path] != s.gen {
		return false
	}
	if t, ok := d.pending[s.path]; ok && t.Stop() {
		d.wg.Done()
	}
	delete(d.pending, s.path)
	delete(d.gens, s.path)
	return true
}

// stop cancels pending timers and waits for fired ones to return.
func (d *debouncer) stop() {
	close(d.done)
	for _, t := range d.pending {
		if t.Stop() {
			d.wg.Done()
		}
	}
	d.wg.Wait()
}

// Run watches until ctx is cancelled. Files are compared sequentially.
func (w *Watcher) Run(ctx context.Context) error {
	if w.service == nil {
		return fmt.Errorf("snapshot service is required: %w", domain.ErrInvalidInput)
	}

	info, err := os.Stat(w.dir)
	if err != nil {
		return fmt.Errorf("watch directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watch directory %s is not a directory: %w", w.dir, domain.ErrInvalidInput)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}
	logger.Info("watching %s", w.dir)

	deb := newDebouncer(w.debounce)
	defer deb.stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if w.relevant(ev) {
				logger.Debug("%s: %s", ev.Op, ev.Name)
				deb.schedule(ev.Name)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error: %v", err)

		case s := <-deb.ready:
			if !deb.settle(s) {
				continue
			}
			w.compare(ctx, s.path)
		}
	}
}

// relevant reports whether an event should trigger a comparison.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return false
	}
	if strings.HasPrefix(filepath.Base(ev.Name), ".") {
		return false
	}
	return w.filter(ev.Name)
}

func (w *Watcher) compare(ctx context.Context, path string) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		// Renamed or removed before it settled.
		return
	}

	result, err := w.service.CompareWithSnapshot(ctx, path, "")
	if errors.Is(err, context.Canceled) {
		return
	}
	if w.handler != nil {
		w.handler(Event{Path: path, Result: result, Err: err})
	}
}
