package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Op is the kind of file event.
type Op int

const (
	// Add means a function file appeared.
	Add Op = iota

	// Remove means a function file disappeared.
	Remove

	// Change means an existing file's contents were written.
	Change
)

// String returns the op name for logs.
func (o Op) String() string {
	switch o {
	case Add:
		return "add"
	case Remove:
		return "remove"
	case Change:
		return "change"
	}
	return "unknown"
}

// Event is one file change under the watched root.
type Event struct {
	Op   Op
	Path string
}

// Watcher monitors the functions directory recursively and emits Events.
// Newly created subdirectories are added to the watch automatically.
type Watcher struct {
	root   string
	fsw    *fsnotify.Watcher
	events chan Event
	logger *slog.Logger
	ignore []string

	mu        sync.Mutex
	running   bool
	stopCh    chan struct{}
	stoppedCh chan struct{}
}

// Option is a functional option for configuring the watcher.
type Option func(*Watcher)

// WithLogger sets the logger for the watcher.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// WithIgnore excludes paths from watching. Patterns match the path
// relative to the root or its base name, with filepath.Match syntax.
// A matched directory is skipped entirely.
func WithIgnore(patterns []string) Option {
	return func(w *Watcher) {
		w.ignore = patterns
	}
}

// New creates a watcher over root. Start must be called before events
// are delivered.
func New(root string, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		root:      root,
		fsw:       fsw,
		events:    make(chan Event, 64),
		logger:    slog.Default(),
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// Events returns the event channel. It is closed when the watcher stops.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start seeds the watch by walking root, emitting an Add event for every
// existing file, then watches for changes until ctx is done or Stop is
// called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	seed, err := w.scanInitial()
	if err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		w.fsw.Close()
		return err
	}

	w.logger.Info("watching functions directory", "root", w.root, "files", len(seed))

	go w.loop(ctx, seed)
	return nil
}

// Stop stops the watcher and closes the event channel.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.stoppedCh

	return w.fsw.Close()
}

// scanInitial walks the root, registering directories with fsnotify, and
// returns the files found so they can be replayed as Add events.
func (w *Watcher) scanInitial() ([]string, error) {
	var files []string
	err := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if w.ignored(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return w.fsw.Add(path)
		}
		files = append(files, path)
		return nil
	})
	return files, err
}

// loop is the main watch loop. The seed files are emitted first so every
// index is built from the files present at startup.
func (w *Watcher) loop(ctx context.Context, seed []string) {
	defer close(w.stoppedCh)
	defer close(w.events)

	for _, path := range seed {
		w.emit(Event{Op: Add, Path: path})
	}

	for {
		select {
		case <-ctx.Done():
			return

		case <-w.stopCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleFsEvent(ev)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("watch error", "err", err)
		}
	}
}

// handleFsEvent translates one fsnotify event. Directory creation extends
// the watch and replays the new directory's contents as Add events, since
// files may land before the watch is registered.
func (w *Watcher) handleFsEvent(ev fsnotify.Event) {
	if w.ignored(ev.Name) {
		return
	}

	switch {
	case ev.Op.Has(fsnotify.Create):
		info, err := os.Stat(ev.Name)
		if err != nil {
			return
		}
		if info.IsDir() {
			if err := w.scanNewDir(ev.Name); err != nil {
				w.logger.Error("failed to watch new directory", "path", ev.Name, "err", err)
			}
			return
		}
		w.emit(Event{Op: Add, Path: ev.Name})

	case ev.Op.Has(fsnotify.Write):
		w.emit(Event{Op: Change, Path: ev.Name})

	case ev.Op.Has(fsnotify.Remove), ev.Op.Has(fsnotify.Rename):
		w.emit(Event{Op: Remove, Path: ev.Name})
	}
}

// scanNewDir registers a created directory and emits Add events for any
// files already inside it.
func (w *Watcher) scanNewDir(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if w.ignored(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return w.fsw.Add(path)
		}
		w.emit(Event{Op: Add, Path: path})
		return nil
	})
}

// ignored reports whether path matches an ignore pattern, by relative
// path or base name.
func (w *Watcher) ignored(path string) bool {
	if len(w.ignore) == 0 {
		return false
	}

	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)
	base := filepath.Base(path)

	for _, pattern := range w.ignore {
		if ok, _ := filepath.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
	}
	return false
}

// emit delivers an event, dropping it if the consumer stopped.
func (w *Watcher) emit(ev Event) {
	select {
	case w.events <- ev:
	case <-w.stopCh:
	}
}
