package file

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/porysuite/porybridge/internal/core/ports/driven"
	"github.com/porysuite/porybridge/internal/logger"
)

// Ensure Watcher implements the interface.
var _ driven.SchemaWatcher = (*Watcher)(nil)

// Watcher reports schema file changes so the registry can hot-reload.
// Editors fire bursts of filesystem events per save; a per-project
// limiter collapses each burst into one notification without letting one
// project's burst swallow another project's change.
type Watcher struct {
	dir    string
	fsw    *fsnotify.Watcher
	events chan string
	done   chan struct{}

	// limiters is keyed by project ID and only touched from the run
	// goroutine.
	limiters map[string]*rate.Limiter
}

// NewWatcher watches the schema directory and its per-project
// subdirectories.
func NewWatcher(dir string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		fsw.Close()
		return nil, err
	}
	for _, e := range entries {
		if e.IsDir() {
			if err := fsw.Add(filepath.Join(dir, e.Name())); err != nil {
				logger.Warn("Watching %s: %v", e.Name(), err)
			}
		}
	}

	w := &Watcher{
		dir:      dir,
		fsw:      fsw,
		events:   make(chan string, 8),
		done:     make(chan struct{}),
		limiters: make(map[string]*rate.Limiter),
	}
	go w.run()
	return w, nil
}

// Events returns the channel carrying changed project IDs.
func (w *Watcher) Events() <-chan string {
	return w.events
}

// Close stops watching and releases resources.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}

func (w *Watcher) run() {
	defer close(w.events)
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("Schema watcher: %v", err)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	// A new project directory must be watched from now on.
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.fsw.Add(event.Name); err != nil {
				logger.Warn("Watching %s: %v", event.Name, err)
			}
			return
		}
	}
	if !strings.HasSuffix(event.Name, ".toml") {
		return
	}

	projectID := w.projectOf(event.Name)
	if !w.allow(projectID) {
		return
	}

	logger.Debug("Schema change: %s (%s)", event.Name, event.Op)
	select {
	case w.events <- projectID:
	case <-w.done:
	default:
		// A pending notification already covers this burst.
	}
}

// allow rate-limits notifications for one project's burst.
func (w *Watcher) allow(projectID string) bool {
	lim, ok := w.limiters[projectID]
	if !ok {
		lim = rate.NewLimiter(rate.Every(500*time.Millisecond), 1)
		w.limiters[projectID] = lim
	}
	return lim.Allow()
}

// projectOf maps a changed file to its project directory name. Files at
// the top level invalidate everything.
func (w *Watcher) projectOf(path string) string {
	rel, err := filepath.Rel(w.dir, path)
	if err != nil {
		return ""
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) < 2 {
		return ""
	}
	return parts[0]
}
