package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for a burst of events to
// settle before reloading.
const DefaultDebounce = 150 * time.Millisecond

// Watcher watches a config file and the category files it references and
// reloads the config whenever one of them changes.
//
// It exists for the check --watch workflow; a running server never reloads.
type Watcher struct {
	path     string
	mu       sync.RWMutex
	config   *Config
	targets  map[string]bool // absolute config and category paths
	patterns map[string]bool // absolute glob category paths, base dir escaped
	dirs     map[string]bool
	watcher  *fsnotify.Watcher
	onChange func(*Config, error)
	debounce time.Duration
	done     chan struct{}
	stopped  chan struct{}
	once     sync.Once
}

// NewWatcher creates a new config watcher. An initial load failure is not
// fatal: the config directory is still watched so a fix can be picked up.
func NewWatcher(path string, onChange func(*Config, error)) (*Watcher, error) {
	return newWatcher(path, onChange, DefaultDebounce)
}

func newWatcher(path string, onChange func(*Config, error), debounce time.Duration) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:     path,
		targets:  make(map[string]bool),
		patterns: make(map[string]bool),
		dirs:     make(map[string]bool),
		watcher:  fsWatcher,
		onChange: onChange,
		debounce: debounce,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}

	// Watch the config file's directory (to handle editors that replace files)
	if err := w.track(path, false); err != nil {
		fsWatcher.Close()
		return nil, err
	}

	if cfg, err := Load(path); err == nil {
		w.config = cfg
		w.trackCategories(cfg)
	}

	go w.watch()

	return w, nil
}

// Config returns the most recently loaded valid configuration, or nil.
func (w *Watcher) Config() *Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.config
}

// track registers a file (or an absolute glob) as relevant and watches its
// directory.
func (w *Watcher) track(target string, pattern bool) error {
	abs, dir := target, ""
	if pattern {
		base, _ := doublestar.SplitPattern(filepath.ToSlash(target))
		dir = filepath.FromSlash(base)
	} else {
		var err error
		if abs, err = filepath.Abs(target); err != nil {
			return err
		}
		dir = filepath.Dir(abs)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if pattern {
		w.patterns[abs] = true
	} else {
		w.targets[abs] = true
	}
	if w.dirs[dir] {
		return nil
	}
	if err := w.watcher.Add(dir); err != nil {
		return err
	}
	w.dirs[dir] = true
	return nil
}

func (w *Watcher) trackCategories(cfg *Config) {
	base, err := filepath.Abs(cfg.Dir())
	if err != nil {
		slog.Warn("cannot resolve config directory", slog.String("error", err.Error()))
		return
	}

	for _, cat := range cfg.Categories {
		target, pattern := cat.Path, filepath.Clean(cat.Path)
		if !filepath.IsAbs(cat.Path) {
			target = filepath.Join(base, cat.Path)
			pattern = filepath.Join(EscapePattern(base), cat.Path)
		}
		if !IsPattern(cat.Path) {
			w.trackOrWarn(cat.Name, target, false)
			continue
		}
		// A file literally named like a glob is read as is.
		if _, err := os.Stat(target); err == nil {
			w.trackOrWarn(cat.Name, target, false)
		}
		w.trackOrWarn(cat.Name, pattern, true)
	}
}

func (w *Watcher) trackOrWarn(category, target string, pattern bool) {
	if err := w.track(target, pattern); err != nil {
		slog.Warn("cannot watch category file",
			slog.String("category", category),
			slog.String("path", target),
			slog.String("error", err.Error()),
		)
	}
}

// relevant reports whether an event path is the config or a category file.
func (w *Watcher) relevant(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}

	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.targets[abs] {
		return true
	}
	for pattern := range w.patterns {
		if ok, _ := doublestar.PathMatch(pattern, abs); ok {
			return true
		}
	}
	return false
}

// watch monitors for file changes.
func (w *Watcher) watch() {
	var timer *time.Timer
	var fire <-chan time.Time

	defer close(w.stopped)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if !w.relevant(event.Name) {
				continue
			}

			slog.Debug("watched file changed",
				slog.String("path", event.Name),
				slog.String("op", event.Op.String()),
			)

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("config watcher error", slog.String("error", err.Error()))
		}
	}
}

// reload reloads the config from disk and notifies the callback.
func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		slog.Error("failed to reload config",
			slog.String("path", w.path),
			slog.String("error", err.Error()),
		)
	} else {
		w.mu.Lock()
		w.config = cfg
		w.mu.Unlock()
		w.trackCategories(cfg)
		slog.Info("config reloaded", slog.String("path", w.path))
	}

	if w.onChange != nil {
		w.onChange(cfg, err)
	}
}

// Close stops watching and waits for an in-flight onChange call to return.
// It must not be called from onChange.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.watcher.Close()
		<-w.stopped
	})
	return err
}

// IsPattern reports whether a category path uses glob syntax.
func IsPattern(path string) bool {
	return strings.ContainsAny(path, "*?[{")
}

var patternEscaper = strings.NewReplacer(
	"*", `\*`, "?", `\?`, "[", `\[`, "]", `\]`, "{", `\{`, "}", `\}`,
)

// EscapePattern escapes glob metacharacters so that path matches only itself
// when used as the prefix of a pattern.
func EscapePattern(path string) string {
	return patternEscaper.Replace(path)
}
