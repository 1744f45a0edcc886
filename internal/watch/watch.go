// Package watch reruns a function when schema files matching a set of glob
// patterns change.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last change before the
// function runs.
const DefaultDebounce = 200 * time.Millisecond

// Watcher watches the directories a set of patterns can match in.
type Watcher struct {
	fsw      *fsnotify.Watcher
	patterns []string
	debounce time.Duration
	logger   *slog.Logger

	mu        sync.Mutex
	recursive map[string]bool // roots whose new subdirectories are added
}

// New creates a Watcher for patterns. A pattern with "**" watches its base
// directory and every directory below it; other patterns watch their base
// directory only.
func New(patterns []string, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "create watcher")
	}
	w := &Watcher{
		fsw:       fsw,
		debounce:  debounce,
		logger:    logger,
		recursive: make(map[string]bool),
	}

	for _, p := range patterns {
		abs, err := filepath.Abs(p)
		if err != nil {
			fsw.Close()
			return nil, errors.Wrapf(err, "resolve %s", p)
		}
		w.patterns = append(w.patterns, filepath.ToSlash(abs))

		base, rest := doublestar.SplitPattern(filepath.ToSlash(abs))
		dir := filepath.FromSlash(base)
		if strings.Contains(rest, "**") {
			w.recursive[dir] = true
			err = w.addTree(dir)
		} else {
			err = w.add(dir)
		}
		if err != nil {
			fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *Watcher) add(dir string) error {
	if err := w.fsw.Add(dir); err != nil {
		return errors.Wrapf(err, "watch %s", dir)
	}
	return nil
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		return w.add(path)
	})
}

// Matches reports whether path matches one of the watched patterns.
func (w *Watcher) Matches(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	for _, p := range w.patterns {
		if ok, _ := doublestar.Match(p, filepath.ToSlash(abs)); ok {
			return true
		}
	}
	return false
}

// Run calls fn after every burst of changes to matching files until ctx is
// done. Errors from fn are logged and watching continues.
func (w *Watcher) Run(ctx context.Context, fn func(context.Context) error) error {
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				w.maybeAddDir(event.Name)
			}
			if !w.Matches(event.Name) || event.Op == fsnotify.Chmod {
				continue
			}
			w.logger.Debug("schema change detected",
				slog.String("file", event.Name),
				slog.String("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if err := fn(ctx); err != nil {
				w.logger.Error("regeneration failed", slog.Any("error", err))
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", slog.Any("error", err))
		}
	}
}

// maybeAddDir starts watching a directory created below a recursive root.
func (w *Watcher) maybeAddDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	for root := range w.recursive {
		if rel, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(rel, "..") {
			if err := w.addTree(path); err != nil {
				w.logger.Warn("failed to watch new directory", slog.String("dir", path), slog.Any("error", err))
			}
			return
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
