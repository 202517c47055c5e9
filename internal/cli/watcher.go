package cli

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/toyz/dudgen/internal/errors"
	"github.com/toyz/dudgen/internal/utils"
)

// Watcher regenerates when C# sources under the watched paths change
type Watcher struct {
	generator   *Generator
	scanner     *DirectoryScanner
	diagnostics *utils.DiagnosticSystem
	debounce    time.Duration
	patterns    []string
	manifests   map[string]bool

	mu    sync.Mutex
	timer *time.Timer
	runs  chan struct{}
}

// NewWatcher creates a watcher driving generator over patterns
func NewWatcher(generator *Generator, patterns []string, debounce time.Duration, diagnostics *utils.DiagnosticSystem) *Watcher {
	return &Watcher{
		generator:   generator,
		scanner:     NewDirectoryScanner(),
		diagnostics: diagnostics,
		debounce:    debounce,
		patterns:    patterns,
		manifests:   make(map[string]bool),
		runs:        make(chan struct{}, 1),
	}
}

// Watch generates once, then regenerates after every burst of source or
// manifest changes until ctx is done.
func (w *Watcher) Watch(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(errors.FileSystemErrorCode, "failed to create file watcher", err)
	}
	defer fsw.Close()

	dirs, err := w.scanner.WatchDirectories(w.patterns)
	if err != nil {
		return err
	}
	watched := make(map[string]bool, len(dirs))
	for _, dir := range dirs {
		watched[dir] = true
	}
	for _, path := range w.generator.ManifestPaths() {
		w.manifests[path] = true
		if dir := filepath.Dir(path); !watched[dir] {
			watched[dir] = true
			dirs = append(dirs, dir)
		}
	}

	for _, dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			return errors.WrapFileSystemError("watch", dir, err)
		}
		w.diagnostics.Debug("Watching %s", dir)
	}

	w.regenerate(ctx)
	w.diagnostics.Info("Watching %d directories for changes", len(dirs))

	for {
		select {
		case <-ctx.Done():
			w.stop()
			return nil

		case <-w.runs:
			w.regenerate(ctx)

		case event, ok := <-fsw.Events:
			if !ok {
				return errors.New(errors.FileSystemErrorCode, "watcher events channel closed")
			}
			w.handle(fsw, event)

		case err, ok := <-fsw.Errors:
			if !ok {
				return errors.New(errors.FileSystemErrorCode, "watcher errors channel closed")
			}
			w.diagnostics.Error("Watcher error: %v", err)
		}
	}
}

func (w *Watcher) handle(fsw *fsnotify.Watcher, event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		if stat, err := os.Stat(event.Name); err == nil && stat.IsDir() {
			if w.isWatchable(event.Name, stat) {
				w.diagnostics.Debug("Adding watcher for new directory: %s", event.Name)
				if err := fsw.Add(event.Name); err != nil {
					w.diagnostics.Warn("Cannot watch %s: %v", event.Name, err)
				}
			}
			return
		}
	}

	if w.isManifestEvent(event) {
		w.diagnostics.Debug("Manifest event: %s %s", event.Op, event.Name)
		w.schedule()
		return
	}

	if !IsSourceEvent(event) {
		return
	}

	w.diagnostics.Debug("File event: %s %s", event.Op, event.Name)
	w.generator.Invalidate(event.Name)
	w.schedule()
}

// IsSourceEvent reports whether an event concerns a hand-written C# file
func IsSourceEvent(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	name := filepath.Base(event.Name)
	return strings.HasSuffix(name, utils.SourceExtension) &&
		!strings.HasSuffix(name, utils.GeneratedExtension)
}

func (w *Watcher) isManifestEvent(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	path, err := filepath.Abs(event.Name)
	return err == nil && w.manifests[path]
}

// isWatchable reports whether a directory created under a recursive pattern
// should be watched too
func (w *Watcher) isWatchable(dir string, info os.FileInfo) bool {
	for _, pattern := range w.patterns {
		if _, recursive := utils.SplitPattern(pattern); recursive {
			return utils.DefaultDirectoryFilter()(dir, fs.FileInfoToDirEntry(info))
		}
	}
	return len(w.patterns) == 0
}

// schedule queues a regeneration once no event arrived for the debounce period
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case w.runs <- struct{}{}:
		default:
		}
	})
}

func (w *Watcher) stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
}

func (w *Watcher) regenerate(ctx context.Context) {
	summary, err := w.generator.Run(ctx, w.patterns)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		w.generator.Reporter().ReportError(err)
	}
	w.diagnostics.Success("Wrote %s, %d unchanged, in %s",
		pluralize(summary.Written, "file"), summary.Unchanged, summary.Duration.Round(time.Millisecond))
}
