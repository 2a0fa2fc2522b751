// Package watch turns filesystem changes under a notebooks directory into
// activity observations.
package watch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/vigil/internal/models"
	"github.com/starford/vigil/internal/notebook"
)

const checkpointsDir = ".ipynb_checkpoints"

// Recorder accepts activity observations derived from file changes.
type Recorder interface {
	Observe(source, path string, at time.Time)
}

// Watcher observes create/write events on .ipynb files under a root
// directory. Re-saves with identical bytes are deduplicated by content hash,
// and files that do not parse as notebooks are ignored.
type Watcher struct {
	root   string
	rec    Recorder
	logger *slog.Logger
	now    func() time.Time

	// sums is only touched by the seed pass and the event loop goroutine.
	sums map[string]string
}

// New creates a Watcher over root. The root must be an existing directory.
func New(root string, rec Recorder, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("watch: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch: root %s is not a directory", root)
	}
	return &Watcher{
		root:   root,
		rec:    rec,
		logger: logger,
		now:    time.Now,
		sums:   make(map[string]string),
	}, nil
}

// Run seeds the recorder from disk, then processes fsnotify events until ctx
// is cancelled. New directories created at runtime are added to the watch.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer fsw.Close()

	if err := addDirsRecursive(fsw, w.root); err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	w.seed()

	w.logger.Info("watcher: started", slog.String("root", w.root))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watcher: stopped")
			return nil

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(fsw, ev)

		case watchErr, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

func (w *Watcher) handleEvent(fsw *fsnotify.Watcher, ev fsnotify.Event) {
	absPath := ev.Name

	if skipPath(absPath) {
		return
	}

	// New directories: add to watcher and pick up notebooks already inside.
	if ev.Op&fsnotify.Create != 0 {
		if info, statErr := os.Stat(absPath); statErr == nil && info.IsDir() {
			if addErr := addDirsRecursive(fsw, absPath); addErr != nil {
				w.logger.Warn("watcher: add new dir failed",
					slog.String("path", absPath),
					slog.String("error", addErr.Error()))
			} else {
				w.logger.Debug("watcher: watching new dir", slog.String("path", absPath))
			}
			w.observeDir(absPath)
			return
		}
	}

	if !strings.HasSuffix(absPath, ".ipynb") {
		return
	}
	if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}
	w.observeFile(absPath, w.now().UTC())
}

// observeFile records activity for one notebook file if its content changed
// since the last time it was seen.
func (w *Watcher) observeFile(absPath string, at time.Time) {
	rel, err := filepath.Rel(w.root, absPath)
	if err != nil {
		return
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		w.logger.Warn("watcher: read failed", slog.String("path", rel), slog.String("error", err.Error()))
		return
	}
	if _, err := notebook.Parse(data); err != nil {
		w.logger.Debug("watcher: not a notebook", slog.String("path", rel), slog.String("error", err.Error()))
		return
	}

	sum := checksum(data)
	if w.sums[rel] == sum {
		return
	}
	w.sums[rel] = sum

	w.logger.Debug("watcher: notebook changed", slog.String("path", rel))
	w.rec.Observe(models.SourceWatch, rel, at)
}

// observeDir picks up notebooks that already exist in a newly watched dir.
func (w *Watcher) observeDir(dirPath string) {
	_ = filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if skipPath(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, ".ipynb") && !skipPath(path) {
			w.observeFile(path, w.now().UTC())
		}
		return nil
	})
}

// seed primes the dedupe map with every notebook on disk and reports the
// most recently modified one, so the record reflects the last known activity
// after a restart.
func (w *Watcher) seed() {
	var latestPath string
	var latestMod time.Time

	_ = filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if skipPath(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".ipynb") || skipPath(path) {
			return nil
		}

		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil
		}
		if _, parseErr := notebook.Parse(data); parseErr != nil {
			return nil
		}

		rel, relErr := filepath.Rel(w.root, path)
		if relErr != nil {
			return nil
		}
		w.sums[rel] = checksum(data)

		if info, infoErr := d.Info(); infoErr == nil && info.ModTime().After(latestMod) {
			latestMod = info.ModTime()
			latestPath = rel
		}
		return nil
	})

	if latestPath != "" {
		w.logger.Info("watcher: seeded last activity",
			slog.String("path", latestPath),
			slog.Time("modified", latestMod))
		w.rec.Observe(models.SourceWatch, latestPath, latestMod.UTC())
	}
}

// skipPath reports whether the path lies inside a checkpoints directory.
func skipPath(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == checkpointsDir {
			return true
		}
	}
	return false
}

// addDirsRecursive adds root and all its subdirectories to the watcher,
// skipping checkpoint directories.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if skipPath(path) {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}

func checksum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
