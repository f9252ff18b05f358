package scanner

import (
	"os"
	"path/filepath"
	"strings"

	"medialib/internal/logging"
	"medialib/internal/mediatypes"

	"github.com/fsnotify/fsnotify"
)

// MediaCreatedFunc is called for every media file that appears under a
// watched library root, typically to queue background thumbnail work.
type MediaCreatedFunc func(path string, kind mediatypes.FileKind)

// Watch monitors a library root for new media files and invokes onCreate
// for each one. New directories are added to the watch set as they appear.
// Watch blocks until stop is closed.
func (s *Scanner) Watch(root string, onCreate MediaCreatedFunc, stop <-chan struct{}) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logging.Error("failed to create library watcher for %s: %v", root, err)
		return
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			logging.Error("failed to close library watcher: %v", err)
		}
	}()

	count := addWatchTree(watcher, root)
	logging.Debug("library watcher started on %s (%d directories)", root, count)

	for {
		select {
		case <-stop:
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Create == 0 {
				continue
			}
			handleCreate(watcher, event.Name, onCreate)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logging.Error("library watcher error: %v", err)
		}
	}
}

func handleCreate(watcher *fsnotify.Watcher, path string, onCreate MediaCreatedFunc) {
	name := filepath.Base(path)

	info, err := os.Stat(path)
	if err != nil {
		return
	}

	if info.IsDir() {
		if mediatypes.IsBlockedDirectory(name) {
			return
		}
		if err := watcher.Add(path); err != nil {
			logging.Warn("failed to watch new directory %s: %v", path, err)
		}
		return
	}

	if mediatypes.IsBlockedFile(name) {
		return
	}
	ext := strings.ToLower(filepath.Ext(name))
	kind := mediatypes.GetFileKind(ext)
	if kind == mediatypes.KindOther {
		return
	}
	if onCreate != nil {
		onCreate(path, kind)
	}
}

// addWatchTree registers root and all eligible subdirectories with the
// watcher and returns the number of directories watched.
func addWatchTree(watcher *fsnotify.Watcher, root string) int {
	count := 0
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			logging.Warn("watcher walk error at %s: %v", path, err)
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if path != root && mediatypes.IsBlockedDirectory(info.Name()) {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			logging.Warn("failed to watch %s: %v", path, err)
			return nil
		}
		count++
		return nil
	})
	if err != nil {
		logging.Error("failed to walk %s for watcher: %v", root, err)
	}
	return count
}
