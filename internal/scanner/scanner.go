package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"medialib/internal/logging"
	"medialib/internal/mediatypes"
	"medialib/internal/metrics"
	"medialib/internal/pathsafe"
)

// FolderNode describes one subdirectory in a folder listing. Nodes are
// derived on demand and never persisted.
type FolderNode struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	RelativePath string `json:"relativePath"`
	HasChildren  bool   `json:"hasChildren"`
}

// MediaFile describes one media file in a folder listing. Identity for
// caching purposes is (AbsolutePath, ModTime).
type MediaFile struct {
	AbsolutePath string              `json:"-"`
	RelativePath string              `json:"relativePath"`
	Filename     string              `json:"filename"`
	Extension    string              `json:"extension"`
	Kind         mediatypes.FileKind `json:"kind"`
	ModTime      time.Time           `json:"-"`
}

// MediaFileFromPath builds the listing entry for a single already-resolved
// file, outside of a directory scan.
func MediaFileFromPath(absolute, relative string, info os.FileInfo) MediaFile {
	ext := strings.ToLower(filepath.Ext(absolute))
	return MediaFile{
		AbsolutePath: absolute,
		RelativePath: relative,
		Filename:     filepath.Base(absolute),
		Extension:    ext,
		Kind:         mediatypes.GetFileKind(ext),
		ModTime:      info.ModTime(),
	}
}

// Scanner lists folders and media files under a library root. All listings
// are shallow; a single unreadable entry is logged and skipped, never
// aborting the whole listing.
type Scanner struct{}

// New creates a Scanner.
func New() *Scanner {
	return &Scanner{}
}

// ListFolders returns the immediate subdirectories of root/relative,
// excluding dot-directories and OS/NAS housekeeping directories, sorted by
// name case-insensitively.
func (s *Scanner) ListFolders(root, relative string) ([]FolderNode, error) {
	resolved, err := pathsafe.Resolve(root, relative)
	if err != nil {
		metrics.ScannerOperationsTotal.WithLabelValues("list_folders", "error").Inc()
		return nil, err
	}

	entries, err := os.ReadDir(resolved)
	if err != nil {
		metrics.ScannerOperationsTotal.WithLabelValues("list_folders", "error").Inc()
		return nil, err
	}

	folders := make([]FolderNode, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() || mediatypes.IsBlockedDirectory(entry.Name()) {
			continue
		}

		childPath := filepath.Join(resolved, entry.Name())
		rel := joinRelative(relative, entry.Name())

		folders = append(folders, FolderNode{
			ID:           rel,
			Name:         entry.Name(),
			RelativePath: rel,
			HasChildren:  hasEligibleChild(childPath),
		})
	}

	sort.Slice(folders, func(i, j int) bool {
		return strings.ToLower(folders[i].Name) < strings.ToLower(folders[j].Name)
	})

	metrics.ScannerOperationsTotal.WithLabelValues("list_folders", "success").Inc()
	return folders, nil
}

// ListMediaFiles returns the immediate media files of root/relative,
// excluding dotfiles and OS metadata files, sorted by filename
// case-insensitively. It does not recurse.
func (s *Scanner) ListMediaFiles(root, relative string) ([]MediaFile, error) {
	resolved, err := pathsafe.Resolve(root, relative)
	if err != nil {
		metrics.ScannerOperationsTotal.WithLabelValues("list_media", "error").Inc()
		return nil, err
	}

	entries, err := os.ReadDir(resolved)
	if err != nil {
		metrics.ScannerOperationsTotal.WithLabelValues("list_media", "error").Inc()
		return nil, err
	}

	files := make([]MediaFile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || mediatypes.IsBlockedFile(entry.Name()) {
			continue
		}

		ext := strings.ToLower(filepath.Ext(entry.Name()))
		kind := mediatypes.GetFileKind(ext)
		if kind == mediatypes.KindOther {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			logging.Warn("skipping unreadable entry %s: %v", entry.Name(), err)
			metrics.ScannerItemsSkipped.WithLabelValues("list_media").Inc()
			continue
		}

		files = append(files, MediaFile{
			AbsolutePath: filepath.Join(resolved, entry.Name()),
			RelativePath: joinRelative(relative, entry.Name()),
			Filename:     entry.Name(),
			Extension:    ext,
			Kind:         kind,
			ModTime:      info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return strings.ToLower(files[i].Filename) < strings.ToLower(files[j].Filename)
	})

	metrics.ScannerOperationsTotal.WithLabelValues("list_media", "success").Inc()
	return files, nil
}

// hasEligibleChild reports whether dir contains at least one subdirectory
// that is not blocked. Errors count as "no children" since the directory is
// unreadable anyway.
func hasEligibleChild(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		logging.Debug("cannot probe children of %s: %v", dir, err)
		metrics.ScannerItemsSkipped.WithLabelValues("list_folders").Inc()
		return false
	}
	for _, entry := range entries {
		if entry.IsDir() && !mediatypes.IsBlockedDirectory(entry.Name()) {
			return true
		}
	}
	return false
}

// joinRelative joins relative path segments using forward slashes, keeping
// the result library-relative.
func joinRelative(parent, name string) string {
	if parent == "" || parent == "." {
		return name
	}
	return strings.TrimSuffix(parent, "/") + "/" + name
}
