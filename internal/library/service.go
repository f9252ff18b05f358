// Package library is the facade over the media access layer: a registry of
// library roots plus the operations the HTTP layer exposes. Every path
// coming in from a caller passes through pathsafe before touching disk.
package library

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"medialib/internal/cache"
	"medialib/internal/logging"
	"medialib/internal/mediatypes"
	"medialib/internal/metadata"
	"medialib/internal/navigate"
	"medialib/internal/pathsafe"
	"medialib/internal/scanner"
)

var (
	// ErrUnknownLibrary marks a library id with no registered root.
	ErrUnknownLibrary = errors.New("unknown library")
	// ErrNotFound marks a path that resolved safely but does not exist.
	ErrNotFound = errors.New("not found")
)

// smallJPEGBypassBytes is the size under which a JPEG is served as-is
// instead of going through the cache; resizing such files saves nothing.
const smallJPEGBypassBytes = 512 * 1024

// Library is one registered media root.
type Library struct {
	ID   string `json:"id"`
	Root string `json:"-"`
}

// MediaItem is a listed file enriched with its review state and whether a
// thumbnail is already available.
type MediaItem struct {
	scanner.MediaFile
	ReviewStatus metadata.ReviewStatus `json:"reviewStatus"`
	HasThumbnail bool                  `json:"hasThumbnail"`
}

// MediaDetail is the full view of a single file.
type MediaDetail struct {
	File       scanner.MediaFile          `json:"file"`
	Logical    metadata.LogicalMetadata   `json:"logical"`
	Technical  metadata.TechnicalMetadata `json:"technical"`
	HasSidecar bool                       `json:"hasSidecar"`
}

// UpdateOutcome reports a metadata update: the re-read state after the
// write plus whether the review-status portion was skipped.
type UpdateOutcome struct {
	Metadata      metadata.LogicalMetadata `json:"metadata"`
	ReviewSkipped bool                     `json:"reviewSkipped,omitempty"`
}

// Service wires the scanner, metadata store, cache, pool and navigator
// behind a library-id keyed API.
type Service struct {
	libraries map[string]string
	scanner   *scanner.Scanner
	store     *metadata.Store
	cache     *cache.Cache
	pool      *cache.Pool
	nav       *navigate.Navigator
}

// NewService creates a Service over the given id→root map. Roots must be
// absolute paths.
func NewService(libraries map[string]string, sc *scanner.Scanner, store *metadata.Store, c *cache.Cache, pool *cache.Pool) *Service {
	return &Service{
		libraries: libraries,
		scanner:   sc,
		store:     store,
		cache:     c,
		pool:      pool,
		nav:       navigate.New(sc, store),
	}
}

// Libraries returns the registered libraries sorted by id.
func (s *Service) Libraries() []Library {
	out := make([]Library, 0, len(s.libraries))
	for id, root := range s.libraries {
		out = append(out, Library{ID: id, Root: root})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// root returns the registered root for a library id.
func (s *Service) root(libraryID string) (string, error) {
	root, ok := s.libraries[libraryID]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownLibrary, libraryID)
	}
	return root, nil
}

// resolveFile resolves a relative path inside a library and requires the
// target to be an existing regular file.
func (s *Service) resolveFile(libraryID, relative string) (string, os.FileInfo, error) {
	root, err := s.root(libraryID)
	if err != nil {
		return "", nil, err
	}
	abs, err := pathsafe.Resolve(root, relative)
	if err != nil {
		return "", nil, err
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %s", ErrNotFound, relative)
	}
	if fi.IsDir() {
		return "", nil, fmt.Errorf("%w: %s is a directory", ErrNotFound, relative)
	}
	return abs, fi, nil
}

// ListFolders returns the immediate subfolders of a library folder.
func (s *Service) ListFolders(libraryID, relative string) ([]scanner.FolderNode, error) {
	root, err := s.root(libraryID)
	if err != nil {
		return nil, err
	}
	return s.scanner.ListFolders(root, relative)
}

// ListMedia returns the media files of a folder under the given filter,
// enriched with review status and thumbnail availability. Files without a
// thumbnail are queued for background generation.
func (s *Service) ListMedia(ctx context.Context, libraryID, relative string, filter navigate.Filter) ([]MediaItem, error) {
	root, err := s.root(libraryID)
	if err != nil {
		return nil, err
	}

	files, err := s.nav.ListFiltered(ctx, root, relative, filter)
	if err != nil {
		return nil, err
	}

	items := make([]MediaItem, 0, len(files))
	for _, f := range files {
		item := MediaItem{MediaFile: f}
		item.ReviewStatus = s.store.ReadLogical(ctx, f.AbsolutePath).ReviewStatus
		item.HasThumbnail = s.cache.HasCached(f.AbsolutePath, f.ModTime, cache.VariantThumb)
		if !item.HasThumbnail {
			s.pool.Submit(&cache.Task{
				Path:    f.AbsolutePath,
				Kind:    f.Kind,
				ModTime: f.ModTime,
				Variant: cache.VariantThumb,
			})
		}
		items = append(items, item)
	}
	return items, nil
}

// MediaDetail returns the file entry with its logical and technical
// metadata.
func (s *Service) MediaDetail(ctx context.Context, libraryID, relative string) (MediaDetail, error) {
	abs, fi, err := s.resolveFile(libraryID, relative)
	if err != nil {
		return MediaDetail{}, err
	}

	file := scanner.MediaFileFromPath(abs, relative, fi)
	return MediaDetail{
		File:       file,
		Logical:    s.store.ReadLogical(ctx, abs),
		Technical:  s.store.ReadTechnical(ctx, abs),
		HasSidecar: metadata.SidecarExists(abs),
	}, nil
}

// UpdateMetadata applies a partial metadata update and returns the
// re-read state. A failed target surfaces as an error; a skipped review
// write surfaces in the outcome.
func (s *Service) UpdateMetadata(ctx context.Context, libraryID, relative string, update metadata.Update) (UpdateOutcome, error) {
	abs, _, err := s.resolveFile(libraryID, relative)
	if err != nil {
		return UpdateOutcome{}, err
	}
	if update.IsEmpty() {
		return UpdateOutcome{Metadata: s.store.ReadLogical(ctx, abs)}, nil
	}

	isImage := mediatypes.GetFileKind(strings.ToLower(filepath.Ext(abs))) == mediatypes.KindImage
	result := s.store.Write(ctx, abs, update, isImage)
	if err := result.Err(); err != nil {
		return UpdateOutcome{}, err
	}

	return UpdateOutcome{
		Metadata:      s.store.ReadLogical(ctx, abs),
		ReviewSkipped: result.ReviewSkipped,
	}, nil
}

// Thumbnail returns the on-disk path to serve for a file's thumbnail,
// generating it on demand. Small JPEGs bypass the cache.
func (s *Service) Thumbnail(ctx context.Context, libraryID, relative string) (string, error) {
	return s.artifact(ctx, libraryID, relative, cache.VariantThumb)
}

// Preview returns the on-disk path to serve for a file's preview,
// generating it on demand. Small JPEGs bypass the cache.
func (s *Service) Preview(ctx context.Context, libraryID, relative string) (string, error) {
	return s.artifact(ctx, libraryID, relative, cache.VariantPreview)
}

func (s *Service) artifact(ctx context.Context, libraryID, relative string, variant cache.Variant) (string, error) {
	abs, fi, err := s.resolveFile(libraryID, relative)
	if err != nil {
		return "", err
	}

	kind := mediatypes.GetFileKind(strings.ToLower(filepath.Ext(abs)))
	if kind == mediatypes.KindOther {
		return "", fmt.Errorf("%w: %s is not a media file", ErrNotFound, relative)
	}

	if isSmallJPEG(abs, fi) {
		logging.Debug("serving %s directly, below bypass threshold", abs)
		return abs, nil
	}

	return s.cache.Get(ctx, abs, kind, variant)
}

// QueueThumbnail schedules background thumbnail generation for a file.
func (s *Service) QueueThumbnail(libraryID, relative string) error {
	abs, fi, err := s.resolveFile(libraryID, relative)
	if err != nil {
		return err
	}
	kind := mediatypes.GetFileKind(strings.ToLower(filepath.Ext(abs)))
	if kind == mediatypes.KindOther {
		return fmt.Errorf("%w: %s is not a media file", ErrNotFound, relative)
	}
	s.pool.Submit(&cache.Task{Path: abs, Kind: kind, ModTime: fi.ModTime(), Variant: cache.VariantThumb})
	return nil
}

// Navigate returns the neighbor of the current file in its folder's
// filtered order. The boolean is false at either boundary.
func (s *Service) Navigate(ctx context.Context, libraryID, relative string, direction navigate.Direction, filter navigate.Filter) (scanner.MediaFile, bool, error) {
	root, err := s.root(libraryID)
	if err != nil {
		return scanner.MediaFile{}, false, err
	}
	return s.nav.FindAdjacent(ctx, root, relative, direction, filter)
}

// Watch starts a filesystem watcher per library root that queues
// thumbnails for newly created media files. Blocks until stop closes.
func (s *Service) Watch(stop <-chan struct{}) {
	for id, root := range s.libraries {
		logging.Debug("starting watcher for library %s at %s", id, root)
		go s.scanner.Watch(root, func(path string, kind mediatypes.FileKind) {
			fi, err := os.Stat(path)
			if err != nil {
				return
			}
			s.pool.Submit(&cache.Task{Path: path, Kind: kind, ModTime: fi.ModTime(), Variant: cache.VariantThumb})
		}, stop)
	}
	<-stop
}

func isSmallJPEG(path string, fi os.FileInfo) bool {
	lower := strings.ToLower(path)
	if !strings.HasSuffix(lower, ".jpg") && !strings.HasSuffix(lower, ".jpeg") {
		return false
	}
	return fi.Size() < smallJPEGBypassBytes
}
