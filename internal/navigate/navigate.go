// Package navigate walks the filtered sibling order of a media folder:
// which files are visible under a review-status filter, and which file
// comes next or previous relative to the one being viewed.
package navigate

import (
	"context"
	"path"

	"medialib/internal/metadata"
	"medialib/internal/scanner"
)

// Filter restricts a listing by review status.
type Filter string

const (
	FilterAll        Filter = "all"
	FilterReviewed   Filter = "reviewed"
	FilterUnreviewed Filter = "unreviewed"
)

// Direction selects the neighbor to move to.
type Direction string

const (
	DirectionNext     Direction = "next"
	DirectionPrevious Direction = "previous"
)

// Lister enumerates the media files of a folder in display order.
type Lister interface {
	ListMediaFiles(root, relative string) ([]scanner.MediaFile, error)
}

// StatusReader resolves the review status of a file.
type StatusReader interface {
	ReadLogical(ctx context.Context, path string) metadata.LogicalMetadata
}

// Navigator answers filtered-listing and adjacency queries over a folder.
type Navigator struct {
	lister Lister
	status StatusReader
}

// New creates a Navigator over the given lister and status reader.
func New(lister Lister, status StatusReader) *Navigator {
	return &Navigator{lister: lister, status: status}
}

// ListFiltered returns the folder's media files that pass the filter, in
// the lister's display order. FilterAll skips status reads entirely.
func (n *Navigator) ListFiltered(ctx context.Context, root, relative string, filter Filter) ([]scanner.MediaFile, error) {
	files, err := n.lister.ListMediaFiles(root, relative)
	if err != nil {
		return nil, err
	}
	if filter == FilterAll || filter == "" {
		return files, nil
	}

	filtered := make([]scanner.MediaFile, 0, len(files))
	for _, f := range files {
		if n.matches(ctx, f, filter) {
			filtered = append(filtered, f)
		}
	}
	return filtered, nil
}

// FindAdjacent returns the neighbor of the current file within its
// folder's filtered order. The second return is false at either end of
// the order, and also when the current file itself does not pass the
// filter or no longer exists.
func (n *Navigator) FindAdjacent(ctx context.Context, root, currentRelative string, direction Direction, filter Filter) (scanner.MediaFile, bool, error) {
	dir := path.Dir(currentRelative)
	if dir == "." {
		dir = ""
	}

	siblings, err := n.ListFiltered(ctx, root, dir, filter)
	if err != nil {
		return scanner.MediaFile{}, false, err
	}

	current := -1
	for i, f := range siblings {
		if f.RelativePath == currentRelative {
			current = i
			break
		}
	}
	if current < 0 {
		return scanner.MediaFile{}, false, nil
	}

	target := current + 1
	if direction == DirectionPrevious {
		target = current - 1
	}
	if target < 0 || target >= len(siblings) {
		return scanner.MediaFile{}, false, nil
	}
	return siblings[target], true, nil
}

func (n *Navigator) matches(ctx context.Context, f scanner.MediaFile, filter Filter) bool {
	status := n.status.ReadLogical(ctx, f.AbsolutePath).ReviewStatus
	switch filter {
	case FilterReviewed:
		return status == metadata.StatusReviewed
	case FilterUnreviewed:
		return status == metadata.StatusUnreviewed
	default:
		return true
	}
}
