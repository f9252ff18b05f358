package metadata

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"medialib/internal/logging"
	"medialib/internal/metrics"
)

// ErrMetadataWriteFailed wraps any tag-writer failure surfaced to callers.
var ErrMetadataWriteFailed = errors.New("metadata write failed")

// WriteResult reports the outcome of a metadata write per target.
type WriteResult struct {
	// EmbeddedErr is the embedded-tag write failure, nil on success or when
	// no embedded write was attempted (videos).
	EmbeddedErr error
	// SidecarErr is the sidecar write failure, nil on success.
	SidecarErr error
	// ReviewSkipped is true when the review-status portion of the update
	// was dropped because the comment field currently holds user notes.
	ReviewSkipped bool
}

// Err returns a single error describing which targets failed, or nil when
// the write succeeded.
func (r WriteResult) Err() error {
	switch {
	case r.EmbeddedErr != nil && r.SidecarErr != nil:
		return fmt.Errorf("%w: embedded: %v; sidecar: %v", ErrMetadataWriteFailed, r.EmbeddedErr, r.SidecarErr)
	case r.EmbeddedErr != nil:
		return fmt.Errorf("%w: embedded: %v", ErrMetadataWriteFailed, r.EmbeddedErr)
	case r.SidecarErr != nil:
		return fmt.Errorf("%w: sidecar: %v", ErrMetadataWriteFailed, r.SidecarErr)
	default:
		return nil
	}
}

// Write applies a partial metadata update. For images the embedded tags and
// the sidecar are both written; for videos only the sidecar. Overall
// success requires every attempted target to succeed. The review-status
// field is written conservatively: if the comment field currently holds
// the user's notes, the status write is skipped and logged instead of
// overwriting the note.
func (s *Store) Write(ctx context.Context, path string, update Update, isImage bool) WriteResult {
	var result WriteResult

	assignments := s.buildAssignments(update)

	if update.ReviewStatus != nil {
		skipped := s.applyReviewStatus(ctx, path, *update.ReviewStatus, assignments)
		result.ReviewSkipped = skipped
	}

	if len(assignments) == 0 {
		return result
	}

	if isImage {
		if err := s.writer.WriteTags(ctx, path, TargetEmbedded, assignments); err != nil {
			logging.Warn("embedded tag write failed for %s: %v", path, err)
			metrics.TagWritesTotal.WithLabelValues("embedded", "error").Inc()
			result.EmbeddedErr = err
		} else {
			metrics.TagWritesTotal.WithLabelValues("embedded", "success").Inc()
		}
	}

	sidecarTags := xmpSubset(assignments)
	if len(sidecarTags) > 0 {
		if err := s.writer.WriteTags(ctx, path, TargetSidecar, sidecarTags); err != nil {
			logging.Warn("sidecar tag write failed for %s: %v", path, err)
			metrics.TagWritesTotal.WithLabelValues("sidecar", "error").Inc()
			result.SidecarErr = err
		} else {
			metrics.TagWritesTotal.WithLabelValues("sidecar", "success").Inc()
		}
	}

	return result
}

// applyReviewStatus decides whether the comment field may be overwritten
// and, if safe, adds the marker assignments. Returns true when the write
// was skipped under the aliasing rule.
func (s *Store) applyReviewStatus(ctx context.Context, path string, status ReviewStatus, assignments map[string]string) bool {
	current := s.ReadLogical(ctx, path)

	comment := s.currentComment(ctx, path)
	notes := ""
	if current.Notes != nil {
		notes = *current.Notes
	}

	// The comment currently holds free text identical to the notes field.
	// Overwriting it would destroy the user's note, so the status write is
	// dropped. See reviewStatusFrom for the matching read rule.
	if comment != "" && comment == notes && comment != reviewedMarker {
		logging.Warn("review status write skipped for %s: comment field holds user notes", path)
		return true
	}

	marker := ""
	if status == StatusReviewed {
		marker = reviewedMarker
	}
	assignments[writeExifUserComment] = marker
	assignments[writeXMPUserComment] = marker
	return false
}

// currentComment reads the comment field, preferring the sidecar.
func (s *Store) currentComment(ctx context.Context, path string) string {
	if SidecarExists(path) {
		if tags, err := s.reader.ReadTags(ctx, SidecarPath(path)); err == nil {
			if c := tags.GetString(tagUserComment); c != "" {
				return c
			}
		}
	}
	tags, err := s.reader.ReadTags(ctx, path)
	if err != nil {
		return ""
	}
	return tags.GetString(tagUserComment)
}

// buildAssignments maps each present update field to its tag assignments.
// The returned map mixes embedded and XMP specs; the sidecar write takes
// the XMP subset.
func (s *Store) buildAssignments(update Update) map[string]string {
	tags := make(map[string]string)

	if update.EventDate != nil {
		ed := update.EventDate
		formatted := FormatEventDateForExif(ed.Value, ed.Precision)
		tags[writeXMPDateTimeOriginal] = formatted
		tags[writeExifDateTimeOriginal] = formatted
		tags[writeExifCreateDate] = formatted
		tags[writeExifModifyDate] = formatted

		if ed.Display != "" {
			tags[writeXMPEventDateDisplay] = ed.Display
		}
		tags[writeXMPEventDatePrecision] = string(ed.Precision)
		tags[writeXMPEventDateApproximate] = boolString(ed.Approximate)
	}

	if update.Subject != nil {
		tags[writeXMPTitle] = *update.Subject
		tags[writeIPTCObjectName] = *update.Subject
	}

	if update.Notes != nil {
		tags[writeXMPDescription] = *update.Notes
		tags[writeIPTCCaption] = *update.Notes
	}

	if update.People != nil {
		joined := joinPeople(*update.People)
		tags[writeXMPSubject] = joined
		tags[writeIPTCKeywords] = joined
	}

	if update.LocationName != nil {
		tags[writeXMPLocation] = *update.LocationName
		city, country := splitLocationName(*update.LocationName)
		if city != "" {
			tags[writeXMPCity] = city
			tags[writeIPTCCity] = city
		}
		if country != "" {
			tags[writeXMPCountry] = country
			tags[writeIPTCCountry] = country
		}
	}

	if update.LocationCoords != nil {
		c := update.LocationCoords
		tags[writeExifGPSLatitude] = fmt.Sprintf("%v", c.Lat)
		tags[writeExifGPSLongitude] = fmt.Sprintf("%v", c.Lon)
		tags[writeExifGPSLatitudeRef] = latRef(c.Lat)
		tags[writeExifGPSLongitudeRef] = lonRef(c.Lon)
	}

	return tags
}

// xmpSubset filters assignments down to XMP-family tags for sidecar writes.
func xmpSubset(assignments map[string]string) map[string]string {
	out := make(map[string]string, len(assignments))
	for k, v := range assignments {
		if strings.HasPrefix(k, "XMP") {
			out[k] = v
		}
	}
	return out
}

// splitLocationName parses "City, Country" style names. A single segment is
// treated as a city.
func splitLocationName(name string) (city, country string) {
	parts := strings.Split(name, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	switch {
	case len(parts) >= 2:
		return parts[0], parts[len(parts)-1]
	case len(parts) == 1 && parts[0] != "":
		return parts[0], ""
	default:
		return "", ""
	}
}

func joinPeople(people []string) string {
	var cleaned []string
	for _, p := range people {
		if name := strings.TrimSpace(p); name != "" {
			cleaned = append(cleaned, name)
		}
	}
	return strings.Join(cleaned, ",")
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func latRef(lat float64) string {
	if lat >= 0 {
		return "N"
	}
	return "S"
}

func lonRef(lon float64) string {
	if lon >= 0 {
		return "E"
	}
	return "W"
}
