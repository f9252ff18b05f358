package metadata

import (
	"context"
	"strings"

	"medialib/internal/logging"
)

// Store reads and writes logical and technical metadata through the tag
// adapters. All adapter failures are soft: reads degrade to empty
// metadata, writes return a Result describing which target failed.
type Store struct {
	reader TagReader
	writer TagWriter
}

// NewStore creates a Store on top of the given adapters.
func NewStore(reader TagReader, writer TagWriter) *Store {
	return &Store{reader: reader, writer: writer}
}

// ReadTechnical returns the read-only technical metadata of a file. The
// result is advisory: on any adapter failure a zero-valued structure is
// returned, never an error.
func (s *Store) ReadTechnical(ctx context.Context, path string) TechnicalMetadata {
	var tm TechnicalMetadata

	tags, err := s.reader.ReadTags(ctx, path)
	if err != nil {
		logging.Debug("technical metadata unavailable for %s: %v", path, err)
		return tm
	}

	tm.FileSize = tags.GetString(tagFileSize)
	tm.MIMEType = tags.GetString(tagMIMEType)
	tm.Width = tags.GetInt(tagImageWidth)
	tm.Height = tags.GetInt(tagImageHeight)

	if tags.Has(tagVideoFrameRate) {
		tm.FrameRate = tags.GetFloat(tagVideoFrameRate)
		tm.Duration = tags.GetFloat(tagDuration)
		tm.Codec = tags.GetString(tagCompressorID)
		return tm
	}

	tm.Orientation = tags.GetString(tagOrientation)
	tm.ColorSpace = tags.GetString(tagColorSpace)
	tm.Make = tags.GetString(tagMake)
	tm.Model = tags.GetString(tagModel)
	tm.ISO = tags.GetInt(tagISO)
	tm.FNumber = tags.GetString(tagFNumber)
	tm.ExposureTime = tags.GetString(tagExposureTime)
	tm.FocalLength = tags.GetString(tagFocalLength)
	return tm
}

// ReadLogical returns the editable metadata of a file, merging embedded
// tags with the sidecar. Sidecar values win for every field except review
// status, which is derived from the shared comment field under the
// notes-aliasing rule. Adapter failures degrade to empty metadata.
func (s *Store) ReadLogical(ctx context.Context, path string) LogicalMetadata {
	embedded, err := s.reader.ReadTags(ctx, path)
	if err != nil {
		logging.Debug("embedded tags unavailable for %s: %v", path, err)
		embedded = Tags{}
	}

	sidecar := Tags{}
	if SidecarExists(path) {
		sidecar, err = s.reader.ReadTags(ctx, SidecarPath(path))
		if err != nil {
			logging.Debug("sidecar tags unavailable for %s: %v", path, err)
			sidecar = Tags{}
		}
	}

	merged := mergedTags{sidecar: sidecar, embedded: embedded}

	var lm LogicalMetadata
	lm.EventDate = eventDateFrom(merged)

	if subject := merged.str(tagTitle, tagObjectName); subject != "" {
		lm.Subject = &subject
	}
	notes := merged.str(tagDescription, tagCaptionAbstract, tagImageDescription)
	if notes != "" {
		lm.Notes = &notes
	}
	lm.People = peopleFrom(merged)

	if loc := locationFrom(merged); loc != "" {
		lm.LocationName = &loc
	}
	if merged.has(tagGPSLatitude) && merged.has(tagGPSLongitude) {
		lm.LocationCoords = &Coordinates{
			Lat: merged.float(tagGPSLatitude),
			Lon: merged.float(tagGPSLongitude),
		}
	}

	lm.ReviewStatus = reviewStatusFrom(merged.str(tagUserComment), notes)
	return lm
}

// reviewStatusFrom applies the comment/notes aliasing rule: the comment
// field only counts as a review marker when it is non-empty, not byte-equal
// to the notes field, and holds the marker value.
func reviewStatusFrom(comment, notes string) ReviewStatus {
	if comment == "" || comment == notes {
		return StatusUnreviewed
	}
	if comment == reviewedMarker {
		return StatusReviewed
	}
	return StatusUnreviewed
}

func eventDateFrom(m mergedTags) *EventDate {
	raw := m.str(tagDateTimeOriginal, tagCreateDate, tagDateCreated)
	value, ok := ParseEventDate(raw)
	if !ok {
		return nil
	}

	precision := PrecisionUnknown
	switch DatePrecision(m.str(tagEventDatePrecision)) {
	case PrecisionYear:
		precision = PrecisionYear
	case PrecisionMonth:
		precision = PrecisionMonth
	case PrecisionDay:
		precision = PrecisionDay
	}

	return &EventDate{
		Value:       NormalizeEventDate(value, precision),
		Display:     m.str(tagEventDateDisplay),
		Precision:   precision,
		Approximate: strings.EqualFold(m.str(tagEventDateApproximate), "true"),
	}
}

func peopleFrom(m mergedTags) []string {
	values := m.strs(tagSubject)
	if len(values) == 0 {
		values = m.strs(tagKeywords)
	}
	var people []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if name := strings.TrimSpace(part); name != "" {
				people = append(people, name)
			}
		}
	}
	return people
}

func locationFrom(m mergedTags) string {
	if loc := m.str(tagLocation); loc != "" {
		return loc
	}
	city := m.str(tagCity)
	country := m.str(tagCountry)
	switch {
	case city != "" && country != "":
		return city + ", " + country
	case city != "":
		return city
	default:
		return country
	}
}

// mergedTags applies the sidecar-over-embedded precedence per tag.
type mergedTags struct {
	sidecar  Tags
	embedded Tags
}

// str returns the first non-empty value among the keys, preferring the
// sidecar for each key.
func (m mergedTags) str(keys ...string) string {
	for _, key := range keys {
		if v := m.sidecar.GetString(key); v != "" {
			return v
		}
	}
	for _, key := range keys {
		if v := m.embedded.GetString(key); v != "" {
			return v
		}
	}
	return ""
}

func (m mergedTags) strs(key string) []string {
	if v := m.sidecar.GetStrings(key); len(v) > 0 {
		return v
	}
	return m.embedded.GetStrings(key)
}

func (m mergedTags) float(key string) float64 {
	if m.sidecar.Has(key) {
		return m.sidecar.GetFloat(key)
	}
	return m.embedded.GetFloat(key)
}

func (m mergedTags) has(key string) bool {
	return m.sidecar.Has(key) || m.embedded.Has(key)
}
