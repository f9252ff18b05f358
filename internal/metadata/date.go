package metadata

import (
	"strings"
	"time"
)

// exifDateLayout is the canonical EXIF timestamp form.
const exifDateLayout = "2006:01:02 15:04:05"

// dateLayouts are the accepted input forms for an event date, tried in
// order against a prefix of the input of matching length.
var dateLayouts = []string{
	"2006:01:02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006-01",
	"2006",
}

// ParseEventDate parses an event date from any of the accepted layouts.
// Timezone suffixes and sub-second precision are ignored.
func ParseEventDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if len(s) < len(layout) {
			continue
		}
		if t, err := time.Parse(layout, s[:len(layout)]); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatEventDateForExif renders an event date as an EXIF timestamp,
// zeroing the components below the given precision.
func FormatEventDateForExif(t time.Time, precision DatePrecision) string {
	switch precision {
	case PrecisionYear:
		return t.Format("2006") + ":01:01 00:00:00"
	case PrecisionMonth:
		return t.Format("2006:01") + ":01 00:00:00"
	default:
		return t.Format(exifDateLayout)
	}
}

// NormalizeEventDate truncates a date to its precision so that two dates
// that agree at the stated precision compare equal.
func NormalizeEventDate(t time.Time, precision DatePrecision) time.Time {
	switch precision {
	case PrecisionYear:
		return time.Date(t.Year(), 1, 1, 0, 0, 0, 0, t.Location())
	case PrecisionMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	default:
		return t
	}
}
