package metadata

import "time"

// DatePrecision describes how much of an event date is meaningful.
type DatePrecision string

const (
	PrecisionYear    DatePrecision = "YEAR"
	PrecisionMonth   DatePrecision = "MONTH"
	PrecisionDay     DatePrecision = "DAY"
	PrecisionUnknown DatePrecision = "UNKNOWN"
)

// ReviewStatus marks whether a file has been reviewed.
type ReviewStatus string

const (
	StatusReviewed   ReviewStatus = "reviewed"
	StatusUnreviewed ReviewStatus = "unreviewed"
)

// Coordinates is a GPS position.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// EventDate is a capture date with its display form, precision and
// approximation flag.
type EventDate struct {
	Value       time.Time     `json:"value"`
	Display     string        `json:"display,omitempty"`
	Precision   DatePrecision `json:"precision"`
	Approximate bool          `json:"approximate"`
}

// LogicalMetadata holds the user-editable descriptive fields of a media
// file. Nil pointer fields were absent from the tags.
type LogicalMetadata struct {
	EventDate      *EventDate   `json:"eventDate,omitempty"`
	Subject        *string      `json:"subject,omitempty"`
	Notes          *string      `json:"notes,omitempty"`
	People         []string     `json:"people,omitempty"`
	LocationName   *string      `json:"locationName,omitempty"`
	LocationCoords *Coordinates `json:"locationCoords,omitempty"`
	ReviewStatus   ReviewStatus `json:"reviewStatus"`
}

// Update is a partial metadata write. A nil field is left untouched; a
// non-nil field is written, including explicit empties.
type Update struct {
	EventDate      *EventDate    `json:"eventDate,omitempty"`
	Subject        *string       `json:"subject,omitempty"`
	Notes          *string       `json:"notes,omitempty"`
	People         *[]string     `json:"people,omitempty"`
	LocationName   *string       `json:"locationName,omitempty"`
	LocationCoords *Coordinates  `json:"locationCoords,omitempty"`
	ReviewStatus   *ReviewStatus `json:"reviewStatus,omitempty"`
}

// IsEmpty reports whether the update carries no fields at all.
func (u Update) IsEmpty() bool {
	return u.EventDate == nil && u.Subject == nil && u.Notes == nil &&
		u.People == nil && u.LocationName == nil && u.LocationCoords == nil &&
		u.ReviewStatus == nil
}

// TechnicalMetadata holds read-only, capture-derived fields. All fields are
// advisory; a zero value means the tag was absent or unreadable.
type TechnicalMetadata struct {
	FileSize string `json:"fileSize,omitempty"`
	MIMEType string `json:"mimeType,omitempty"`

	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	// Image capture fields
	Orientation  string `json:"orientation,omitempty"`
	ColorSpace   string `json:"colorSpace,omitempty"`
	Make         string `json:"make,omitempty"`
	Model        string `json:"model,omitempty"`
	ISO          int    `json:"iso,omitempty"`
	FNumber      string `json:"fNumber,omitempty"`
	ExposureTime string `json:"exposureTime,omitempty"`
	FocalLength  string `json:"focalLength,omitempty"`

	// Video fields
	FrameRate float64 `json:"frameRate,omitempty"`
	Duration  float64 `json:"duration,omitempty"`
	Codec     string  `json:"codec,omitempty"`
}
