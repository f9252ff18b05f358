package metadata

// Tag names as they appear in the reader's flat output (no group prefix).
const (
	tagDateTimeOriginal = "DateTimeOriginal"
	tagCreateDate       = "CreateDate"
	tagDateCreated      = "DateCreated"

	tagTitle            = "Title"
	tagObjectName       = "ObjectName"
	tagDescription      = "Description"
	tagCaptionAbstract  = "Caption-Abstract"
	tagImageDescription = "ImageDescription"

	tagSubject  = "Subject"
	tagKeywords = "Keywords"

	tagLocation = "Location"
	tagCity     = "City"
	tagCountry  = "Country"

	tagGPSLatitude  = "GPSLatitude"
	tagGPSLongitude = "GPSLongitude"

	// tagUserComment is the free-text comment field that doubles as the
	// review-status marker. See reviewStatusFrom for the aliasing rule.
	tagUserComment = "UserComment"

	tagEventDateDisplay     = "EventDateDisplay"
	tagEventDatePrecision   = "EventDatePrecision"
	tagEventDateApproximate = "EventDateApproximate"

	// Technical tags
	tagImageWidth    = "ImageWidth"
	tagImageHeight   = "ImageHeight"
	tagOrientation   = "Orientation"
	tagColorSpace    = "ColorSpace"
	tagMake          = "Make"
	tagModel         = "Model"
	tagISO           = "ISO"
	tagFNumber       = "FNumber"
	tagExposureTime  = "ExposureTime"
	tagFocalLength   = "FocalLength"
	tagVideoFrameRate = "VideoFrameRate"
	tagDuration       = "Duration"
	tagCompressorID   = "CompressorID"
	tagFileSize       = "FileSize"
	tagMIMEType       = "MIMEType"
)

// Grouped tag specs used on the write path. Embedded writes receive the
// whole assignment set; sidecar writes receive only the XMP-family tags.
const (
	writeExifDateTimeOriginal = "EXIF:DateTimeOriginal"
	writeExifCreateDate       = "EXIF:CreateDate"
	writeExifModifyDate       = "EXIF:ModifyDate"
	writeXMPDateTimeOriginal  = "XMP-exif:DateTimeOriginal"

	writeXMPTitle        = "XMP-dc:title"
	writeIPTCObjectName  = "IPTC:ObjectName"
	writeXMPDescription  = "XMP-dc:description"
	writeIPTCCaption     = "IPTC:Caption-Abstract"
	writeXMPSubject      = "XMP-dc:subject"
	writeIPTCKeywords    = "IPTC:Keywords"
	writeXMPLocation     = "XMP-iptcCore:Location"
	writeXMPCity         = "XMP-photoshop:City"
	writeIPTCCity        = "IPTC:City"
	writeXMPCountry      = "XMP-photoshop:Country"
	writeIPTCCountry     = "IPTC:Country-PrimaryLocationName"
	writeExifUserComment = "EXIF:UserComment"
	writeXMPUserComment  = "XMP-exif:UserComment"

	writeExifGPSLatitude     = "EXIF:GPSLatitude"
	writeExifGPSLongitude    = "EXIF:GPSLongitude"
	writeExifGPSLatitudeRef  = "EXIF:GPSLatitudeRef"
	writeExifGPSLongitudeRef = "EXIF:GPSLongitudeRef"

	writeXMPEventDateDisplay     = "XMP:EventDateDisplay"
	writeXMPEventDatePrecision   = "XMP:EventDatePrecision"
	writeXMPEventDateApproximate = "XMP:EventDateApproximate"
)

// reviewedMarker is the comment-field content that encodes "reviewed".
const reviewedMarker = "reviewed"
