package mediatypes

import "strings"

// FileKind classifies a media file.
type FileKind string

const (
	// KindImage represents a still image, including camera raw formats.
	KindImage FileKind = "image"
	// KindVideo represents a video clip.
	KindVideo FileKind = "video"
	// KindOther represents an unsupported file.
	KindOther FileKind = "other"
)

// ImageExtensions maps lowercase extensions to whether they are supported
// image formats. Raw formats are included because the preview generator can
// hand them to an external decoder.
var ImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".tif":  true,
	".tiff": true,
	".orf":  true,
	".nef":  true,
	".cr2":  true,
	".cr3":  true,
	".raf":  true,
	".arw":  true,
	".dng":  true,
}

// VideoExtensions maps lowercase extensions to whether they are supported
// video formats.
var VideoExtensions = map[string]bool{
	".mp4": true,
	".mov": true,
	".m4v": true,
	".avi": true,
	".mkv": true,
}

// RawExtensions is the subset of ImageExtensions that cannot be decoded by
// the standard image libraries and always go through the external decoder.
var RawExtensions = map[string]bool{
	".orf": true,
	".nef": true,
	".cr2": true,
	".cr3": true,
	".raf": true,
	".arw": true,
	".dng": true,
}

// MimeTypes maps lowercase extensions to their MIME types.
var MimeTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".orf":  "image/x-olympus-orf",
	".nef":  "image/x-nikon-nef",
	".cr2":  "image/x-canon-cr2",
	".cr3":  "image/x-canon-cr3",
	".raf":  "image/x-fuji-raf",
	".arw":  "image/x-sony-arw",
	".dng":  "image/x-adobe-dng",
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".m4v":  "video/x-m4v",
	".avi":  "video/x-msvideo",
	".mkv":  "video/x-matroska",
}

// blockedDirectories are OS and NAS housekeeping directories that never
// contain user media and are skipped by folder listings.
var blockedDirectories = map[string]bool{
	"#recycle":                  true,
	"$recycle.bin":              true,
	"@eadir":                    true,
	".thumbnails":               true,
	".trash":                    true,
	".trash-1000":               true,
	"system volume information": true,
	"lost+found":                true,
	"recycled":                  true,
	".rejected":                 true,
}

// blockedFiles are OS metadata files that appear alongside media but are
// never media themselves.
var blockedFiles = map[string]bool{
	".ds_store":       true,
	"thumbs.db":       true,
	"desktop.ini":     true,
	".directory":      true,
	"ehthumbs.db":     true,
	".apdisk":         true,
	"corrections.csv": true,
}

// GetFileKind returns the FileKind for a lowercase extension including the
// leading dot.
func GetFileKind(ext string) FileKind {
	if ImageExtensions[ext] {
		return KindImage
	}
	if VideoExtensions[ext] {
		return KindVideo
	}
	return KindOther
}

// GetMimeType returns the MIME type for a lowercase extension, or
// "application/octet-stream" when unknown.
func GetMimeType(ext string) string {
	if mime, ok := MimeTypes[ext]; ok {
		return mime
	}
	return "application/octet-stream"
}

// IsMediaFile reports whether the extension belongs to a supported media
// format.
func IsMediaFile(ext string) bool {
	return GetFileKind(ext) != KindOther
}

// IsBlockedDirectory reports whether a directory name is a dot-directory or
// on the housekeeping block-list. The comparison is case-insensitive.
func IsBlockedDirectory(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	return blockedDirectories[strings.ToLower(name)]
}

// IsBlockedFile reports whether a file name is a dotfile or a known OS
// metadata file.
func IsBlockedFile(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	return blockedFiles[strings.ToLower(name)]
}
