package metadata

import (
	"os"
	"strings"
)

// SidecarExtension is the suffix of the auxiliary tag file stored next to a
// media file.
const SidecarExtension = ".xmp"

// SidecarPath returns the sidecar path for a media file: the media file's
// path with its original extension replaced.
func SidecarPath(mediaPath string) string {
	if idx := strings.LastIndexByte(mediaPath, '.'); idx > strings.LastIndexByte(mediaPath, '/') {
		return mediaPath[:idx] + SidecarExtension
	}
	return mediaPath + SidecarExtension
}

// SidecarExists reports whether a sidecar file exists for the media file.
func SidecarExists(mediaPath string) bool {
	info, err := os.Stat(SidecarPath(mediaPath))
	return err == nil && !info.IsDir()
}
