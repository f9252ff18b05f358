// Package cache generates and stores derived media artifacts (thumbnails
// and previews) on disk. Artifacts live under date-sharded directories and
// are keyed by source path, modification time and variant, so an edited
// file naturally gets a fresh artifact. Generation prefers libvips when
// available and falls back to pure-Go decoding, with ffmpeg covering
// videos and exotic stills.
package cache
