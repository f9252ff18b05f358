package metadata

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSidecarPath(t *testing.T) {
	tests := []struct {
		name  string
		media string
		want  string
	}{
		{"JPEG", "/lib/vacation/a.jpg", "/lib/vacation/a.xmp"},
		{"Raw", "/lib/b.CR2", "/lib/b.xmp"},
		{"Video", "/lib/clip.mp4", "/lib/clip.xmp"},
		{"No extension", "/lib/noext", "/lib/noext.xmp"},
		{"Dotted directory", "/lib/v1.2/file", "/lib/v1.2/file.xmp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SidecarPath(tt.media); got != tt.want {
				t.Errorf("SidecarPath(%q) = %q, want %q", tt.media, got, tt.want)
			}
		})
	}
}

func TestSidecarExists(t *testing.T) {
	dir := t.TempDir()
	media := filepath.Join(dir, "a.jpg")

	if SidecarExists(media) {
		t.Error("SidecarExists should be false before the sidecar is written")
	}

	if err := os.WriteFile(filepath.Join(dir, "a.xmp"), []byte("<x:xmpmeta/>"), 0o644); err != nil {
		t.Fatal(err)
	}

	if !SidecarExists(media) {
		t.Error("SidecarExists should be true once the sidecar is written")
	}
}
