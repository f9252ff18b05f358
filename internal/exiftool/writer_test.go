package exiftool

import (
	"context"
	"reflect"
	"testing"

	"medialib/internal/metadata"
)

func TestBuildWriteArgsEmbedded(t *testing.T) {
	args := buildWriteArgs("/lib/a.jpg", metadata.TargetEmbedded, map[string]string{
		"XMP-dc:title":     "Hike",
		"IPTC:ObjectName":  "Hike",
		"EXIF:UserComment": "",
	}, false)

	want := []string{
		"-overwrite_original", "-P", "-m",
		"-EXIF:UserComment=",
		"-IPTC:ObjectName=Hike",
		"-XMP-dc:title=Hike",
		"/lib/a.jpg",
	}
	if !reflect.DeepEqual(args, want) {
		t.Errorf("args = %v, want %v", args, want)
	}
}

func TestBuildWriteArgsSidecarExisting(t *testing.T) {
	args := buildWriteArgs("/lib/a.jpg", metadata.TargetSidecar, map[string]string{
		"XMP-dc:title": "Hike",
	}, true)

	want := []string{
		"-overwrite_original", "-P", "-m",
		"-XMP-dc:title=Hike",
		"/lib/a.xmp",
	}
	if !reflect.DeepEqual(args, want) {
		t.Errorf("args = %v, want %v", args, want)
	}
}

func TestBuildWriteArgsSidecarMissing(t *testing.T) {
	args := buildWriteArgs("/lib/a.jpg", metadata.TargetSidecar, map[string]string{
		"XMP-dc:title": "Hike",
	}, false)

	want := []string{
		"-overwrite_original", "-P", "-m",
		"-XMP-dc:title=Hike",
		"-o", "/lib/a.xmp",
		"/lib/a.jpg",
	}
	if !reflect.DeepEqual(args, want) {
		t.Errorf("args = %v, want %v", args, want)
	}
}

func TestWriteTagsEmptyAssignmentsIsNoop(t *testing.T) {
	w := NewWriter(0)
	if err := w.WriteTags(context.Background(), "/lib/a.jpg", metadata.TargetEmbedded, nil); err != nil {
		t.Errorf("empty write should be a no-op, got %v", err)
	}
}
