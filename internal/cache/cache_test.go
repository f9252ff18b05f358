package cache

import (
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"
	"time"

	"medialib/internal/mediatypes"
)

// makeJPEG writes a real JPEG test image and returns its path.
func makeJPEG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	c := New(t.TempDir(), NewFFmpeg(0))
	c.now = func() time.Time { return time.Date(2023, 6, 15, 12, 0, 0, 0, time.UTC) }
	return c
}

func TestKeyDerivation(t *testing.T) {
	c := newTestCache(t)
	mtime := time.Unix(1700000000, 0)

	key := c.Key("/lib/a.jpg", mtime, VariantThumb)
	if key != c.Key("/lib/a.jpg", mtime, VariantThumb) {
		t.Error("key is not deterministic")
	}
	if key == c.Key("/lib/b.jpg", mtime, VariantThumb) {
		t.Error("different paths must produce different keys")
	}
	if key == c.Key("/lib/a.jpg", mtime.Add(time.Second), VariantThumb) {
		t.Error("different mtimes must produce different keys")
	}
	if key == c.Key("/lib/a.jpg", mtime, VariantPreview) {
		t.Error("different variants must produce different keys")
	}
}

func TestArtifactPathSharding(t *testing.T) {
	c := newTestCache(t)

	p := c.artifactPath("abc")
	if filepath.Base(filepath.Dir(p)) != "20230615" {
		t.Errorf("artifact path %s is not sharded by generation date", p)
	}
	if filepath.Base(p) != "abc.jpg" {
		t.Errorf("artifact filename = %s, want abc.jpg", filepath.Base(p))
	}
}

func TestGetGeneratesThumbnail(t *testing.T) {
	c := newTestCache(t)
	src := makeJPEG(t, t.TempDir(), "a.jpg", 800, 600)

	artifact, err := c.Get(context.Background(), src, mediatypes.KindImage, VariantThumb)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	f, err := os.Open(artifact)
	if err != nil {
		t.Fatalf("artifact missing: %v", err)
	}
	defer f.Close()

	img, err := jpeg.Decode(f)
	if err != nil {
		t.Fatalf("artifact is not a JPEG: %v", err)
	}
	if img.Bounds().Dx() > 300 || img.Bounds().Dy() > 300 {
		t.Errorf("thumbnail is %dx%d, want within 300x300", img.Bounds().Dx(), img.Bounds().Dy())
	}
	// Aspect ratio preserved: 800x600 fitted into 300x300 is 300x225.
	if img.Bounds().Dx() != 300 || img.Bounds().Dy() != 225 {
		t.Errorf("thumbnail is %dx%d, want 300x225", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestGetSecondCallReusesArtifact(t *testing.T) {
	c := newTestCache(t)
	src := makeJPEG(t, t.TempDir(), "a.jpg", 400, 400)

	first, err := c.Get(context.Background(), src, mediatypes.KindImage, VariantThumb)
	if err != nil {
		t.Fatalf("first Get failed: %v", err)
	}

	// Plant a marker: if the second call regenerated, it would overwrite it.
	if err := os.WriteFile(first, []byte("marker"), 0644); err != nil {
		t.Fatal(err)
	}

	second, err := c.Get(context.Background(), src, mediatypes.KindImage, VariantThumb)
	if err != nil {
		t.Fatalf("second Get failed: %v", err)
	}
	if second != first {
		t.Errorf("second Get returned %s, want %s", second, first)
	}
	data, err := os.ReadFile(second)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "marker" {
		t.Error("second Get regenerated an existing artifact")
	}
}

func TestMtimeChangeInvalidates(t *testing.T) {
	c := newTestCache(t)
	src := makeJPEG(t, t.TempDir(), "a.jpg", 400, 400)

	first, err := c.Get(context.Background(), src, mediatypes.KindImage, VariantThumb)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	newTime := time.Now().Add(time.Hour)
	if err := os.Chtimes(src, newTime, newTime); err != nil {
		t.Fatal(err)
	}

	second, err := c.Get(context.Background(), src, mediatypes.KindImage, VariantThumb)
	if err != nil {
		t.Fatalf("Get after mtime change failed: %v", err)
	}
	if second == first {
		t.Error("mtime change must produce a new artifact")
	}
}

func TestHasCached(t *testing.T) {
	c := newTestCache(t)
	src := makeJPEG(t, t.TempDir(), "a.jpg", 400, 400)
	fi, err := os.Stat(src)
	if err != nil {
		t.Fatal(err)
	}

	if c.HasCached(src, fi.ModTime(), VariantThumb) {
		t.Error("HasCached true before generation")
	}
	if _, err := c.Get(context.Background(), src, mediatypes.KindImage, VariantThumb); err != nil {
		t.Fatal(err)
	}
	if !c.HasCached(src, fi.ModTime(), VariantThumb) {
		t.Error("HasCached false after generation")
	}
	if c.HasCached(src, fi.ModTime(), VariantPreview) {
		t.Error("HasCached leaked across variants")
	}
}

func TestGetMissingSource(t *testing.T) {
	c := newTestCache(t)
	if _, err := c.Get(context.Background(), "/nonexistent/a.jpg", mediatypes.KindImage, VariantThumb); err == nil {
		t.Error("expected an error for a missing source file")
	}
}

func TestGetUnsupportedKind(t *testing.T) {
	c := newTestCache(t)
	dir := t.TempDir()
	src := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(src, []byte("text"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Get(context.Background(), src, mediatypes.KindOther, VariantThumb); err == nil {
		t.Error("expected an error for an unsupported kind")
	}
}

func TestPreviewLargerThanThumb(t *testing.T) {
	c := newTestCache(t)
	src := makeJPEG(t, t.TempDir(), "a.jpg", 2400, 1600)

	artifact, err := c.Get(context.Background(), src, mediatypes.KindImage, VariantPreview)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	f, err := os.Open(artifact)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := jpeg.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 1920 {
		t.Errorf("preview width = %d, want 1920", img.Bounds().Dx())
	}
}
