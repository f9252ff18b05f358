package cache

import (
	"bytes"
	"context"
	"crypto/md5"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"sync"
	"time"

	"medialib/internal/logging"
	"medialib/internal/mediatypes"
	"medialib/internal/metrics"

	_ "image/gif"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// Variant selects which derived artifact to produce.
type Variant string

const (
	// VariantThumb is a small grid thumbnail.
	VariantThumb Variant = "thumb"
	// VariantPreview is a screen-sized preview.
	VariantPreview Variant = "preview"
)

// box returns the bounding box the variant is fitted into.
func (v Variant) box() (width, height int) {
	if v == VariantPreview {
		return 1920, 1920
	}
	return 300, 300
}

// quality returns the JPEG quality for the variant.
func (v Variant) quality() int {
	if v == VariantPreview {
		return 90
	}
	return 85
}

// Cache stores derived artifacts under a root directory, sharded into
// YYYYMMDD subdirectories by generation date. All artifacts are JPEG.
type Cache struct {
	root    string
	ffmpeg  *FFmpeg
	useVips bool

	// now is the shard clock; swapped out in tests.
	now func() time.Time

	// mu serializes generation so only one decode is in flight at a time.
	mu sync.Mutex
}

// New creates a Cache rooted at dir. The directory is created eagerly so
// later writes only have to create date shards.
func New(dir string, ffmpeg *FFmpeg) *Cache {
	if err := os.MkdirAll(dir, 0755); err != nil {
		logging.Warn("cache: failed to create root %s: %v", dir, err)
	}
	return &Cache{
		root:    dir,
		ffmpeg:  ffmpeg,
		useVips: IsVipsAvailable(),
		now:     time.Now,
	}
}

// Key derives the artifact key for a source file: the md5 of its absolute
// path, its modification time and the variant. Any change to the file's
// content bumps the mtime and therefore the key.
func (c *Cache) Key(path string, modTime time.Time, variant Variant) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return fmt.Sprintf("%x_%d_%s", md5.Sum([]byte(abs)), modTime.Unix(), variant)
}

// artifactPath places a key under today's date shard.
func (c *Cache) artifactPath(key string) string {
	shard := c.now().Format("20060102")
	return filepath.Join(c.root, shard, key+".jpg")
}

// HasCached reports whether the artifact for the file already exists.
func (c *Cache) HasCached(path string, modTime time.Time, variant Variant) bool {
	_, err := os.Stat(c.artifactPath(c.Key(path, modTime, variant)))
	return err == nil
}

// Get returns the on-disk path of the artifact for the given source file,
// generating it first if needed. The source file must exist.
func (c *Cache) Get(ctx context.Context, path string, kind mediatypes.FileKind, variant Variant) (string, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("source not accessible: %w", err)
	}

	target := c.artifactPath(c.Key(path, fi.ModTime(), variant))
	if _, err := os.Stat(target); err == nil {
		logging.Debug("cache hit (%s): %s", variant, path)
		metrics.CacheHitsTotal.WithLabelValues(string(variant)).Inc()
		return target, nil
	}
	metrics.CacheMissesTotal.WithLabelValues(string(variant)).Inc()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another caller may have generated it while we waited on the lock.
	if _, err := os.Stat(target); err == nil {
		return target, nil
	}

	start := time.Now()
	err = c.generate(ctx, path, kind, variant, target)
	metrics.GenerationDuration.WithLabelValues(string(variant)).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.GenerationsTotal.WithLabelValues(string(variant), "error").Inc()
		return "", err
	}
	metrics.GenerationsTotal.WithLabelValues(string(variant), "success").Inc()
	return target, nil
}

func (c *Cache) generate(ctx context.Context, path string, kind mediatypes.FileKind, variant Variant, target string) error {
	logging.Debug("cache generating %s for %s", variant, path)

	var img image.Image
	var err error

	switch kind {
	case mediatypes.KindImage:
		img, err = c.loadImage(ctx, path, variant)
	case mediatypes.KindVideo:
		img, err = c.loadVideoFrame(ctx, path)
	default:
		return fmt.Errorf("unsupported file kind for %s", path)
	}
	if err != nil {
		return fmt.Errorf("generation failed for %s: %w", path, err)
	}
	if img == nil {
		return fmt.Errorf("generation returned no image for %s", path)
	}

	w, h := variant.box()
	fitted := imaging.Fit(img, w, h, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, fitted, &jpeg.Options{Quality: variant.quality()}); err != nil {
		return fmt.Errorf("encode artifact for %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("create cache shard: %w", err)
	}
	if err := os.WriteFile(target, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write artifact %s: %w", target, err)
	}

	logging.Debug("cache stored %s (%d bytes)", target, buf.Len())
	return nil
}

// loadImage decodes a still image: libvips when available (decode-time
// shrinking keeps memory flat on large raws), then imaging, then plain
// image.Decode, then an ffmpeg pipe as the last resort.
func (c *Cache) loadImage(ctx context.Context, path string, variant Variant) (image.Image, error) {
	if c.useVips {
		w, h := variant.box()
		img, err := LoadImageWithVips(path, w, h)
		if err == nil {
			return img, nil
		}
		logging.Debug("vips load failed for %s: %v, falling back", path, err)
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err == nil {
		return img, nil
	}
	logging.Debug("imaging.Open failed for %s: %v, trying stdlib decode", path, err)

	if img, err := decodeImageFile(path); err == nil {
		return img, nil
	}

	img, err = c.ffmpeg.DecodeImage(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("all decode methods failed: %w", err)
	}
	return img, nil
}

// loadVideoFrame grabs a representative frame at 10% of the duration, so
// title cards and black lead-ins are skipped.
func (c *Cache) loadVideoFrame(ctx context.Context, path string) (image.Image, error) {
	seek := 0.0
	if duration, err := c.ffmpeg.ProbeDuration(ctx, path); err == nil && duration > 0 {
		seek = duration * 0.1
	} else if err != nil {
		logging.Debug("duration probe failed for %s: %v, extracting first frame", path, err)
	}
	return c.ffmpeg.ExtractFrame(ctx, path, seek)
}

func decodeImageFile(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		return nil, err
	}
	logging.Debug("decoded %s image: %s", format, path)
	return img, nil
}
