package cache

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"medialib/internal/logging"
)

// DefaultFFmpegTimeout bounds a single ffmpeg or ffprobe invocation.
const DefaultFFmpegTimeout = 60 * time.Second

// FFmpeg wraps the ffmpeg and ffprobe binaries for frame extraction and
// duration probing. Every invocation runs under a timeout.
type FFmpeg struct {
	timeout time.Duration
}

// NewFFmpeg creates an FFmpeg helper. A zero timeout selects
// DefaultFFmpegTimeout.
func NewFFmpeg(timeout time.Duration) *FFmpeg {
	if timeout <= 0 {
		timeout = DefaultFFmpegTimeout
	}
	return &FFmpeg{timeout: timeout}
}

// Available reports whether the ffmpeg binary can be found.
func (f *FFmpeg) Available() bool {
	_, err := exec.LookPath("ffmpeg")
	return err == nil
}

// ProbeDuration returns the container duration of a video in seconds.
func (f *FFmpeg) ProbeDuration(ctx context.Context, path string) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed for %s: %w", path, err)
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, fmt.Errorf("parse ffprobe duration %q: %w", strings.TrimSpace(string(output)), err)
	}
	return duration, nil
}

// ExtractFrame decodes one frame at the given offset. When the seek fails
// (short clips, broken indexes) it retries from the start of the stream.
func (f *FFmpeg) ExtractFrame(ctx context.Context, path string, seekSeconds float64) (image.Image, error) {
	if seekSeconds > 0 {
		img, err := f.pipeFrame(ctx, path, seekSeconds)
		if err == nil {
			return img, nil
		}
		logging.Debug("seeked frame extraction failed for %s: %v, retrying from start", path, err)
	}
	return f.pipeFrame(ctx, path, 0)
}

// DecodeImage renders a still image through ffmpeg. Used as the last
// resort for formats no Go decoder handles.
func (f *FFmpeg) DecodeImage(ctx context.Context, path string) (image.Image, error) {
	return f.pipeFrame(ctx, path, 0)
}

func (f *FFmpeg) pipeFrame(ctx context.Context, path string, seekSeconds float64) (image.Image, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	args := []string{}
	if seekSeconds > 0 {
		args = append(args, "-ss", fmt.Sprintf("%.2f", seekSeconds))
	}
	args = append(args,
		"-i", path,
		"-vframes", "1",
		"-f", "image2pipe",
		"-vcodec", "png",
		"-",
	)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg failed for %s: %w, stderr: %s", path, err, firstStderrLine(&stderr))
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("ffmpeg produced no output for %s", path)
	}

	img, _, err := image.Decode(&stdout)
	if err != nil {
		return nil, fmt.Errorf("decode ffmpeg output for %s: %w", path, err)
	}
	return img, nil
}

func firstStderrLine(buf *bytes.Buffer) string {
	s := strings.TrimSpace(buf.String())
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return s
}
