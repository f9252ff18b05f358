package exiftool

import (
	"context"
	"fmt"
	"sync"
	"time"

	exif "github.com/barasher/go-exiftool"

	"medialib/internal/logging"
	"medialib/internal/metadata"
	"medialib/internal/metrics"
)

// DefaultReadTimeout bounds a single tag extraction.
const DefaultReadTimeout = 30 * time.Second

// Reader extracts tags through a long-lived stay-open exiftool process.
// The process is started on first use; extraction calls are serialized
// because the stay-open pipe is not safe for concurrent use.
type Reader struct {
	timeout time.Duration

	once    sync.Once
	mu      sync.Mutex
	et      *exif.Exiftool
	initErr error
}

// NewReader creates a Reader. A zero timeout selects DefaultReadTimeout.
func NewReader(timeout time.Duration) *Reader {
	if timeout <= 0 {
		timeout = DefaultReadTimeout
	}
	return &Reader{timeout: timeout}
}

func (r *Reader) init() error {
	r.once.Do(func() {
		et, err := exif.NewExiftool()
		if err != nil {
			r.initErr = fmt.Errorf("start exiftool: %w", err)
			logging.Warn("exiftool unavailable: %v", err)
			return
		}
		r.et = et
		logging.Debug("exiftool stay-open process started")
	})
	return r.initErr
}

// ReadTags extracts the flat tag map of a file. The call is bounded by the
// reader's timeout and the caller's context, whichever ends first.
func (r *Reader) ReadTags(ctx context.Context, path string) (metadata.Tags, error) {
	start := time.Now()
	tags, err := r.readTags(ctx, path)
	metrics.TagOperationDuration.WithLabelValues("read").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.TagReadsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.TagReadsTotal.WithLabelValues("success").Inc()
	return tags, nil
}

func (r *Reader) readTags(ctx context.Context, path string) (metadata.Tags, error) {
	if err := r.init(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	type result struct {
		tags metadata.Tags
		err  error
	}
	done := make(chan result, 1)

	go func() {
		r.mu.Lock()
		defer r.mu.Unlock()

		fms := r.et.ExtractMetadata(path)
		if len(fms) == 0 {
			done <- result{err: fmt.Errorf("no exiftool output for %s", path)}
			return
		}
		fm := fms[0]
		if fm.Err != nil {
			done <- result{err: fmt.Errorf("extract tags from %s: %w", path, fm.Err)}
			return
		}
		done <- result{tags: metadata.Tags(fm.Fields)}
	}()

	select {
	case res := <-done:
		return res.tags, res.err
	case <-ctx.Done():
		return nil, fmt.Errorf("tag read for %s: %w", path, ctx.Err())
	}
}

// Close shuts down the stay-open process. Safe to call when the process
// never started.
func (r *Reader) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.et == nil {
		return
	}
	if err := r.et.Close(); err != nil {
		logging.Warn("closing exiftool: %v", err)
	}
	r.et = nil
}
