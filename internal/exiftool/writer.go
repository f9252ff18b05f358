package exiftool

import (
	"context"
	"fmt"
	"os/exec"
	"sort"
	"strings"
	"time"

	"medialib/internal/logging"
	"medialib/internal/metadata"
	"medialib/internal/metrics"
)

// DefaultWriteTimeout bounds a single tag write. Writes spawn a one-shot
// exiftool process, so the budget is wider than for reads.
const DefaultWriteTimeout = 60 * time.Second

// Writer applies tag assignments by invoking the exiftool binary once per
// write. One-shot invocations keep writes isolated from the stay-open read
// pipe and make the modification-time-preserving flags explicit.
type Writer struct {
	timeout time.Duration
}

// NewWriter creates a Writer. A zero timeout selects DefaultWriteTimeout.
func NewWriter(timeout time.Duration) *Writer {
	if timeout <= 0 {
		timeout = DefaultWriteTimeout
	}
	return &Writer{timeout: timeout}
}

// WriteTags applies the assignments to the file or its sidecar. The file's
// modification time is preserved (-P) and minor warnings are tolerated
// (-m). A missing sidecar is created from the media file; an existing one
// is updated in place.
func (w *Writer) WriteTags(ctx context.Context, path string, target metadata.WriteTarget, assignments map[string]string) error {
	if len(assignments) == 0 {
		return nil
	}

	args := buildWriteArgs(path, target, assignments, metadata.SidecarExists(path))

	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	start := time.Now()
	cmd := exec.CommandContext(ctx, "exiftool", args...)
	output, err := cmd.CombinedOutput()
	metrics.TagOperationDuration.WithLabelValues("write").Observe(time.Since(start).Seconds())

	if err != nil {
		return fmt.Errorf("exiftool write to %s (%s): %w: %s", path, target, err, firstLine(output))
	}

	logging.Debug("exiftool wrote %d tags to %s (%s)", len(assignments), path, target)
	return nil
}

// buildWriteArgs assembles the exiftool argument list. Assignments are
// sorted for deterministic invocations.
func buildWriteArgs(path string, target metadata.WriteTarget, assignments map[string]string, sidecarExists bool) []string {
	args := []string{"-overwrite_original", "-P", "-m"}

	keys := make([]string, 0, len(assignments))
	for k := range assignments {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, fmt.Sprintf("-%s=%s", k, assignments[k]))
	}

	if target == metadata.TargetSidecar {
		sidecar := metadata.SidecarPath(path)
		if sidecarExists {
			return append(args, sidecar)
		}
		// No sidecar yet: have exiftool derive one from the media file.
		return append(args, "-o", sidecar, path)
	}

	return append(args, path)
}

func firstLine(output []byte) string {
	s := strings.TrimSpace(string(output))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return s
}
