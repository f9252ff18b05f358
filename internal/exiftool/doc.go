// Package exiftool provides the concrete tag adapters backed by the
// exiftool binary: a stay-open reader via github.com/barasher/go-exiftool
// and a one-shot writer via exec. Both enforce timeouts and report tool
// failures as plain errors.
package exiftool
