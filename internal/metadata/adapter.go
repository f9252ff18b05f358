package metadata

import (
	"context"
	"fmt"
	"strconv"
)

// Tags is the flat tag map produced by a TagReader. Values are strings,
// numbers or lists depending on the tag, mirroring exiftool's JSON output.
type Tags map[string]interface{}

// GetString returns the tag value as a string, or "" when absent.
func (t Tags) GetString(key string) string {
	v, ok := t[key]
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", s)
	}
}

// GetStrings returns a multi-valued tag as a string slice. Single values
// become a one-element slice; empty elements are dropped.
func (t Tags) GetStrings(key string) []string {
	v, ok := t[key]
	if !ok || v == nil {
		return nil
	}
	var out []string
	switch vv := v.(type) {
	case []interface{}:
		for _, item := range vv {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
	case []string:
		for _, s := range vv {
			if s != "" {
				out = append(out, s)
			}
		}
	case string:
		if vv != "" {
			out = append(out, vv)
		}
	}
	return out
}

// GetFloat returns the tag value as a float64, or 0 when absent or not
// numeric.
func (t Tags) GetFloat(key string) float64 {
	switch v := t[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	default:
		return 0
	}
}

// GetInt returns the tag value as an int, or 0 when absent or not numeric.
func (t Tags) GetInt(key string) int {
	return int(t.GetFloat(key))
}

// Has reports whether the tag is present with a non-nil value.
func (t Tags) Has(key string) bool {
	v, ok := t[key]
	return ok && v != nil
}

// WriteTarget selects where a tag write lands.
type WriteTarget int

const (
	// TargetEmbedded writes into the media file itself.
	TargetEmbedded WriteTarget = iota
	// TargetSidecar writes into the XMP sidecar next to the media file.
	TargetSidecar
)

func (t WriteTarget) String() string {
	if t == TargetSidecar {
		return "sidecar"
	}
	return "embedded"
}

// TagReader extracts the tags of a file. Implementations invoke an external
// tag tool with a bounded timeout and must return an error, never panic, on
// tool failure, timeout or malformed output.
type TagReader interface {
	ReadTags(ctx context.Context, path string) (Tags, error)
}

// TagWriter applies tag assignments to a media file or its sidecar. The
// file's modification time must be preserved and minor tool warnings
// tolerated. Tool failure, timeout or a missing binary are reported as an
// error, never as a fault.
type TagWriter interface {
	WriteTags(ctx context.Context, path string, target WriteTarget, assignments map[string]string) error
}
