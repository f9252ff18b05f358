// Package pathsafe validates library-relative paths against a configured
// root so that no request can reach files outside the library tree.
package pathsafe

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrInvalidPath indicates a path that is absolute or malformed.
	ErrInvalidPath = errors.New("invalid path")
	// ErrPathTraversal indicates a path containing a ".." segment.
	ErrPathTraversal = errors.New("path traversal not allowed")
	// ErrPathEscape indicates a resolved path outside the library root.
	ErrPathEscape = errors.New("path escapes library root")
)

// Resolve validates relative against root and returns the absolute path of
// the target. The checks are ordered so that each failure mode maps to a
// distinct error: absolute input, literal "..", post-normalization "..",
// canonical containment, and a final-component symlink that points outside
// the root. On any failure no path is returned.
func Resolve(root, relative string) (string, error) {
	if filepath.IsAbs(relative) || strings.HasPrefix(relative, "/") {
		return "", fmt.Errorf("%w: absolute paths are not allowed", ErrInvalidPath)
	}

	if containsParentRef(relative) {
		return "", fmt.Errorf("%w: %q", ErrPathTraversal, relative)
	}

	normalized := filepath.Clean(filepath.FromSlash(relative))
	if normalized == "." {
		normalized = ""
	}
	if containsParentRef(normalized) || strings.HasPrefix(normalized, string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, relative)
	}

	canonicalRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return "", fmt.Errorf("%w: cannot canonicalize root: %v", ErrInvalidPath, err)
	}

	joined := filepath.Join(canonicalRoot, normalized)

	// Canonicalize as much of the path as exists. The target itself may not
	// exist yet (e.g. a sidecar about to be written), so walk up to the
	// nearest existing ancestor.
	canonical, err := canonicalize(joined)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPath, err)
	}
	if !isWithin(canonicalRoot, canonical) {
		return "", fmt.Errorf("%w: %q", ErrPathEscape, relative)
	}

	// The final component may itself be a symlink whose target was not
	// followed above when the entry is a dangling or directory link.
	if target, err := finalSymlinkTarget(joined); err == nil && target != "" {
		if !isWithin(canonicalRoot, target) {
			return "", fmt.Errorf("%w: symlink target %q", ErrPathEscape, target)
		}
	}

	return joined, nil
}

// containsParentRef reports whether any slash- or separator-delimited
// segment of p is "..".
func containsParentRef(p string) bool {
	for _, seg := range strings.FieldsFunc(p, func(r rune) bool {
		return r == '/' || r == '\\' || r == filepath.Separator
	}) {
		if seg == ".." {
			return true
		}
	}
	return false
}

// canonicalize resolves symlinks for the longest existing prefix of path and
// rejoins the non-existing remainder.
func canonicalize(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err == nil {
		return resolved, nil
	}
	if !os.IsNotExist(err) {
		return "", err
	}

	dir, base := filepath.Split(filepath.Clean(path))
	dir = strings.TrimSuffix(dir, string(filepath.Separator))
	if dir == "" || dir == path {
		return path, nil
	}
	resolvedDir, err := canonicalize(dir)
	if err != nil {
		return "", err
	}
	return filepath.Join(resolvedDir, base), nil
}

// finalSymlinkTarget returns the fully resolved target of path if its final
// component is a symlink, or "" when it is not.
func finalSymlinkTarget(path string) (string, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return "", err
	}
	if info.Mode()&os.ModeSymlink == 0 {
		return "", nil
	}
	return filepath.EvalSymlinks(path)
}

// isWithin reports whether path equals root or is a descendant of root.
func isWithin(root, path string) bool {
	root = filepath.Clean(root)
	path = filepath.Clean(path)
	if path == root {
		return true
	}
	return strings.HasPrefix(path, root+string(filepath.Separator))
}

// maxFilenameBytes is the common filesystem limit for a single name.
const maxFilenameBytes = 255

// SanitizeFilename strips anything from name that could change which
// directory the file lands in: path separators, parent references and NUL
// bytes become underscores, leading/trailing dots and whitespace are
// trimmed, and the result is truncated to 255 bytes keeping the extension.
func SanitizeFilename(name string) string {
	replacer := strings.NewReplacer(
		"..", "_",
		"/", "_",
		"\\", "_",
		"\x00", "_",
	)
	sanitized := replacer.Replace(name)
	sanitized = strings.Trim(sanitized, ". \t")

	if len(sanitized) > maxFilenameBytes {
		ext := filepath.Ext(sanitized)
		if len(ext) >= maxFilenameBytes {
			ext = ""
		}
		base := sanitized[:maxFilenameBytes-len(ext)]
		sanitized = base + ext
	}
	return sanitized
}
