package pathsafe

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestResolveRejectsAbsolutePaths(t *testing.T) {
	root := t.TempDir()

	tests := []string{
		"/etc/passwd",
		"/",
		"/tmp",
	}

	for _, rel := range tests {
		t.Run(rel, func(t *testing.T) {
			path, err := Resolve(root, rel)
			if !errors.Is(err, ErrInvalidPath) {
				t.Errorf("Resolve(%q) error = %v, want ErrInvalidPath", rel, err)
			}
			if path != "" {
				t.Errorf("Resolve(%q) returned path %q, want empty", rel, path)
			}
		})
	}
}

func TestResolveRejectsTraversal(t *testing.T) {
	root := t.TempDir()

	tests := []string{
		"..",
		"../../etc/passwd",
		"vacation/../../etc",
		"a/b/../../../c",
		"..\\windows",
	}

	for _, rel := range tests {
		t.Run(rel, func(t *testing.T) {
			path, err := Resolve(root, rel)
			if !errors.Is(err, ErrPathTraversal) {
				t.Errorf("Resolve(%q) error = %v, want ErrPathTraversal", rel, err)
			}
			if path != "" {
				t.Errorf("Resolve(%q) returned path %q, want empty", rel, path)
			}
		})
	}
}

func TestResolveValidPaths(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "vacation", "day1"), 0o755); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		rel  string
	}{
		{"Root itself", ""},
		{"Dot", "."},
		{"Single level", "vacation"},
		{"Nested", "vacation/day1"},
		{"Redundant separators", "vacation//day1"},
		{"Current-dir segments", "./vacation/./day1"},
		{"Nonexistent leaf", "vacation/new.jpg"},
	}

	canonicalRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		t.Fatal(err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := Resolve(root, tt.rel)
			if err != nil {
				t.Fatalf("Resolve(%q) error: %v", tt.rel, err)
			}
			if path != canonicalRoot && !strings.HasPrefix(path, canonicalRoot+string(filepath.Separator)) {
				t.Errorf("Resolve(%q) = %q, not under root %q", tt.rel, path, canonicalRoot)
			}
		})
	}
}

func TestResolveSymlinkEscape(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()

	link := filepath.Join(root, "escape")
	if err := os.Symlink(outside, link); err != nil {
		t.Skipf("cannot create symlink: %v", err)
	}

	_, err := Resolve(root, "escape")
	if !errors.Is(err, ErrPathEscape) {
		t.Errorf("Resolve through escaping symlink: error = %v, want ErrPathEscape", err)
	}

	// A symlink pointing inside the root is fine.
	inside := filepath.Join(root, "real")
	if err := os.MkdirAll(inside, 0o755); err != nil {
		t.Fatal(err)
	}
	goodLink := filepath.Join(root, "alias")
	if err := os.Symlink(inside, goodLink); err != nil {
		t.Fatal(err)
	}
	if _, err := Resolve(root, "alias"); err != nil {
		t.Errorf("Resolve through internal symlink failed: %v", err)
	}
}

func TestResolveSymlinkedIntermediateDirectory(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()

	if err := os.WriteFile(filepath.Join(outside, "secret.jpg"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(outside, filepath.Join(root, "shared")); err != nil {
		t.Skipf("cannot create symlink: %v", err)
	}

	_, err := Resolve(root, "shared/secret.jpg")
	if !errors.Is(err, ErrPathEscape) {
		t.Errorf("Resolve through escaping intermediate symlink: error = %v, want ErrPathEscape", err)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"Plain name", "photo.jpg", "photo.jpg"},
		{"Path separator", "a/b.jpg", "a_b.jpg"},
		{"Backslash", "a\\b.jpg", "a_b.jpg"},
		{"Parent reference", "..secret", "_secret"},
		{"NUL byte", "a\x00b.jpg", "a_b.jpg"},
		{"Leading dots", "...hidden", "hidden"},
		{"Trailing spaces", "name.jpg  ", "name.jpg"},
		{"Leading and trailing", " .name. ", "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFilename(tt.input); got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeFilenameTruncates(t *testing.T) {
	long := strings.Repeat("a", 300) + ".jpg"
	got := SanitizeFilename(long)

	if len(got) > 255 {
		t.Errorf("SanitizeFilename length = %d, want <= 255", len(got))
	}
	if filepath.Ext(got) != ".jpg" {
		t.Errorf("SanitizeFilename extension = %q, want .jpg", filepath.Ext(got))
	}
}
