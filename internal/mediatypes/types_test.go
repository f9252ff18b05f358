package mediatypes

import "testing"

func TestGetFileKind(t *testing.T) {
	tests := []struct {
		ext  string
		want FileKind
	}{
		{".jpg", KindImage},
		{".jpeg", KindImage},
		{".cr2", KindImage},
		{".nef", KindImage},
		{".tiff", KindImage},
		{".mp4", KindVideo},
		{".mov", KindVideo},
		{".mkv", KindVideo},
		{".txt", KindOther},
		{".png", KindOther},
		{".xmp", KindOther},
		{"", KindOther},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			if got := GetFileKind(tt.ext); got != tt.want {
				t.Errorf("GetFileKind(%q) = %v, want %v", tt.ext, got, tt.want)
			}
		})
	}
}

func TestGetMimeType(t *testing.T) {
	tests := []struct {
		ext  string
		want string
	}{
		{".jpg", "image/jpeg"},
		{".mp4", "video/mp4"},
		{".cr2", "image/x-canon-cr2"},
		{".unknown", "application/octet-stream"},
	}

	for _, tt := range tests {
		if got := GetMimeType(tt.ext); got != tt.want {
			t.Errorf("GetMimeType(%q) = %q, want %q", tt.ext, got, tt.want)
		}
	}
}

func TestIsBlockedDirectory(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{".hidden", true},
		{"#recycle", true},
		{"@eaDir", true},
		{"$RECYCLE.BIN", true},
		{"System Volume Information", true},
		{"lost+found", true},
		{"vacation", false},
		{"2024", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsBlockedDirectory(tt.name); got != tt.want {
				t.Errorf("IsBlockedDirectory(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestIsBlockedFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{".DS_Store", true},
		{"Thumbs.db", true},
		{"desktop.ini", true},
		{"corrections.csv", true},
		{"a.jpg", false},
		{"notes.txt", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsBlockedFile(tt.name); got != tt.want {
				t.Errorf("IsBlockedFile(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}
