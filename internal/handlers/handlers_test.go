package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"medialib/internal/cache"
	"medialib/internal/library"
	"medialib/internal/metadata"
	"medialib/internal/scanner"
)

type fakeReader struct {
	tags map[string]metadata.Tags
}

func (f *fakeReader) ReadTags(_ context.Context, path string) (metadata.Tags, error) {
	if t, ok := f.tags[path]; ok {
		return t, nil
	}
	return metadata.Tags{}, nil
}

type fakeWriter struct{}

func (fakeWriter) WriteTags(context.Context, string, metadata.WriteTarget, map[string]string) error {
	return nil
}

func newTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()

	root := t.TempDir()
	c := cache.New(t.TempDir(), cache.NewFFmpeg(0))
	svc := library.NewService(
		map[string]string{"photos": root},
		scanner.New(),
		metadata.NewStore(&fakeReader{tags: map[string]metadata.Tags{}}, fakeWriter{}),
		c,
		cache.NewPool(c, 1),
	)

	srv := httptest.NewServer(New(svc, false).Router())
	t.Cleanup(srv.Close)
	return srv, root
}

func writeJPEGFile(t *testing.T, dir, name string) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 320, 240))
	for y := 0; y < 240; y++ {
		for x := 0; x < 320; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 99, A: 255})
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, img, nil); err != nil {
		t.Fatal(err)
	}
	return path
}

func getJSON(t *testing.T, url string, wantStatus int, into interface{}) {
	t.Helper()

	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		t.Fatalf("GET %s status = %d, want %d", url, resp.StatusCode, wantStatus)
	}
	if into != nil {
		if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
}

func TestListLibraries(t *testing.T) {
	srv, _ := newTestServer(t)

	var body struct {
		Libraries []library.Library `json:"libraries"`
	}
	getJSON(t, srv.URL+"/api/libraries", http.StatusOK, &body)

	if len(body.Libraries) != 1 || body.Libraries[0].ID != "photos" {
		t.Errorf("libraries = %v", body.Libraries)
	}
}

func TestListFoldersAndMedia(t *testing.T) {
	srv, root := newTestServer(t)
	if err := os.Mkdir(filepath.Join(root, "vacation"), 0755); err != nil {
		t.Fatal(err)
	}
	writeJPEGFile(t, filepath.Join(root, "vacation"), "a.jpg")

	var folders struct {
		Folders []scanner.FolderNode `json:"folders"`
	}
	getJSON(t, srv.URL+"/api/libraries/photos/folders", http.StatusOK, &folders)
	if len(folders.Folders) != 1 || folders.Folders[0].Name != "vacation" {
		t.Errorf("folders = %v", folders.Folders)
	}

	var media struct {
		Media []library.MediaItem `json:"media"`
	}
	getJSON(t, srv.URL+"/api/libraries/photos/media?path=vacation", http.StatusOK, &media)
	if len(media.Media) != 1 || media.Media[0].Filename != "a.jpg" {
		t.Errorf("media = %v", media.Media)
	}
	if media.Media[0].ReviewStatus != metadata.StatusUnreviewed {
		t.Errorf("status = %s, want unreviewed", media.Media[0].ReviewStatus)
	}
}

func TestUnknownLibraryIs404(t *testing.T) {
	srv, _ := newTestServer(t)
	getJSON(t, srv.URL+"/api/libraries/nope/folders", http.StatusNotFound, nil)
}

func TestTraversalIs400(t *testing.T) {
	srv, _ := newTestServer(t)
	getJSON(t, srv.URL+"/api/libraries/photos/media/detail?path=../etc/passwd", http.StatusBadRequest, nil)
}

func TestMissingFileIs404(t *testing.T) {
	srv, _ := newTestServer(t)
	getJSON(t, srv.URL+"/api/libraries/photos/media/detail?path=gone.jpg", http.StatusNotFound, nil)
}

func TestInvalidFilterIs400(t *testing.T) {
	srv, _ := newTestServer(t)
	getJSON(t, srv.URL+"/api/libraries/photos/media?filter=bogus", http.StatusBadRequest, nil)
}

func TestUpdateMetadata(t *testing.T) {
	srv, root := newTestServer(t)
	writeJPEGFile(t, root, "a.jpg")

	payload, _ := json.Marshal(map[string]string{"subject": "New title"})
	req, _ := http.NewRequest(http.MethodPatch, srv.URL+"/api/libraries/photos/media/metadata?path=a.jpg", bytes.NewReader(payload))
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var outcome library.UpdateOutcome
	if err := json.NewDecoder(resp.Body).Decode(&outcome); err != nil {
		t.Fatal(err)
	}
	if outcome.ReviewSkipped {
		t.Error("no review write should be skipped")
	}
}

func TestUpdateMetadataBadBody(t *testing.T) {
	srv, root := newTestServer(t)
	writeJPEGFile(t, root, "a.jpg")

	req, _ := http.NewRequest(http.MethodPatch, srv.URL+"/api/libraries/photos/media/metadata?path=a.jpg", bytes.NewReader([]byte("{broken")))
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestThumbnailServed(t *testing.T) {
	srv, root := newTestServer(t)
	writeJPEGFile(t, root, "a.jpg")

	resp, err := http.Get(srv.URL + "/api/libraries/photos/thumbnail?path=a.jpg")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/jpeg" {
		t.Errorf("content type = %q, want image/jpeg", ct)
	}
}

func TestNavigate(t *testing.T) {
	srv, root := newTestServer(t)
	writeJPEGFile(t, root, "a.jpg")
	writeJPEGFile(t, root, "b.jpg")

	var body struct {
		Found bool              `json:"found"`
		File  scanner.MediaFile `json:"file"`
	}
	getJSON(t, srv.URL+"/api/libraries/photos/media/navigate?path=a.jpg&direction=next", http.StatusOK, &body)
	if !body.Found || body.File.Filename != "b.jpg" {
		t.Errorf("navigate = %+v, want b.jpg", body)
	}

	getJSON(t, srv.URL+"/api/libraries/photos/media/navigate?path=b.jpg&direction=next", http.StatusOK, &body)
	if body.Found {
		t.Error("next of the last file should report found=false")
	}

	getJSON(t, srv.URL+"/api/libraries/photos/media/navigate?path=a.jpg&direction=sideways", http.StatusBadRequest, nil)
}

func TestQueueThumbnail(t *testing.T) {
	srv, root := newTestServer(t)
	writeJPEGFile(t, root, "a.jpg")

	resp, err := http.Post(srv.URL+"/api/libraries/photos/queue?path=a.jpg", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Errorf("status = %d, want 202", resp.StatusCode)
	}
}

func TestHealthEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	var health HealthResponse
	getJSON(t, srv.URL+"/health", http.StatusOK, &health)
	if health.Status != "healthy" || health.Libraries != 1 {
		t.Errorf("health = %+v", health)
	}

	getJSON(t, srv.URL+"/healthz", http.StatusOK, nil)
}
