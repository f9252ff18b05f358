package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"medialib/internal/metadata"
	"medialib/internal/navigate"
)

// ListLibraries returns the registered libraries.
func (h *Handlers) ListLibraries(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]interface{}{"libraries": h.service.Libraries()})
}

// ListFolders returns the immediate subfolders of a library folder.
func (h *Handlers) ListFolders(w http.ResponseWriter, r *http.Request) {
	folders, err := h.service.ListFolders(requestLibrary(r), requestPath(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, map[string]interface{}{"folders": folders})
}

// ListMedia returns the media files of a folder, optionally filtered by
// review status via the filter query parameter.
func (h *Handlers) ListMedia(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseFilter(r.URL.Query().Get("filter"))
	if !ok {
		writeJSONError(w, "invalid filter", http.StatusBadRequest)
		return
	}

	items, err := h.service.ListMedia(r.Context(), requestLibrary(r), requestPath(r), filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, map[string]interface{}{"media": items})
}

// MediaDetail returns one file with its logical and technical metadata.
func (h *Handlers) MediaDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := h.service.MediaDetail(r.Context(), requestLibrary(r), requestPath(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, detail)
}

// UpdateMetadata applies a partial metadata update from the JSON body.
func (h *Handlers) UpdateMetadata(w http.ResponseWriter, r *http.Request) {
	var update metadata.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	outcome, err := h.service.UpdateMetadata(r.Context(), requestLibrary(r), requestPath(r), update)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, outcome)
}

// Thumbnail serves the cached thumbnail of a file, generating it on
// demand.
func (h *Handlers) Thumbnail(w http.ResponseWriter, r *http.Request) {
	h.serveArtifact(w, r, h.service.Thumbnail)
}

// Preview serves the cached preview of a file, generating it on demand.
func (h *Handlers) Preview(w http.ResponseWriter, r *http.Request) {
	h.serveArtifact(w, r, h.service.Preview)
}

func (h *Handlers) serveArtifact(w http.ResponseWriter, r *http.Request, get artifactFunc) {
	servePath, err := get(r.Context(), requestLibrary(r), requestPath(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	http.ServeFile(w, r, servePath)
}

// QueueThumbnail schedules background thumbnail generation for a file.
func (h *Handlers) QueueThumbnail(w http.ResponseWriter, r *http.Request) {
	if err := h.service.QueueThumbnail(requestLibrary(r), requestPath(r)); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
	writeJSON(w, map[string]string{"status": "queued"})
}

// Navigate returns the next or previous sibling of a file within its
// folder's filtered order.
func (h *Handlers) Navigate(w http.ResponseWriter, r *http.Request) {
	direction := navigate.Direction(r.URL.Query().Get("direction"))
	if direction != navigate.DirectionNext && direction != navigate.DirectionPrevious {
		writeJSONError(w, "invalid direction", http.StatusBadRequest)
		return
	}
	filter, ok := parseFilter(r.URL.Query().Get("filter"))
	if !ok {
		writeJSONError(w, "invalid filter", http.StatusBadRequest)
		return
	}

	neighbor, found, err := h.service.Navigate(r.Context(), requestLibrary(r), requestPath(r), direction, filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !found {
		writeJSON(w, map[string]interface{}{"found": false})
		return
	}
	writeJSON(w, map[string]interface{}{"found": true, "file": neighbor})
}

type artifactFunc func(ctx context.Context, libraryID, relative string) (string, error)

func parseFilter(raw string) (navigate.Filter, bool) {
	switch navigate.Filter(raw) {
	case "", navigate.FilterAll:
		return navigate.FilterAll, true
	case navigate.FilterReviewed:
		return navigate.FilterReviewed, true
	case navigate.FilterUnreviewed:
		return navigate.FilterUnreviewed, true
	default:
		return "", false
	}
}
