package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"medialib/internal/library"
	"medialib/internal/middleware"
)

// Handlers carries the facade the HTTP routes delegate to.
type Handlers struct {
	service        *library.Service
	metricsEnabled bool
}

// New creates the handler set over a library service.
func New(service *library.Service, metricsEnabled bool) *Handlers {
	return &Handlers{service: service, metricsEnabled: metricsEnabled}
}

// Router builds the full route table with logging and metrics middleware
// applied.
func (h *Handlers) Router() *mux.Router {
	r := mux.NewRouter()

	r.Use(middleware.Logger(middleware.DefaultLoggingConfig()))
	if h.metricsEnabled {
		r.Use(middleware.Metrics(middleware.DefaultMetricsConfig()))
		r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	}

	r.HandleFunc("/healthz", h.LivenessCheck).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/libraries", h.ListLibraries).Methods(http.MethodGet)

	lib := api.PathPrefix("/libraries/{library}").Subrouter()
	lib.HandleFunc("/folders", h.ListFolders).Methods(http.MethodGet)
	lib.HandleFunc("/media", h.ListMedia).Methods(http.MethodGet)
	lib.HandleFunc("/media/detail", h.MediaDetail).Methods(http.MethodGet)
	lib.HandleFunc("/media/metadata", h.UpdateMetadata).Methods(http.MethodPatch, http.MethodPost)
	lib.HandleFunc("/media/navigate", h.Navigate).Methods(http.MethodGet)
	lib.HandleFunc("/thumbnail", h.Thumbnail).Methods(http.MethodGet)
	lib.HandleFunc("/preview", h.Preview).Methods(http.MethodGet)
	lib.HandleFunc("/queue", h.QueueThumbnail).Methods(http.MethodPost)

	return r
}

// requestLibrary extracts the library id route variable.
func requestLibrary(r *http.Request) string {
	return mux.Vars(r)["library"]
}

// requestPath extracts the library-relative path query parameter. An
// empty value addresses the library root.
func requestPath(r *http.Request) string {
	return r.URL.Query().Get("path")
}
