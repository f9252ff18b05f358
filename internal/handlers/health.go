package handlers

import (
	"net/http"
	"runtime"
	"time"

	"medialib/internal/startup"
)

var startTime = time.Now()

// HealthResponse is the health check payload.
type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Uptime    string `json:"uptime"`
	Libraries int    `json:"libraries"`

	GoVersion    string `json:"goVersion"`
	NumCPU       int    `json:"numCpu"`
	NumGoroutine int    `json:"numGoroutine"`
}

// HealthCheck reports service health and basic runtime stats.
func (h *Handlers) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, HealthResponse{
		Status:       "healthy",
		Version:      startup.Version,
		Uptime:       time.Since(startTime).Round(time.Second).String(),
		Libraries:    len(h.service.Libraries()),
		GoVersion:    runtime.Version(),
		NumCPU:       runtime.NumCPU(),
		NumGoroutine: runtime.NumGoroutine(),
	})
}

// LivenessCheck always reports alive while the process is serving.
func (h *Handlers) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		writeJSON(w, map[string]string{"status": "alive"})
	}
}
