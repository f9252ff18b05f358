// Package startup loads configuration from the environment, validates the
// library and cache directories and logs the startup banner.
package startup

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"medialib/internal/logging"
	"medialib/internal/workers"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// BuildInfo contains version and build information.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information.
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// Config holds all application configuration.
type Config struct {
	// Libraries maps library id to its absolute root directory.
	Libraries map[string]string

	CacheDir string
	Port     string

	ThumbnailWorkers int
	ExiftoolTimeout  time.Duration
	FFmpegTimeout    time.Duration
	MetricsEnabled   bool
}

// LoadConfig loads and validates configuration from environment variables.
//
// LIBRARY_DIRS is a comma-separated list of id=path pairs; a bare path
// gets its base name as id. Every library root must exist.
func LoadConfig() (*Config, error) {
	printBanner()

	config := &Config{
		CacheDir:         getEnv("CACHE_DIR", "/cache"),
		Port:             getEnv("PORT", "8080"),
		ThumbnailWorkers: workers.Thumbnail(),
		ExiftoolTimeout:  getEnvDuration("EXIFTOOL_TIMEOUT", 30*time.Second),
		FFmpegTimeout:    getEnvDuration("FFMPEG_TIMEOUT", 60*time.Second),
		MetricsEnabled:   getEnvBool("METRICS_ENABLED", true),
	}

	libraries, err := parseLibraryDirs(getEnv("LIBRARY_DIRS", "/media"))
	if err != nil {
		return nil, err
	}
	config.Libraries = libraries

	cacheDir, err := filepath.Abs(config.CacheDir)
	if err != nil {
		return nil, fmt.Errorf("resolve cache dir: %w", err)
	}
	config.CacheDir = cacheDir
	if err := os.MkdirAll(config.CacheDir, 0755); err != nil {
		return nil, fmt.Errorf("create cache dir %s: %w", config.CacheDir, err)
	}

	logConfig(config)
	return config, nil
}

// parseLibraryDirs parses the LIBRARY_DIRS value and verifies each root.
func parseLibraryDirs(raw string) (map[string]string, error) {
	libraries := make(map[string]string)

	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		id, path := "", entry
		if idx := strings.Index(entry, "="); idx >= 0 {
			id, path = strings.TrimSpace(entry[:idx]), strings.TrimSpace(entry[idx+1:])
		}

		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("resolve library path %q: %w", path, err)
		}
		if id == "" {
			id = filepath.Base(abs)
		}

		fi, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("library %q: %w", id, err)
		}
		if !fi.IsDir() {
			return nil, fmt.Errorf("library %q: %s is not a directory", id, abs)
		}

		if existing, dup := libraries[id]; dup {
			return nil, fmt.Errorf("duplicate library id %q (%s and %s)", id, existing, abs)
		}
		libraries[id] = abs
	}

	if len(libraries) == 0 {
		return nil, fmt.Errorf("LIBRARY_DIRS defines no libraries")
	}
	return libraries, nil
}

func printBanner() {
	logging.Info("========================================")
	logging.Info("  Media Library Access Layer")
	logging.Info("  Version:    %s", Version)
	logging.Info("  Commit:     %s", Commit)
	logging.Info("  Go version: %s", runtime.Version())
	logging.Info("========================================")
}

func logConfig(config *Config) {
	logging.Info("Configuration:")

	ids := make([]string, 0, len(config.Libraries))
	for id := range config.Libraries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		logging.Info("  Library %q: %s", id, config.Libraries[id])
	}

	logging.Info("  Cache dir:         %s", config.CacheDir)
	logging.Info("  Port:              %s", config.Port)
	logging.Info("  Thumbnail workers: %d", config.ThumbnailWorkers)
	logging.Info("  Exiftool timeout:  %s", config.ExiftoolTimeout)
	logging.Info("  FFmpeg timeout:    %s", config.FFmpegTimeout)
	logging.Info("  Metrics:           %s", enabledString(config.MetricsEnabled))
}

func enabledString(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn("invalid boolean for %s: %q, using %v", key, value, fallback)
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	// Accept plain seconds as well as Go duration syntax.
	if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	parsed, err := time.ParseDuration(value)
	if err != nil || parsed <= 0 {
		logging.Warn("invalid duration for %s: %q, using %s", key, value, fallback)
		return fallback
	}
	return parsed
}
