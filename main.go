package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medialib/internal/cache"
	"medialib/internal/exiftool"
	"medialib/internal/handlers"
	"medialib/internal/library"
	"medialib/internal/logging"
	"medialib/internal/metadata"
	"medialib/internal/scanner"
	"medialib/internal/startup"
)

func main() {
	config, err := startup.LoadConfig()
	if err != nil {
		logging.Fatal("Configuration error: %v", err)
	}

	// libvips is optional acceleration; the cache falls back to pure-Go
	// decoding when it is missing.
	if err := cache.InitVips(); err != nil {
		logging.Warn("libvips unavailable: %v", err)
	}

	reader := exiftool.NewReader(config.ExiftoolTimeout)
	writer := exiftool.NewWriter(config.ExiftoolTimeout)
	store := metadata.NewStore(reader, writer)

	mediaCache := cache.New(config.CacheDir, cache.NewFFmpeg(config.FFmpegTimeout))
	pool := cache.NewPool(mediaCache, config.ThumbnailWorkers)
	pool.Start()

	service := library.NewService(config.Libraries, scanner.New(), store, mediaCache, pool)

	// Watch library roots so new media gets thumbnails before anyone asks.
	watchStop := make(chan struct{})
	go service.Watch(watchStop)

	h := handlers.New(service, config.MetricsEnabled)

	srv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      h.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // large artifacts stream at client speed
		IdleTimeout:  60 * time.Second,
	}

	go handleShutdown(srv, pool, reader, watchStop)

	logging.Info("Server listening on :%s", config.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logging.Fatal("Server error: %v", err)
	}
}

func handleShutdown(srv *http.Server, pool *cache.Pool, reader *exiftool.Reader, watchStop chan struct{}) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	logging.Info("Shutdown initiated (%s)", sig)

	close(watchStop)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("HTTP shutdown: %v", err)
	}

	pool.Stop()
	reader.Close()
	cache.ShutdownVips()

	logging.Info("Shutdown complete")
}
