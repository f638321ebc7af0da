package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/codemaplab/codemap/internal/api"
	"github.com/codemaplab/codemap/internal/config"
	"github.com/codemaplab/codemap/internal/logger"
	"github.com/codemaplab/codemap/internal/services"
	"github.com/codemaplab/codemap/internal/tmdb"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("MovieQuiz Server Starting")
	log.Info("===========================================")
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("tmdb_base_url=%s", cfg.TMDBBaseURL)

	if cfg.TMDBAPIKey == "" {
		log.Warn("no TMDB_API_KEY set, catalog lookups will fail with a user-visible message")
	}

	catalog := tmdb.New(cfg.TMDBAPIKey, cfg.TMDBBaseURL)
	movieService := services.NewMovieService(catalog)

	srv := &api.MovieServer{
		MovieService: movieService,
		StaticDir:    "web/static/moviequiz",
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Info("===========================================")
	log.Info("MovieQuiz Server Stopped")
	log.Info("===========================================")
}
