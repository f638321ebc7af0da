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
	"github.com/codemaplab/codemap/internal/db"
	"github.com/codemaplab/codemap/internal/llm"
	"github.com/codemaplab/codemap/internal/logger"
	"github.com/codemaplab/codemap/internal/repository/sqlite"
	"github.com/codemaplab/codemap/internal/services"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("Tutor Server Starting")
	log.Info("===========================================")
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("openai_model=%s", cfg.OpenAIModel)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	var client llm.Client
	if cfg.OpenAIAPIKey != "" {
		oai, err := llm.NewOpenAIClient(llm.OpenAIConfig{
			APIKey:  cfg.OpenAIAPIKey,
			Model:   cfg.OpenAIModel,
			BaseURL: cfg.OpenAIBaseURL,
		})
		if err != nil {
			log.Error("failed to create model client: %v", err)
			os.Exit(1)
		}
		client = oai
		log.Info("model client configured: %s", oai.ModelID())
	} else {
		log.Warn("no OPENAI_API_KEY set, replies will fail with an upstream error")
	}

	chatRepo := sqlite.NewChatRepository(database.DB)
	chatService := services.NewChatService(chatRepo, client)

	srv := &api.TutorServer{
		ChatService: chatService,
		StaticDir:   "web/static/tutor",
	}

	// Long write timeout: SSE replies stream for as long as the model talks.
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
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
	log.Info("Tutor Server Stopped")
	log.Info("===========================================")
}
