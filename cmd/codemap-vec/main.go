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
	"github.com/codemaplab/codemap/internal/worker"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("CodeMap-Vec Server Starting")
	log.Info("===========================================")
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("openai_model=%s", cfg.OpenAIModel)
	log.Debug("embedding_model=%s", cfg.EmbeddingModel)
	log.Debug("embed_worker_count=%d", cfg.EmbedWorkerCount)
	log.Debug("embed_queue_size=%d", cfg.EmbedQueueSize)
	log.Debug("attempt_window=%d", cfg.AttemptWindow)
	log.Debug("recommend_limit=%d", cfg.RecommendLimit)

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
			APIKey:         cfg.OpenAIAPIKey,
			Model:          cfg.OpenAIModel,
			EmbeddingModel: cfg.EmbeddingModel,
			BaseURL:        cfg.OpenAIBaseURL,
		})
		if err != nil {
			log.Error("failed to create model client: %v", err)
			os.Exit(1)
		}
		client = oai
		log.Info("model client configured: %s", oai.ModelID())
	} else {
		log.Warn("no OPENAI_API_KEY set, similarity recommendations will stay empty")
	}

	stateRepo := sqlite.NewStateRepository(database.DB)
	enrichRepo := sqlite.NewEnrichmentRepository(database.DB)
	attemptRepo := sqlite.NewAttemptRepository(database.DB)
	embeddingRepo := sqlite.NewEmbeddingRepository(database.DB)

	embedPool := worker.NewPool(cfg.EmbedWorkerCount, cfg.EmbedQueueSize)

	// Per-attempt embeddings happen off the submit path.
	var onAttempt func(attemptID int64)
	if client != nil {
		onAttempt = func(attemptID int64) {
			embedPool.Submit(&worker.EmbedAttemptJob{
				AttemptRepo:   attemptRepo,
				EmbeddingRepo: embeddingRepo,
				Client:        client,
				AttemptID:     attemptID,
			})
		}
	}

	studyService := services.NewStudyService(stateRepo, enrichRepo, attemptRepo, client, onAttempt)
	recommendService := services.NewRecommendService(attemptRepo, embeddingRepo, cfg.AttemptWindow)

	srv := &api.StudyServer{
		StudyService:     studyService,
		RecommendService: recommendService,
		RecommendLimit:   cfg.RecommendLimit,
		StaticDir:        "web/static/codemap-vec",
		Vector:           true,
	}

	ctx, cancel := context.WithCancel(context.Background())
	embedPool.Start(ctx)

	// Backfill card embeddings at startup.
	if client != nil {
		embedPool.Submit(&worker.EmbedCardsJob{
			EmbeddingRepo: embeddingRepo,
			Client:        client,
		})
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

	log.Debug("stopping worker pool")
	cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	embedPool.Stop()

	log.Info("===========================================")
	log.Info("CodeMap-Vec Server Stopped")
	log.Info("===========================================")
}
