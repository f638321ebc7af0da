package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr             string
	DBPath           string
	LogLevel         string
	OpenAIAPIKey     string
	OpenAIModel      string
	OpenAIBaseURL    string
	EmbeddingModel   string
	TMDBAPIKey       string
	TMDBBaseURL      string
	EmbedWorkerCount int
	EmbedQueueSize   int
	AttemptWindow    int
	RecommendLimit   int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:             envOr("ADDR", ":8080"),
		DBPath:           envOr("DB_PATH", "file:codemap.db"),
		LogLevel:         envOr("LOG_LEVEL", "INFO"),
		OpenAIAPIKey:     envOr("OPENAI_API_KEY", ""),
		OpenAIModel:      envOr("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:    envOr("OPENAI_BASE_URL", ""),
		EmbeddingModel:   envOr("EMBEDDING_MODEL", "text-embedding-3-small"),
		TMDBAPIKey:       envOr("TMDB_API_KEY", ""),
		TMDBBaseURL:      envOr("TMDB_BASE_URL", "https://api.themoviedb.org/3"),
		EmbedWorkerCount: envIntOr("EMBED_WORKER_COUNT", 1),
		EmbedQueueSize:   envIntOr("EMBED_QUEUE_SIZE", 32),
		AttemptWindow:    envIntOr("ATTEMPT_WINDOW", 300),
		RecommendLimit:   envIntOr("RECOMMEND_LIMIT", 5),
	}
}

// Validate reports every invalid configuration value at once.
func (c Config) Validate() error {
	var problems []string

	if c.Addr == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if c.DBPath == "" {
		problems = append(problems, "DB_PATH cannot be empty")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL %q is not a valid level", c.LogLevel))
	}
	if c.EmbedWorkerCount < 1 {
		problems = append(problems, "EMBED_WORKER_COUNT must be at least 1")
	}
	if c.EmbedQueueSize < 1 {
		problems = append(problems, "EMBED_QUEUE_SIZE must be at least 1")
	}
	if c.AttemptWindow < 1 {
		problems = append(problems, "ATTEMPT_WINDOW must be at least 1")
	}
	if c.RecommendLimit < 1 {
		problems = append(problems, "RECOMMEND_LIMIT must be at least 1")
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
