package repository

import (
	"context"

	"github.com/codemaplab/codemap/internal/models"
)

// StateRepository handles the singleton user progress row
type StateRepository interface {
	Get(ctx context.Context) (*models.UserState, error)
	Set(ctx context.Context, charLevel, cardIndex int) error
}

// EnrichmentRepository handles model-generated card enrichment
type EnrichmentRepository interface {
	Get(ctx context.Context, cardID string) (*models.Enrichment, error)
	Upsert(ctx context.Context, e models.Enrichment) error
}

// AttemptRepository handles the append-only attempt log
type AttemptRepository interface {
	Insert(ctx context.Context, a models.Attempt) (int64, error)
	Get(ctx context.Context, id int64) (*models.Attempt, error)
	List(ctx context.Context, filter models.AttemptFilter) ([]models.Attempt, error)
	Count(ctx context.Context, filter models.AttemptFilter) (int, error)
}

// EmbeddingRepository handles stored embedding vectors
type EmbeddingRepository interface {
	Upsert(ctx context.Context, e models.Embedding) error
	Get(ctx context.Context, kind, key string) (*models.Embedding, error)
	ListByKind(ctx context.Context, kind string, limit int) ([]models.Embedding, error)
}

// ChatRepository handles tutor sessions and their message history
type ChatRepository interface {
	CreateSession(ctx context.Context, id string) error
	GetSession(ctx context.Context, id string) (*models.ChatSession, error)
	InsertMessage(ctx context.Context, m models.ChatMessage) (int64, error)
	MessagesForSession(ctx context.Context, sessionID string, limit int) ([]models.ChatMessage, error)
}
