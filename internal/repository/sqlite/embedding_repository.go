package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/codemaplab/codemap/internal/logger"
	"github.com/codemaplab/codemap/internal/models"
	"github.com/codemaplab/codemap/internal/repository"
)

type embeddingRepository struct {
	db *sql.DB
}

// NewEmbeddingRepository creates a new EmbeddingRepository implementation
func NewEmbeddingRepository(db *sql.DB) repository.EmbeddingRepository {
	return &embeddingRepository{db: db}
}

func (r *embeddingRepository) Upsert(ctx context.Context, e models.Embedding) error {
	log := logger.FromContext(ctx).WithPrefix("embedding_repo")
	log.Debug("upserting embedding: kind=%s, key=%s, dims=%d", e.Kind, e.Key, len(e.Vector))

	vectorJSON, err := json.Marshal(e.Vector)
	if err != nil {
		log.Error("failed to marshal vector: %v", err)
		return err
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO embeddings (kind, key, vector_json)
VALUES (?, ?, ?)
ON CONFLICT(kind, key) DO UPDATE SET
    vector_json = excluded.vector_json,
    created_at = CURRENT_TIMESTAMP
`, e.Kind, e.Key, string(vectorJSON))
	if err != nil {
		log.Error("failed to upsert embedding: %v", err)
		return err
	}
	return nil
}

func (r *embeddingRepository) Get(ctx context.Context, kind, key string) (*models.Embedding, error) {
	log := logger.FromContext(ctx).WithPrefix("embedding_repo")
	log.Debug("getting embedding: kind=%s, key=%s", kind, key)

	var e models.Embedding
	var vectorJSON string
	err := r.db.QueryRowContext(ctx, `
SELECT id, kind, key, vector_json, created_at
FROM embeddings
WHERE kind = ? AND key = ?
`, kind, key).Scan(&e.ID, &e.Kind, &e.Key, &vectorJSON, &e.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("embedding not found: kind=%s, key=%s", kind, key)
		return nil, err
	}
	if err != nil {
		log.Error("failed to get embedding: %v", err)
		return nil, err
	}
	if err := json.Unmarshal([]byte(vectorJSON), &e.Vector); err != nil {
		log.Error("failed to unmarshal vector: %v", err)
		return nil, err
	}
	return &e, nil
}

func (r *embeddingRepository) ListByKind(ctx context.Context, kind string, limit int) ([]models.Embedding, error) {
	log := logger.FromContext(ctx).WithPrefix("embedding_repo")
	log.Debug("listing embeddings: kind=%s, limit=%d", kind, limit)

	if limit <= 0 {
		limit = 1000
	}
	// Newest first so a small limit keeps the most recent rows. Upsert
	// preserves the row id, so id order is insertion order.
	rows, err := r.db.QueryContext(ctx, `
SELECT id, kind, key, vector_json, created_at
FROM embeddings
WHERE kind = ?
ORDER BY id DESC
LIMIT ?
`, kind, limit)
	if err != nil {
		log.Error("failed to list embeddings: %v", err)
		return nil, err
	}
	defer rows.Close()

	var embeddings []models.Embedding
	for rows.Next() {
		var e models.Embedding
		var vectorJSON string
		if err := rows.Scan(&e.ID, &e.Kind, &e.Key, &vectorJSON, &e.CreatedAt); err != nil {
			log.Error("failed to scan embedding row: %v", err)
			return nil, err
		}
		if err := json.Unmarshal([]byte(vectorJSON), &e.Vector); err != nil {
			log.Error("failed to unmarshal vector: %v", err)
			return nil, err
		}
		embeddings = append(embeddings, e)
	}
	log.Debug("found %d embeddings", len(embeddings))
	return embeddings, rows.Err()
}
