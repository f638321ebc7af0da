package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/codemaplab/codemap/internal/logger"
	"github.com/codemaplab/codemap/internal/models"
	"github.com/codemaplab/codemap/internal/repository"
)

type enrichmentRepository struct {
	db *sql.DB
}

// NewEnrichmentRepository creates a new EnrichmentRepository implementation
func NewEnrichmentRepository(db *sql.DB) repository.EnrichmentRepository {
	return &enrichmentRepository{db: db}
}

func (r *enrichmentRepository) Get(ctx context.Context, cardID string) (*models.Enrichment, error) {
	log := logger.FromContext(ctx).WithPrefix("enrichment_repo")
	log.Debug("getting enrichment: card_id=%s", cardID)

	var e models.Enrichment
	err := r.db.QueryRowContext(ctx, `
SELECT card_id, summary, easy, examples, updated_at
FROM card_enrichments
WHERE card_id = ?
`, cardID).Scan(&e.CardID, &e.Summary, &e.Easy, &e.Examples, &e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		// Missing enrichment is not an error: the card simply has no
		// generated content yet.
		return &models.Enrichment{CardID: cardID}, nil
	}
	if err != nil {
		log.Error("failed to get enrichment: %v", err)
		return nil, err
	}
	return &e, nil
}

func (r *enrichmentRepository) Upsert(ctx context.Context, e models.Enrichment) error {
	log := logger.FromContext(ctx).WithPrefix("enrichment_repo")
	log.Debug("upserting enrichment: card_id=%s", e.CardID)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO card_enrichments (card_id, summary, easy, examples, updated_at)
VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(card_id) DO UPDATE SET
    summary = excluded.summary,
    easy = excluded.easy,
    examples = excluded.examples,
    updated_at = CURRENT_TIMESTAMP
`, e.CardID, e.Summary, e.Easy, e.Examples)
	if err != nil {
		log.Error("failed to upsert enrichment: %v", err)
	}
	return err
}
