package worker

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/codemaplab/codemap/internal/curriculum"
	"github.com/codemaplab/codemap/internal/llm"
	"github.com/codemaplab/codemap/internal/logger"
	"github.com/codemaplab/codemap/internal/models"
	"github.com/codemaplab/codemap/internal/repository"
)

// EmbedAttemptJob computes and stores the embedding for a single quiz attempt.
// The attempt text combines the card title, the question, and the outcome so
// that similar mistakes cluster together.
type EmbedAttemptJob struct {
	AttemptRepo   repository.AttemptRepository
	EmbeddingRepo repository.EmbeddingRepository
	Client        llm.Client
	AttemptID     int64
}

func (j *EmbedAttemptJob) Name() string { return "embed_attempt" }

func (j *EmbedAttemptJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("attempt_id", j.AttemptID)

	attempt, err := j.AttemptRepo.Get(ctx, j.AttemptID)
	if err != nil {
		log.Error("failed to load attempt for embedding: %v", err)
		return err
	}

	vector, err := j.Client.Embed(ctx, AttemptText(*attempt))
	if err != nil {
		log.Error("failed to embed attempt: %v", err)
		return err
	}

	return j.EmbeddingRepo.Upsert(ctx, models.Embedding{
		Kind:   models.EmbeddingKindAttempt,
		Key:    strconv.FormatInt(j.AttemptID, 10),
		Vector: vector,
	})
}

// EmbedCardsJob backfills embeddings for every curriculum card that does not
// have one yet. Safe to run at every startup.
type EmbedCardsJob struct {
	EmbeddingRepo repository.EmbeddingRepository
	Client        llm.Client
}

func (j *EmbedCardsJob) Name() string { return "embed_cards" }

func (j *EmbedCardsJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)

	existing, err := j.EmbeddingRepo.ListByKind(ctx, models.EmbeddingKindCard, 0)
	if err != nil {
		log.Error("failed to list card embeddings: %v", err)
		return err
	}
	have := make(map[string]bool, len(existing))
	for _, e := range existing {
		have[e.Key] = true
	}

	var embedded int
	for _, card := range curriculum.Cards() {
		if have[card.CardID] {
			continue
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		vector, err := j.Client.Embed(ctx, CardText(card))
		if err != nil {
			log.Error("failed to embed card %s: %v", card.CardID, err)
			return err
		}
		if err := j.EmbeddingRepo.Upsert(ctx, models.Embedding{
			Kind:   models.EmbeddingKindCard,
			Key:    card.CardID,
			Vector: vector,
		}); err != nil {
			return err
		}
		embedded++
	}

	log.Info("embedded %d new cards (%d already present)", embedded, len(have))
	return nil
}

// CardText builds the text sent to the embedding model for a card.
func CardText(card models.Card) string {
	return fmt.Sprintf("%s\n%s\n%s", card.StepTitle, card.Title, card.Text)
}

// AttemptText builds the text sent to the embedding model for an attempt.
func AttemptText(a models.Attempt) string {
	outcome := "정답"
	if !a.IsCorrect {
		outcome = "오답"
	}
	parts := []string{a.CardTitle, a.Question, outcome}
	return strings.Join(parts, "\n")
}
