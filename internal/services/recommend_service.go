package services

import (
	"context"
	"database/sql"
	"sort"
	"strconv"

	stderrors "errors"

	"github.com/codemaplab/codemap/internal/curriculum"
	"github.com/codemaplab/codemap/internal/errors"
	"github.com/codemaplab/codemap/internal/logger"
	"github.com/codemaplab/codemap/internal/models"
	"github.com/codemaplab/codemap/internal/recommend"
	"github.com/codemaplab/codemap/internal/repository"
)

// RecommendService ranks curriculum cards for review.
type RecommendService interface {
	// ByWrongCount ranks cards by how often they were answered wrong in the
	// recent attempt window.
	ByWrongCount(ctx context.Context, limit int) ([]models.CardRecommendation, error)

	// BySimilarity ranks cards by cosine similarity to the embedding of the
	// latest wrong attempt. Returns an empty list when there is no wrong
	// attempt or its embedding has not been computed yet.
	BySimilarity(ctx context.Context, limit int) ([]models.CardRecommendation, error)

	// RecentWrong returns the most recent wrong attempts, newest first.
	RecentWrong(ctx context.Context, limit int) ([]models.Attempt, error)
}

type recommendService struct {
	attemptRepo   repository.AttemptRepository
	embeddingRepo repository.EmbeddingRepository
	attemptWindow int
}

// NewRecommendService creates a new RecommendService. embeddingRepo may be
// nil, in which case BySimilarity always returns an empty list.
func NewRecommendService(
	attemptRepo repository.AttemptRepository,
	embeddingRepo repository.EmbeddingRepository,
	attemptWindow int,
) RecommendService {
	if attemptWindow <= 0 {
		attemptWindow = 300
	}
	return &recommendService{
		attemptRepo:   attemptRepo,
		embeddingRepo: embeddingRepo,
		attemptWindow: attemptWindow,
	}
}

func (s *recommendService) ByWrongCount(ctx context.Context, limit int) ([]models.CardRecommendation, error) {
	log := logger.FromContext(ctx)
	log.Debug("recommending by wrong count: limit=%d", limit)

	attempts, err := s.attemptRepo.List(ctx, models.AttemptFilter{Limit: s.attemptWindow})
	if err != nil {
		log.Error("failed to list attempts: %v", err)
		return nil, errors.NewInternalError(err)
	}

	ranked := recommend.RankByWrongCount(attempts, limit)
	recs := make([]models.CardRecommendation, 0, len(ranked))
	for _, r := range ranked {
		card, ok := curriculum.ByID(r.CardID)
		if !ok {
			log.Warn("ranked card %s not in catalog, skipping", r.CardID)
			continue
		}
		recs = append(recs, models.CardRecommendation{Card: card, WrongCount: r.Count})
	}
	return recs, nil
}

func (s *recommendService) BySimilarity(ctx context.Context, limit int) ([]models.CardRecommendation, error) {
	log := logger.FromContext(ctx)
	log.Debug("recommending by similarity: limit=%d", limit)

	if s.embeddingRepo == nil {
		return []models.CardRecommendation{}, nil
	}

	wrong, err := s.RecentWrong(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(wrong) == 0 {
		log.Debug("no wrong attempts, nothing to recommend")
		return []models.CardRecommendation{}, nil
	}
	queryKey := strconv.FormatInt(wrong[0].ID, 10)

	queryEmb, err := s.embeddingRepo.Get(ctx, models.EmbeddingKindAttempt, queryKey)
	if stderrors.Is(err, sql.ErrNoRows) {
		log.Debug("latest wrong attempt %s not embedded yet", queryKey)
		return []models.CardRecommendation{}, nil
	}
	if err != nil {
		log.Error("failed to load query embedding: %v", err)
		return nil, errors.NewInternalError(err)
	}

	cardEmbs, err := s.embeddingRepo.ListByKind(ctx, models.EmbeddingKindCard, 0)
	if err != nil {
		log.Error("failed to list card embeddings: %v", err)
		return nil, errors.NewInternalError(err)
	}
	attemptEmbs, err := s.embeddingRepo.ListByKind(ctx, models.EmbeddingKindAttempt, s.attemptWindow)
	if err != nil {
		log.Error("failed to list attempt embeddings: %v", err)
		return nil, errors.NewInternalError(err)
	}

	// Attempt embeddings count toward the card the attempt was for.
	attemptCards := make(map[string]string)
	recent, err := s.attemptRepo.List(ctx, models.AttemptFilter{Limit: s.attemptWindow})
	if err != nil {
		log.Error("failed to list recent attempts: %v", err)
		return nil, errors.NewInternalError(err)
	}
	for _, a := range recent {
		attemptCards[strconv.FormatInt(a.ID, 10)] = a.CardID
	}

	// Linear scan, keeping the best score seen for each card.
	best := make(map[string]float64)
	consider := func(cardID string, vector []float64) {
		score := recommend.CosineSimilarity(queryEmb.Vector, vector)
		if cur, ok := best[cardID]; !ok || score > cur {
			best[cardID] = score
		}
	}
	for _, e := range cardEmbs {
		consider(e.Key, e.Vector)
	}
	for _, e := range attemptEmbs {
		if e.Key == queryKey {
			continue
		}
		cardID, ok := attemptCards[e.Key]
		if !ok {
			continue
		}
		consider(cardID, e.Vector)
	}

	recs := make([]models.CardRecommendation, 0, len(best))
	for cardID, score := range best {
		card, ok := curriculum.ByID(cardID)
		if !ok {
			continue
		}
		recs = append(recs, models.CardRecommendation{Card: card, Score: score})
	}
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		return recs[i].Card.CardID < recs[j].Card.CardID
	})
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	log.Debug("ranked %d cards by similarity", len(recs))
	return recs, nil
}

func (s *recommendService) RecentWrong(ctx context.Context, limit int) ([]models.Attempt, error) {
	log := logger.FromContext(ctx)

	attempts, err := s.attemptRepo.List(ctx, models.AttemptFilter{OnlyWrong: true, Limit: limit})
	if err != nil {
		log.Error("failed to list wrong attempts: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return attempts, nil
}
