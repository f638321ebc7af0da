package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/codemaplab/codemap/internal/curriculum"
	"github.com/codemaplab/codemap/internal/errors"
	"github.com/codemaplab/codemap/internal/llm"
	"github.com/codemaplab/codemap/internal/logger"
	"github.com/codemaplab/codemap/internal/models"
	"github.com/codemaplab/codemap/internal/quiz"
	"github.com/codemaplab/codemap/internal/repository"
)

const enrichSystemPrompt = "너는 코딩 입문자용 교재 편집자다. 출력은 JSON만."

var enrichmentSchema = &llm.Schema{
	Name: "card-enrichment",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary":  map[string]any{"type": "string"},
			"easy":     map[string]any{"type": "string"},
			"examples": map[string]any{"type": "string"},
		},
		"required": []any{"summary", "easy", "examples"},
	},
}

// StateView is the study state returned to the client: the singleton progress
// row joined with the current card, its enrichment, and the derived values.
type StateView struct {
	CharLevel  int                  `json:"char_level"`
	CardIndex  int                  `json:"card_index"`
	CardCount  int                  `json:"card_count"`
	Card       models.Card          `json:"card"`
	Enrichment models.Enrichment    `json:"enrichment"`
	QuizLevel  int                  `json:"quiz_level"`
	Character  models.CharacterCard `json:"character"`
}

// SubmitResult is the outcome of grading one answer.
type SubmitResult struct {
	AttemptID   int64  `json:"attempt_id"`
	Correct     bool   `json:"correct"`
	CharLevel   int    `json:"char_level"`
	Explanation string `json:"explanation"`
}

// StudyService handles the flashcard study loop: state, quiz generation,
// answer grading, and card enrichment.
type StudyService interface {
	GetState(ctx context.Context) (*StateView, error)
	GenerateQuestion(ctx context.Context) (*models.Question, error)
	SubmitAnswer(ctx context.Context, q models.Question, userChoiceIndex int) (*SubmitResult, error)
	AdvanceCard(ctx context.Context) (*StateView, error)
	GenerateEnrichment(ctx context.Context) (*models.Enrichment, error)
	ResetEnrichment(ctx context.Context) error
	ListAttempts(ctx context.Context, filter models.AttemptFilter) ([]models.Attempt, int, error)
}

type studyService struct {
	stateRepo   repository.StateRepository
	enrichRepo  repository.EnrichmentRepository
	attemptRepo repository.AttemptRepository
	generator   *quiz.Generator
	client      llm.Client

	// onAttempt, when set, is called with the id of every inserted attempt.
	// Used to enqueue background embedding work.
	onAttempt func(attemptID int64)
}

// NewStudyService creates a new StudyService. client may be nil, in which
// case quiz generation falls back to canned questions and enrichment
// generation yields empty text.
func NewStudyService(
	stateRepo repository.StateRepository,
	enrichRepo repository.EnrichmentRepository,
	attemptRepo repository.AttemptRepository,
	client llm.Client,
	onAttempt func(attemptID int64),
) StudyService {
	return &studyService{
		stateRepo:   stateRepo,
		enrichRepo:  enrichRepo,
		attemptRepo: attemptRepo,
		generator:   quiz.NewGenerator(client),
		client:      client,
		onAttempt:   onAttempt,
	}
}

func (s *studyService) GetState(ctx context.Context) (*StateView, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting study state")

	state, err := s.stateRepo.Get(ctx)
	if err != nil {
		log.Error("failed to get user state: %v", err)
		return nil, errors.NewInternalError(err)
	}

	card := curriculum.ByIndex(state.CardIndex)
	enrich, err := s.enrichRepo.Get(ctx, card.CardID)
	if err != nil {
		log.Error("failed to get enrichment: %v", err)
		return nil, errors.NewInternalError(err)
	}

	return &StateView{
		CharLevel:  state.CharLevel,
		CardIndex:  state.CardIndex,
		CardCount:  curriculum.Count(),
		Card:       card,
		Enrichment: *enrich,
		QuizLevel:  quiz.Level(card.BaseLevel, state.CharLevel),
		Character:  CharacterCard(state.CharLevel),
	}, nil
}

func (s *studyService) GenerateQuestion(ctx context.Context) (*models.Question, error) {
	log := logger.FromContext(ctx)

	state, err := s.stateRepo.Get(ctx)
	if err != nil {
		log.Error("failed to get user state: %v", err)
		return nil, errors.NewInternalError(err)
	}

	card := curriculum.ByIndex(state.CardIndex)
	level := quiz.Level(card.BaseLevel, state.CharLevel)
	log.Debug("generating question: card=%s, quiz_level=%d", card.CardID, level)

	q := s.generator.Generate(ctx, card, level)
	return &q, nil
}

func (s *studyService) SubmitAnswer(ctx context.Context, q models.Question, userChoiceIndex int) (*SubmitResult, error) {
	log := logger.FromContext(ctx)

	if len(q.Choices) < 2 {
		return nil, errors.NewValidationError("choices", "must have at least 2 entries")
	}
	if userChoiceIndex < 0 || userChoiceIndex >= len(q.Choices) {
		return nil, errors.NewValidationError("user_choice_index", "out of range")
	}
	if q.AnswerIndex < 0 || q.AnswerIndex >= len(q.Choices) {
		return nil, errors.NewValidationError("answer_index", "out of range")
	}

	state, err := s.stateRepo.Get(ctx)
	if err != nil {
		log.Error("failed to get user state: %v", err)
		return nil, errors.NewInternalError(err)
	}

	card := curriculum.ByIndex(state.CardIndex)
	level := quiz.Level(card.BaseLevel, state.CharLevel)
	enrich, err := s.enrichRepo.Get(ctx, card.CardID)
	if err != nil {
		log.Error("failed to get enrichment: %v", err)
		return nil, errors.NewInternalError(err)
	}

	correct := userChoiceIndex == q.AnswerIndex
	attempt := models.Attempt{
		StepID:          card.StepID,
		StepTitle:       card.StepTitle,
		CardID:          card.CardID,
		CardTitle:       card.Title,
		CardBaseLevel:   card.BaseLevel,
		QuizLevel:       level,
		CardText:        card.Text,
		AutoSummary:     enrich.Summary,
		AutoEasy:        enrich.Easy,
		AutoExamples:    enrich.Examples,
		Question:        q.Question,
		Code:            q.Code,
		Choices:         q.Choices,
		AnswerIndex:     q.AnswerIndex,
		Explanation:     q.Explanation,
		UserChoiceIndex: userChoiceIndex,
		IsCorrect:       correct,
	}

	attemptID, err := s.attemptRepo.Insert(ctx, attempt)
	if err != nil {
		log.Error("failed to insert attempt: %v", err)
		return nil, errors.NewInternalError(err)
	}

	charLevel := state.CharLevel
	if correct {
		charLevel = quiz.ClampLevel(charLevel + 1)
	}
	if err := s.stateRepo.Set(ctx, charLevel, state.CardIndex); err != nil {
		log.Error("failed to update user state: %v", err)
		return nil, errors.NewInternalError(err)
	}

	if s.onAttempt != nil {
		s.onAttempt(attemptID)
	}

	log.Info("answer submitted: attempt_id=%d, correct=%v, char_level=%d", attemptID, correct, charLevel)
	return &SubmitResult{
		AttemptID:   attemptID,
		Correct:     correct,
		CharLevel:   charLevel,
		Explanation: q.Explanation,
	}, nil
}

func (s *studyService) AdvanceCard(ctx context.Context) (*StateView, error) {
	log := logger.FromContext(ctx)

	state, err := s.stateRepo.Get(ctx)
	if err != nil {
		log.Error("failed to get user state: %v", err)
		return nil, errors.NewInternalError(err)
	}

	next := curriculum.ClampIndex(state.CardIndex + 1)
	if err := s.stateRepo.Set(ctx, state.CharLevel, next); err != nil {
		log.Error("failed to advance card: %v", err)
		return nil, errors.NewInternalError(err)
	}
	log.Debug("advanced card: %d -> %d", state.CardIndex, next)

	return s.GetState(ctx)
}

func (s *studyService) GenerateEnrichment(ctx context.Context) (*models.Enrichment, error) {
	log := logger.FromContext(ctx)

	state, err := s.stateRepo.Get(ctx)
	if err != nil {
		log.Error("failed to get user state: %v", err)
		return nil, errors.NewInternalError(err)
	}
	card := curriculum.ByIndex(state.CardIndex)

	enrich := models.Enrichment{CardID: card.CardID}
	if s.client != nil {
		var payload struct {
			Summary  string `json:"summary"`
			Easy     string `json:"easy"`
			Examples string `json:"examples"`
		}
		user := strings.Join([]string{
			fmt.Sprintf("[카드 제목] %s", card.Title),
			"[카드 내용]",
			card.Text,
			`{"summary":"", "easy":"", "examples":""}`,
		}, "\n")
		if err := s.client.GenerateJSON(ctx, enrichSystemPrompt, user, enrichmentSchema, &payload); err != nil {
			// Best effort: a failed call stores empty enrichment.
			log.Warn("enrichment generation failed for %s: %v", card.CardID, err)
		} else {
			enrich.Summary = strings.TrimSpace(payload.Summary)
			enrich.Easy = strings.TrimSpace(payload.Easy)
			enrich.Examples = strings.TrimSpace(payload.Examples)
		}
	} else {
		log.Debug("no model configured, storing empty enrichment for %s", card.CardID)
	}

	if err := s.enrichRepo.Upsert(ctx, enrich); err != nil {
		log.Error("failed to upsert enrichment: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return &enrich, nil
}

func (s *studyService) ResetEnrichment(ctx context.Context) error {
	log := logger.FromContext(ctx)

	state, err := s.stateRepo.Get(ctx)
	if err != nil {
		log.Error("failed to get user state: %v", err)
		return errors.NewInternalError(err)
	}
	card := curriculum.ByIndex(state.CardIndex)

	if err := s.enrichRepo.Upsert(ctx, models.Enrichment{CardID: card.CardID}); err != nil {
		log.Error("failed to reset enrichment: %v", err)
		return errors.NewInternalError(err)
	}
	log.Debug("enrichment reset for %s", card.CardID)
	return nil
}

func (s *studyService) ListAttempts(ctx context.Context, filter models.AttemptFilter) ([]models.Attempt, int, error) {
	log := logger.FromContext(ctx)

	attempts, err := s.attemptRepo.List(ctx, filter)
	if err != nil {
		log.Error("failed to list attempts: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}
	total, err := s.attemptRepo.Count(ctx, filter)
	if err != nil {
		log.Error("failed to count attempts: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}
	return attempts, total, nil
}

// CharacterCard derives the display persona for a level. Levels group into
// ten buckets of ten.
func CharacterCard(level int) models.CharacterCard {
	level = quiz.ClampLevel(level)
	bucket := (level-1)/10 + 1
	if bucket < 1 {
		bucket = 1
	}
	if bucket > 10 {
		bucket = 10
	}

	var emoji, title string
	switch {
	case bucket <= 3:
		emoji, title = "🐣", "새싹 코더"
	case bucket <= 7:
		emoji, title = "🧑‍💻", "성장 코더"
	default:
		emoji, title = "🧙‍♂️", "마스터 코더"
	}

	return models.CharacterCard{
		Level:  level,
		Bucket: bucket,
		Emoji:  emoji,
		Title:  title,
	}
}
