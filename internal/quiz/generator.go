package quiz

import (
	"context"
	"fmt"
	"strings"

	"github.com/codemaplab/codemap/internal/llm"
	"github.com/codemaplab/codemap/internal/logger"
	"github.com/codemaplab/codemap/internal/models"
)

const maxChoices = 5

// questionSchema constrains the model output to the question shape. Choice
// count and answer index bounds are checked separately so a near-miss can
// still fall back instead of erroring.
var questionSchema = &llm.Schema{
	Name: "quiz-question",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question":     map[string]any{"type": "string"},
			"code":         map[string]any{"type": "string"},
			"choices":      map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"answer_index": map[string]any{"type": "integer"},
			"explanation":  map[string]any{"type": "string"},
		},
		"required": []any{"question", "choices", "answer_index", "explanation"},
	},
}

const generateSystemPrompt = "너는 친절한 입문자 튜터다. 카드 범위를 넘지 말고 JSON으로만 답해."

// Generator produces questions for cards, delegating to a model when one is
// configured and falling back to canned questions otherwise. Best effort:
// a single failed call degrades to the fallback immediately, no retries.
type Generator struct {
	client llm.Client
}

// NewGenerator creates a Generator. client may be nil, in which case only
// fallback questions are produced.
func NewGenerator(client llm.Client) *Generator {
	return &Generator{client: client}
}

// Generate builds a question for the card at the given quiz level. The
// result always has at least two choices, an answer index within bounds,
// and a non-empty explanation.
func (g *Generator) Generate(ctx context.Context, card models.Card, level int) models.Question {
	log := logger.FromContext(ctx).WithPrefix("quiz")

	if g.client == nil {
		log.Debug("no model configured, using fallback question for %s", card.CardID)
		return Fallback(card)
	}

	user := strings.Join([]string{
		fmt.Sprintf("[퀴즈레벨] %d/100", level),
		fmt.Sprintf("[카드제목] %s", card.Title),
		"[카드내용]",
		card.Text,
		fmt.Sprintf("[허용] %s", strings.Join(card.Allowed, ", ")),
		fmt.Sprintf("[금지] %s", strings.Join(card.Banned, ", ")),
		`{"question":"", "code":"", "choices":["","",""], "answer_index":0, "explanation":""}`,
	}, "\n")

	var q models.Question
	if err := g.client.GenerateJSON(ctx, generateSystemPrompt, user, questionSchema, &q); err != nil {
		log.Warn("question generation failed for %s, using fallback: %v", card.CardID, err)
		return Fallback(card)
	}

	if len(q.Choices) < 2 {
		log.Warn("generated question for %s has %d choices, using fallback", card.CardID, len(q.Choices))
		return Fallback(card)
	}
	if len(q.Choices) > maxChoices {
		q.Choices = q.Choices[:maxChoices]
	}
	if q.AnswerIndex < 0 {
		q.AnswerIndex = 0
	}
	if q.AnswerIndex >= len(q.Choices) {
		q.AnswerIndex = len(q.Choices) - 1
	}

	q.Question = strings.TrimSpace(q.Question)
	q.Explanation = strings.TrimSpace(q.Explanation)
	q.Code = strings.TrimSpace(q.Code)
	if q.Question == "" || q.Explanation == "" {
		log.Warn("generated question for %s missing question or explanation, using fallback", card.CardID)
		return Fallback(card)
	}

	log.Debug("generated question for %s at level %d", card.CardID, level)
	return q
}
