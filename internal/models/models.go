package models

import "time"

// Card is one unit of curriculum content. Cards are defined at startup and
// immutable for the process lifetime.
type Card struct {
	StepID    string   `json:"step_id"`
	StepTitle string   `json:"step_title"`
	CardID    string   `json:"card_id"`
	Title     string   `json:"title"`
	BaseLevel int      `json:"base_level"`
	Text      string   `json:"text"`
	Allowed   []string `json:"allowed"`
	Banned    []string `json:"banned"`
}

// UserState is the singleton progress row. Level and card index are always
// clamped to their valid ranges before storage.
type UserState struct {
	CharLevel int       `json:"char_level"`
	CardIndex int       `json:"card_index"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Enrichment is model-generated supplementary text for a card, overwritten
// wholesale on regeneration or reset.
type Enrichment struct {
	CardID    string    `json:"card_id"`
	Summary   string    `json:"summary"`
	Easy      string    `json:"easy"`
	Examples  string    `json:"examples"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Question is a generated multiple-choice quiz question.
type Question struct {
	Question    string   `json:"question"`
	Code        string   `json:"code"`
	Choices     []string `json:"choices"`
	AnswerIndex int      `json:"answer_index"`
	Explanation string   `json:"explanation"`
}

// Attempt is one logged answer to a generated question. Rows are append-only
// history and never mutated after insert.
type Attempt struct {
	ID              int64     `json:"id"`
	StepID          string    `json:"step_id"`
	StepTitle       string    `json:"step_title"`
	CardID          string    `json:"card_id"`
	CardTitle       string    `json:"card_title"`
	CardBaseLevel   int       `json:"card_base_level"`
	QuizLevel       int       `json:"quiz_level"`
	CardText        string    `json:"card_text"`
	AutoSummary     string    `json:"auto_summary"`
	AutoEasy        string    `json:"auto_easy"`
	AutoExamples    string    `json:"auto_examples"`
	Question        string    `json:"question"`
	Code            string    `json:"code"`
	Choices         []string  `json:"choices"`
	AnswerIndex     int       `json:"answer_index"`
	Explanation     string    `json:"explanation"`
	UserChoiceIndex int       `json:"user_choice_index"`
	IsCorrect       bool      `json:"is_correct"`
	CreatedAt       time.Time `json:"created_at"`
}

// AttemptFilter narrows attempt listings.
type AttemptFilter struct {
	CardID    string
	OnlyWrong bool
	Limit     int
	Offset    int
}

// Embedding kinds.
const (
	EmbeddingKindCard    = "card"
	EmbeddingKindAttempt = "attempt"
)

// Embedding is a stored vector keyed by card id or attempt id.
type Embedding struct {
	ID        int64     `json:"id"`
	Kind      string    `json:"kind"`
	Key       string    `json:"key"`
	Vector    []float64 `json:"vector"`
	CreatedAt time.Time `json:"created_at"`
}

// Chat message roles.
const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

type ChatSession struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

type ChatMessage struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Movie is one record from the movie-catalog API.
type Movie struct {
	Title       string  `json:"title"`
	PosterPath  string  `json:"poster_path"`
	VoteAverage float64 `json:"vote_average"`
	Overview    string  `json:"overview"`
	ReleaseDate string  `json:"release_date"`
}

// CharacterCard summarizes the user's level for display.
type CharacterCard struct {
	Level  int    `json:"level"`
	Bucket int    `json:"bucket"`
	Emoji  string `json:"emoji"`
	Title  string `json:"title"`
}

// CardRecommendation pairs a card with its recommendation score.
type CardRecommendation struct {
	Card       Card    `json:"card"`
	WrongCount int     `json:"wrong_count,omitempty"`
	Score      float64 `json:"score,omitempty"`
}
