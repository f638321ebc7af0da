package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/Masterminds/squirrel"

	"github.com/codemaplab/codemap/internal/logger"
	"github.com/codemaplab/codemap/internal/models"
	"github.com/codemaplab/codemap/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

var attemptColumns = []string{
	"id", "step_id", "step_title", "card_id", "card_title", "card_base_level",
	"quiz_level", "card_text", "auto_summary", "auto_easy", "auto_examples",
	"question", "code", "choices_json", "answer_index", "explanation",
	"user_choice_index", "is_correct", "created_at",
}

type attemptRepository struct {
	db *sql.DB
}

// NewAttemptRepository creates a new AttemptRepository implementation
func NewAttemptRepository(db *sql.DB) repository.AttemptRepository {
	return &attemptRepository{db: db}
}

func (r *attemptRepository) Insert(ctx context.Context, a models.Attempt) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("attempt_repo")
	log.Debug("inserting attempt: card_id=%s, correct=%v", a.CardID, a.IsCorrect)

	choicesJSON, err := json.Marshal(a.Choices)
	if err != nil {
		log.Error("failed to marshal choices: %v", err)
		return 0, err
	}

	res, err := r.db.ExecContext(ctx, `
INSERT INTO attempts (
    step_id, step_title, card_id, card_title, card_base_level, quiz_level, card_text,
    auto_summary, auto_easy, auto_examples,
    question, code, choices_json, answer_index, explanation,
    user_choice_index, is_correct
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, a.StepID, a.StepTitle, a.CardID, a.CardTitle, a.CardBaseLevel, a.QuizLevel, a.CardText,
		a.AutoSummary, a.AutoEasy, a.AutoExamples,
		a.Question, a.Code, string(choicesJSON), a.AnswerIndex, a.Explanation,
		a.UserChoiceIndex, boolToInt(a.IsCorrect))
	if err != nil {
		log.Error("failed to insert attempt: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get attempt id: %v", err)
		return 0, err
	}
	log.Debug("attempt inserted: id=%d", id)
	return id, nil
}

func (r *attemptRepository) Get(ctx context.Context, id int64) (*models.Attempt, error) {
	log := logger.FromContext(ctx).WithPrefix("attempt_repo")
	log.Debug("getting attempt: id=%d", id)

	row := r.db.QueryRowContext(ctx, `
SELECT id, step_id, step_title, card_id, card_title, card_base_level,
       quiz_level, card_text, auto_summary, auto_easy, auto_examples,
       question, code, choices_json, answer_index, explanation,
       user_choice_index, is_correct, created_at
FROM attempts
WHERE id = ?
`, id)

	a, err := scanAttempt(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("attempt not found: id=%d", id)
		return nil, err
	}
	if err != nil {
		log.Error("failed to get attempt: %v", err)
		return nil, err
	}
	return a, nil
}

func (r *attemptRepository) List(ctx context.Context, filter models.AttemptFilter) ([]models.Attempt, error) {
	log := logger.FromContext(ctx).WithPrefix("attempt_repo")
	log.Debug("listing attempts: card_id=%s, only_wrong=%v, limit=%d",
		filter.CardID, filter.OnlyWrong, filter.Limit)

	query := sqlBuilder.Select(attemptColumns...).From("attempts")

	// Dynamic WHERE clauses
	if filter.CardID != "" {
		query = query.Where(squirrel.Eq{"card_id": filter.CardID})
	}
	if filter.OnlyWrong {
		query = query.Where(squirrel.Eq{"is_correct": 0})
	}

	// Newest first: attempt rows are append-only history.
	query = query.OrderBy("id DESC")

	limit := filter.Limit
	if limit <= 0 {
		limit = 200
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query = query.Limit(uint64(limit)).Offset(uint64(offset))

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list attempts: %v", err)
		return nil, err
	}
	defer rows.Close()

	var attempts []models.Attempt
	for rows.Next() {
		a, err := scanAttempt(rows.Scan)
		if err != nil {
			log.Error("failed to scan attempt row: %v", err)
			return nil, err
		}
		attempts = append(attempts, *a)
	}
	log.Debug("found %d attempts", len(attempts))
	return attempts, rows.Err()
}

func (r *attemptRepository) Count(ctx context.Context, filter models.AttemptFilter) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("attempt_repo")

	query := sqlBuilder.Select("COUNT(*)").From("attempts")
	if filter.CardID != "" {
		query = query.Where(squirrel.Eq{"card_id": filter.CardID})
	}
	if filter.OnlyWrong {
		query = query.Where(squirrel.Eq{"is_correct": 0})
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build count query: %v", err)
		return 0, err
	}

	var count int
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&count); err != nil {
		log.Error("failed to count attempts: %v", err)
		return 0, err
	}
	return count, nil
}

func scanAttempt(scan func(dest ...any) error) (*models.Attempt, error) {
	var a models.Attempt
	var choicesJSON string
	var isCorrect int
	err := scan(&a.ID, &a.StepID, &a.StepTitle, &a.CardID, &a.CardTitle, &a.CardBaseLevel,
		&a.QuizLevel, &a.CardText, &a.AutoSummary, &a.AutoEasy, &a.AutoExamples,
		&a.Question, &a.Code, &choicesJSON, &a.AnswerIndex, &a.Explanation,
		&a.UserChoiceIndex, &isCorrect, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(choicesJSON), &a.Choices); err != nil {
		return nil, err
	}
	a.IsCorrect = isCorrect != 0
	return &a, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
