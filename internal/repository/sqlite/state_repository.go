package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/codemaplab/codemap/internal/curriculum"
	"github.com/codemaplab/codemap/internal/logger"
	"github.com/codemaplab/codemap/internal/models"
	"github.com/codemaplab/codemap/internal/quiz"
	"github.com/codemaplab/codemap/internal/repository"
)

type stateRepository struct {
	db *sql.DB
}

// NewStateRepository creates a new StateRepository implementation
func NewStateRepository(db *sql.DB) repository.StateRepository {
	return &stateRepository{db: db}
}

func (r *stateRepository) Get(ctx context.Context) (*models.UserState, error) {
	log := logger.FromContext(ctx).WithPrefix("state_repo")
	log.Debug("getting user state")

	var s models.UserState
	err := r.db.QueryRowContext(ctx, `
SELECT char_level, card_index, updated_at
FROM user_state
WHERE id = 1
`).Scan(&s.CharLevel, &s.CardIndex, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		// Migrations seed the singleton, but fall back to a fresh state
		// rather than failing the request.
		log.Warn("user state row missing, returning defaults")
		return &models.UserState{CharLevel: quiz.LevelMin, CardIndex: 0}, nil
	}
	if err != nil {
		log.Error("failed to get user state: %v", err)
		return nil, err
	}

	s.CharLevel = quiz.ClampLevel(s.CharLevel)
	s.CardIndex = curriculum.ClampIndex(s.CardIndex)
	log.Debug("user state: level=%d, card_index=%d", s.CharLevel, s.CardIndex)
	return &s, nil
}

func (r *stateRepository) Set(ctx context.Context, charLevel, cardIndex int) error {
	log := logger.FromContext(ctx).WithPrefix("state_repo")

	charLevel = quiz.ClampLevel(charLevel)
	cardIndex = curriculum.ClampIndex(cardIndex)
	log.Debug("setting user state: level=%d, card_index=%d", charLevel, cardIndex)

	_, err := r.db.ExecContext(ctx, `
UPDATE user_state
SET char_level = ?, card_index = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = 1
`, charLevel, cardIndex)
	if err != nil {
		log.Error("failed to set user state: %v", err)
	}
	return err
}
