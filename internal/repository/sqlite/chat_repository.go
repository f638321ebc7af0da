package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/codemaplab/codemap/internal/logger"
	"github.com/codemaplab/codemap/internal/models"
	"github.com/codemaplab/codemap/internal/repository"
)

type chatRepository struct {
	db *sql.DB
}

// NewChatRepository creates a new ChatRepository implementation
func NewChatRepository(db *sql.DB) repository.ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) CreateSession(ctx context.Context, id string) error {
	log := logger.FromContext(ctx).WithPrefix("chat_repo")
	log.Debug("creating chat session: id=%s", id)

	_, err := r.db.ExecContext(ctx, `INSERT INTO chat_sessions (id) VALUES (?)`, id)
	if err != nil {
		log.Error("failed to create chat session: %v", err)
		return err
	}
	return nil
}

func (r *chatRepository) GetSession(ctx context.Context, id string) (*models.ChatSession, error) {
	log := logger.FromContext(ctx).WithPrefix("chat_repo")

	var s models.ChatSession
	err := r.db.QueryRowContext(ctx, `
SELECT id, created_at FROM chat_sessions WHERE id = ?
`, id).Scan(&s.ID, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("chat session not found: id=%s", id)
		return nil, err
	}
	if err != nil {
		log.Error("failed to get chat session: %v", err)
		return nil, err
	}
	return &s, nil
}

func (r *chatRepository) InsertMessage(ctx context.Context, m models.ChatMessage) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("chat_repo")
	log.Debug("inserting chat message: session=%s, role=%s", m.SessionID, m.Role)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO chat_messages (session_id, role, content) VALUES (?, ?, ?)
`, m.SessionID, m.Role, m.Content)
	if err != nil {
		log.Error("failed to insert chat message: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get chat message id: %v", err)
		return 0, err
	}
	return id, nil
}

func (r *chatRepository) MessagesForSession(ctx context.Context, sessionID string, limit int) ([]models.ChatMessage, error) {
	log := logger.FromContext(ctx).WithPrefix("chat_repo")
	log.Debug("listing chat messages: session=%s, limit=%d", sessionID, limit)

	if limit <= 0 {
		limit = 200
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, session_id, role, content, created_at
FROM chat_messages
WHERE session_id = ?
ORDER BY id
LIMIT ?
`, sessionID, limit)
	if err != nil {
		log.Error("failed to list chat messages: %v", err)
		return nil, err
	}
	defer rows.Close()

	var messages []models.ChatMessage
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			log.Error("failed to scan chat message row: %v", err)
			return nil, err
		}
		messages = append(messages, m)
	}
	log.Debug("found %d chat messages", len(messages))
	return messages, rows.Err()
}
