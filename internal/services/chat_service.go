package services

import (
	"context"
	"database/sql"
	"strings"

	stderrors "errors"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/codemaplab/codemap/internal/errors"
	"github.com/codemaplab/codemap/internal/llm"
	"github.com/codemaplab/codemap/internal/logger"
	"github.com/codemaplab/codemap/internal/models"
	"github.com/codemaplab/codemap/internal/repository"
)

const tutorSystemPrompt = "You are a friendly English conversation tutor for Korean learners. " +
	"Reply in simple English, keep answers short, and gently correct the learner's mistakes. " +
	"When a correction is needed, show the corrected sentence first, then continue the conversation."

// historyLimit caps how much conversation is replayed to the model per turn.
const historyLimit = 40

// ChatService handles tutor sessions: session lifecycle, message persistence,
// and streaming replies from the model.
type ChatService interface {
	StartSession(ctx context.Context) (*models.ChatSession, error)
	History(ctx context.Context, sessionID string) ([]models.ChatMessage, error)

	// SendMessage persists the user message, streams the assistant reply via
	// onDelta, and persists the sanitized full reply. The returned message is
	// the stored assistant message.
	SendMessage(ctx context.Context, sessionID, text string, onDelta func(delta string) error) (*models.ChatMessage, error)
}

type chatService struct {
	chatRepo  repository.ChatRepository
	client    llm.Client
	sanitizer *bluemonday.Policy
}

// NewChatService creates a new ChatService.
func NewChatService(chatRepo repository.ChatRepository, client llm.Client) ChatService {
	return &chatService{
		chatRepo:  chatRepo,
		client:    client,
		sanitizer: bluemonday.UGCPolicy(),
	}
}

func (s *chatService) StartSession(ctx context.Context) (*models.ChatSession, error) {
	log := logger.FromContext(ctx)

	id := uuid.NewString()
	if err := s.chatRepo.CreateSession(ctx, id); err != nil {
		log.Error("failed to create session: %v", err)
		return nil, errors.NewInternalError(err)
	}
	log.Info("chat session started: %s", id)

	session, err := s.chatRepo.GetSession(ctx, id)
	if err != nil {
		log.Error("failed to load created session: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return session, nil
}

func (s *chatService) History(ctx context.Context, sessionID string) ([]models.ChatMessage, error) {
	log := logger.FromContext(ctx)

	if _, err := s.getSession(ctx, sessionID); err != nil {
		return nil, err
	}
	messages, err := s.chatRepo.MessagesForSession(ctx, sessionID, 0)
	if err != nil {
		log.Error("failed to load history: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return messages, nil
}

func (s *chatService) SendMessage(ctx context.Context, sessionID, text string, onDelta func(delta string) error) (*models.ChatMessage, error) {
	log := logger.FromContext(ctx)

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.NewValidationError("message", "must not be empty")
	}
	if s.client == nil {
		return nil, errors.NewUpstreamError("model", stderrors.New("no model configured"))
	}

	if _, err := s.getSession(ctx, sessionID); err != nil {
		return nil, err
	}

	if _, err := s.chatRepo.InsertMessage(ctx, models.ChatMessage{
		SessionID: sessionID,
		Role:      models.ChatRoleUser,
		Content:   text,
	}); err != nil {
		log.Error("failed to persist user message: %v", err)
		return nil, errors.NewInternalError(err)
	}

	stored, err := s.chatRepo.MessagesForSession(ctx, sessionID, 0)
	if err != nil {
		log.Error("failed to load history for model: %v", err)
		return nil, errors.NewInternalError(err)
	}
	history := make([]llm.Message, 0, len(stored))
	start := 0
	if len(stored) > historyLimit {
		start = len(stored) - historyLimit
	}
	for _, m := range stored[start:] {
		role := llm.RoleUser
		if m.Role == models.ChatRoleAssistant {
			role = llm.RoleAssistant
		}
		history = append(history, llm.Message{Role: role, Content: m.Content})
	}

	reply, err := s.client.StreamChat(ctx, tutorSystemPrompt, history, onDelta)
	if err != nil {
		// The user message stays persisted so the session remains usable.
		log.Error("streaming failed: %v", err)
		return nil, errors.NewUpstreamError("model", err)
	}

	clean := s.sanitizer.Sanitize(reply)
	msg := models.ChatMessage{
		SessionID: sessionID,
		Role:      models.ChatRoleAssistant,
		Content:   clean,
	}
	id, err := s.chatRepo.InsertMessage(ctx, msg)
	if err != nil {
		log.Error("failed to persist assistant message: %v", err)
		return nil, errors.NewInternalError(err)
	}
	msg.ID = id
	log.Debug("assistant reply stored: session=%s, chars=%d", sessionID, len(clean))
	return &msg, nil
}

func (s *chatService) getSession(ctx context.Context, sessionID string) (*models.ChatSession, error) {
	session, err := s.chatRepo.GetSession(ctx, sessionID)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NewNotFoundError("session", sessionID)
	}
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return session, nil
}
