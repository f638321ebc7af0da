package services_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	apperrors "github.com/codemaplab/codemap/internal/errors"
	"github.com/codemaplab/codemap/internal/llm"
	"github.com/codemaplab/codemap/internal/models"
	"github.com/codemaplab/codemap/internal/repository"
	"github.com/codemaplab/codemap/internal/repository/sqlite"
	"github.com/codemaplab/codemap/internal/services"
	"github.com/codemaplab/codemap/internal/testutil"
)

type ChatServiceSuite struct {
	suite.Suite
	db       *sql.DB
	chatRepo repository.ChatRepository
}

func (s *ChatServiceSuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.chatRepo = sqlite.NewChatRepository(s.db)
}

func (s *ChatServiceSuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *ChatServiceSuite) TestStartSession() {
	svc := services.NewChatService(s.chatRepo, nil)

	session, err := svc.StartSession(context.Background())
	s.Require().NoError(err)
	s.Assert().NotEmpty(session.ID)

	history, err := svc.History(context.Background(), session.ID)
	s.Require().NoError(err)
	s.Assert().Empty(history)
}

func (s *ChatServiceSuite) TestSendMessageStreamsAndPersists() {
	mock := llm.NewMockClient(llm.MockResponse{
		Stream: []string{"Nice to ", "meet you!"},
	})
	svc := services.NewChatService(s.chatRepo, mock)
	ctx := context.Background()

	session, err := svc.StartSession(ctx)
	s.Require().NoError(err)

	var deltas []string
	msg, err := svc.SendMessage(ctx, session.ID, "Hello!", func(delta string) error {
		deltas = append(deltas, delta)
		return nil
	})
	s.Require().NoError(err)
	s.Assert().Equal([]string{"Nice to ", "meet you!"}, deltas)
	s.Assert().Equal("Nice to meet you!", msg.Content)
	s.Assert().Equal(models.ChatRoleAssistant, msg.Role)

	history, err := svc.History(ctx, session.ID)
	s.Require().NoError(err)
	s.Require().Len(history, 2)
	s.Assert().Equal(models.ChatRoleUser, history[0].Role)
	s.Assert().Equal("Hello!", history[0].Content)
	s.Assert().Equal(models.ChatRoleAssistant, history[1].Role)
}

func (s *ChatServiceSuite) TestSendMessageSanitizesReply() {
	mock := llm.NewMockClient(llm.MockResponse{
		Stream: []string{`Well done!<script>alert("x")</script>`},
	})
	svc := services.NewChatService(s.chatRepo, mock)
	ctx := context.Background()

	session, err := svc.StartSession(ctx)
	s.Require().NoError(err)

	msg, err := svc.SendMessage(ctx, session.ID, "Did I do well?", func(string) error { return nil })
	s.Require().NoError(err)
	s.Assert().NotContains(msg.Content, "<script>")
	s.Assert().Contains(msg.Content, "Well done!")
}

func (s *ChatServiceSuite) TestSendMessageUpstreamFailureKeepsSessionUsable() {
	mock := llm.NewMockClient(llm.MockResponse{Err: errors.New("stream cut")})
	svc := services.NewChatService(s.chatRepo, mock)
	ctx := context.Background()

	session, err := svc.StartSession(ctx)
	s.Require().NoError(err)

	_, err = svc.SendMessage(ctx, session.ID, "Hello?", func(string) error { return nil })
	s.Require().Error(err)
	var appErr *apperrors.AppError
	s.Require().ErrorAs(err, &appErr)
	s.Assert().Equal(apperrors.ErrCodeUpstream, appErr.Code)

	// The user message survives and the session still accepts new turns.
	history, err := svc.History(ctx, session.ID)
	s.Require().NoError(err)
	s.Require().Len(history, 1)
	s.Assert().Equal(models.ChatRoleUser, history[0].Role)

	mock.AddResponse(llm.MockResponse{Stream: []string{"Still here!"}})
	msg, err := svc.SendMessage(ctx, session.ID, "Are you there?", func(string) error { return nil })
	s.Require().NoError(err)
	s.Assert().Equal("Still here!", msg.Content)
}

func (s *ChatServiceSuite) TestSendMessageValidation() {
	svc := services.NewChatService(s.chatRepo, llm.NewMockClient())
	ctx := context.Background()

	session, err := svc.StartSession(ctx)
	s.Require().NoError(err)

	_, err = svc.SendMessage(ctx, session.ID, "   ", func(string) error { return nil })
	s.Assert().Error(err)

	_, err = svc.SendMessage(ctx, "no-such-session", "hi", func(string) error { return nil })
	var appErr *apperrors.AppError
	s.Require().ErrorAs(err, &appErr)
	s.Assert().Equal(apperrors.ErrCodeNotFound, appErr.Code)
}

func TestChatServiceSuite(t *testing.T) {
	suite.Run(t, new(ChatServiceSuite))
}
