package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/codemaplab/codemap/internal/models"
	"github.com/codemaplab/codemap/internal/repository"
	"github.com/codemaplab/codemap/internal/repository/sqlite"
	"github.com/codemaplab/codemap/internal/testutil"
)

type ChatRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.ChatRepository
}

func (s *ChatRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewChatRepository(s.db)
}

func (s *ChatRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *ChatRepositorySuite) TestCreateAndGetSession() {
	ctx := context.Background()

	s.Require().NoError(s.repo.CreateSession(ctx, "sess-1"))

	session, err := s.repo.GetSession(ctx, "sess-1")
	s.Require().NoError(err)
	s.Assert().Equal("sess-1", session.ID)
	s.Assert().False(session.CreatedAt.IsZero())
}

func (s *ChatRepositorySuite) TestGetSession_NotFound() {
	ctx := context.Background()
	session, err := s.repo.GetSession(ctx, "missing")
	s.Assert().ErrorIs(err, sql.ErrNoRows)
	s.Assert().Nil(session)
}

func (s *ChatRepositorySuite) TestMessagesInOrder() {
	ctx := context.Background()
	s.Require().NoError(s.repo.CreateSession(ctx, "sess-1"))

	_, err := s.repo.InsertMessage(ctx, models.ChatMessage{
		SessionID: "sess-1", Role: models.ChatRoleUser, Content: "Hello!",
	})
	s.Require().NoError(err)
	_, err = s.repo.InsertMessage(ctx, models.ChatMessage{
		SessionID: "sess-1", Role: models.ChatRoleAssistant, Content: "Hi, how are you?",
	})
	s.Require().NoError(err)

	messages, err := s.repo.MessagesForSession(ctx, "sess-1", 0)
	s.Require().NoError(err)
	s.Require().Len(messages, 2)
	s.Assert().Equal(models.ChatRoleUser, messages[0].Role)
	s.Assert().Equal("Hello!", messages[0].Content)
	s.Assert().Equal(models.ChatRoleAssistant, messages[1].Role)
}

func (s *ChatRepositorySuite) TestMessagesScopedToSession() {
	ctx := context.Background()
	s.Require().NoError(s.repo.CreateSession(ctx, "a"))
	s.Require().NoError(s.repo.CreateSession(ctx, "b"))

	_, err := s.repo.InsertMessage(ctx, models.ChatMessage{SessionID: "a", Role: models.ChatRoleUser, Content: "for a"})
	s.Require().NoError(err)

	messages, err := s.repo.MessagesForSession(ctx, "b", 0)
	s.Require().NoError(err)
	s.Assert().Empty(messages)
}

func (s *ChatRepositorySuite) TestInsertMessage_UnknownSessionFails() {
	ctx := context.Background()
	_, err := s.repo.InsertMessage(ctx, models.ChatMessage{
		SessionID: "ghost", Role: models.ChatRoleUser, Content: "x",
	})
	s.Assert().Error(err)
}

func TestChatRepositorySuite(t *testing.T) {
	suite.Run(t, new(ChatRepositorySuite))
}
