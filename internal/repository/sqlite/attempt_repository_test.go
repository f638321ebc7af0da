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

type AttemptRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.AttemptRepository
}

func (s *AttemptRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewAttemptRepository(s.db)
}

func (s *AttemptRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func sampleAttempt(cardID string, correct bool) models.Attempt {
	return models.Attempt{
		StepID:          "S1",
		StepTitle:       "파이썬 시작하기",
		CardID:          cardID,
		CardTitle:       "실행 흐름과 출력(print)",
		CardBaseLevel:   10,
		QuizLevel:       12,
		CardText:        "print()는 화면에 글자를 출력합니다.",
		AutoSummary:     "요약",
		AutoEasy:        "쉬운 설명",
		AutoExamples:    "print('A')",
		Question:        "다음 코드의 출력 순서는?",
		Code:            "print('A')\nprint('B')",
		Choices:         []string{"A 다음 B", "B 다음 A"},
		AnswerIndex:     0,
		Explanation:     "위에서 아래로 실행됩니다.",
		UserChoiceIndex: 1,
		IsCorrect:       correct,
	}
}

func (s *AttemptRepositorySuite) TestInsertAndGet() {
	ctx := context.Background()

	id, err := s.repo.Insert(ctx, sampleAttempt("S1-C1", false))
	s.Require().NoError(err)
	s.Assert().Greater(id, int64(0))

	got, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	s.Assert().Equal("S1-C1", got.CardID)
	s.Assert().Equal(12, got.QuizLevel)
	s.Assert().Equal([]string{"A 다음 B", "B 다음 A"}, got.Choices)
	s.Assert().Equal(0, got.AnswerIndex)
	s.Assert().Equal(1, got.UserChoiceIndex)
	s.Assert().False(got.IsCorrect)
	s.Assert().Equal("위에서 아래로 실행됩니다.", got.Explanation)
	s.Assert().False(got.CreatedAt.IsZero())
}

func (s *AttemptRepositorySuite) TestGet_NotFound() {
	ctx := context.Background()
	got, err := s.repo.Get(ctx, 99999)
	s.Assert().ErrorIs(err, sql.ErrNoRows)
	s.Assert().Nil(got)
}

func (s *AttemptRepositorySuite) TestListNewestFirst() {
	ctx := context.Background()

	first, err := s.repo.Insert(ctx, sampleAttempt("S1-C1", true))
	s.Require().NoError(err)
	second, err := s.repo.Insert(ctx, sampleAttempt("S2-C1", false))
	s.Require().NoError(err)

	attempts, err := s.repo.List(ctx, models.AttemptFilter{})
	s.Require().NoError(err)
	s.Require().Len(attempts, 2)
	s.Assert().Equal(second, attempts[0].ID)
	s.Assert().Equal(first, attempts[1].ID)
}

func (s *AttemptRepositorySuite) TestListFilters() {
	ctx := context.Background()

	_, err := s.repo.Insert(ctx, sampleAttempt("S1-C1", true))
	s.Require().NoError(err)
	_, err = s.repo.Insert(ctx, sampleAttempt("S1-C1", false))
	s.Require().NoError(err)
	_, err = s.repo.Insert(ctx, sampleAttempt("S2-C1", false))
	s.Require().NoError(err)

	wrong, err := s.repo.List(ctx, models.AttemptFilter{OnlyWrong: true})
	s.Require().NoError(err)
	s.Assert().Len(wrong, 2)

	byCard, err := s.repo.List(ctx, models.AttemptFilter{CardID: "S1-C1"})
	s.Require().NoError(err)
	s.Assert().Len(byCard, 2)

	both, err := s.repo.List(ctx, models.AttemptFilter{CardID: "S1-C1", OnlyWrong: true})
	s.Require().NoError(err)
	s.Assert().Len(both, 1)
}

func (s *AttemptRepositorySuite) TestListLimitOffset() {
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := s.repo.Insert(ctx, sampleAttempt("S1-C1", false))
		s.Require().NoError(err)
	}

	page, err := s.repo.List(ctx, models.AttemptFilter{Limit: 2, Offset: 1})
	s.Require().NoError(err)
	s.Assert().Len(page, 2)
}

func (s *AttemptRepositorySuite) TestCount() {
	ctx := context.Background()

	_, err := s.repo.Insert(ctx, sampleAttempt("S1-C1", true))
	s.Require().NoError(err)
	_, err = s.repo.Insert(ctx, sampleAttempt("S1-C1", false))
	s.Require().NoError(err)

	total, err := s.repo.Count(ctx, models.AttemptFilter{})
	s.Require().NoError(err)
	s.Assert().Equal(2, total)

	wrong, err := s.repo.Count(ctx, models.AttemptFilter{OnlyWrong: true})
	s.Require().NoError(err)
	s.Assert().Equal(1, wrong)
}

func TestAttemptRepositorySuite(t *testing.T) {
	suite.Run(t, new(AttemptRepositorySuite))
}
