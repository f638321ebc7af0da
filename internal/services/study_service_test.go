package services_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/codemaplab/codemap/internal/curriculum"
	"github.com/codemaplab/codemap/internal/llm"
	"github.com/codemaplab/codemap/internal/models"
	"github.com/codemaplab/codemap/internal/repository"
	"github.com/codemaplab/codemap/internal/repository/sqlite"
	"github.com/codemaplab/codemap/internal/services"
	"github.com/codemaplab/codemap/internal/testutil"
)

type StudyServiceSuite struct {
	suite.Suite
	db          *sql.DB
	stateRepo   repository.StateRepository
	attemptRepo repository.AttemptRepository
	enrichRepo  repository.EnrichmentRepository
}

func (s *StudyServiceSuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.stateRepo = sqlite.NewStateRepository(s.db)
	s.enrichRepo = sqlite.NewEnrichmentRepository(s.db)
	s.attemptRepo = sqlite.NewAttemptRepository(s.db)
}

func (s *StudyServiceSuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *StudyServiceSuite) newService(client llm.Client, onAttempt func(int64)) services.StudyService {
	return services.NewStudyService(s.stateRepo, s.enrichRepo, s.attemptRepo, client, onAttempt)
}

func twoChoiceQuestion() models.Question {
	return models.Question{
		Question:    "input() 결과의 자료형은?",
		Choices:     []string{"str", "int"},
		AnswerIndex: 0,
		Explanation: "input()은 항상 문자열을 반환합니다.",
	}
}

func (s *StudyServiceSuite) TestGetState() {
	svc := s.newService(nil, nil)

	state, err := svc.GetState(context.Background())
	s.Require().NoError(err)
	s.Assert().Equal(1, state.CharLevel)
	s.Assert().Equal(0, state.CardIndex)
	s.Assert().Equal(curriculum.Count(), state.CardCount)
	s.Assert().Equal("S1-C1", state.Card.CardID)
	// round(0.75*10 + 0.25*1) = 8
	s.Assert().Equal(8, state.QuizLevel)
	s.Assert().Equal(1, state.Character.Bucket)
	s.Assert().Equal("새싹 코더", state.Character.Title)
}

func (s *StudyServiceSuite) TestSubmitCorrectRaisesLevel() {
	svc := s.newService(nil, nil)
	ctx := context.Background()

	result, err := svc.SubmitAnswer(ctx, twoChoiceQuestion(), 0)
	s.Require().NoError(err)
	s.Assert().True(result.Correct)
	s.Assert().Equal(2, result.CharLevel)

	state, err := s.stateRepo.Get(ctx)
	s.Require().NoError(err)
	s.Assert().Equal(2, state.CharLevel)
}

func (s *StudyServiceSuite) TestSubmitWrongKeepsLevel() {
	svc := s.newService(nil, nil)
	ctx := context.Background()

	result, err := svc.SubmitAnswer(ctx, twoChoiceQuestion(), 1)
	s.Require().NoError(err)
	s.Assert().False(result.Correct)
	s.Assert().Equal(1, result.CharLevel)
}

func (s *StudyServiceSuite) TestSubmitLevelCapsAt100() {
	svc := s.newService(nil, nil)
	ctx := context.Background()

	s.Require().NoError(s.stateRepo.Set(ctx, 100, 0))
	result, err := svc.SubmitAnswer(ctx, twoChoiceQuestion(), 0)
	s.Require().NoError(err)
	s.Assert().True(result.Correct)
	s.Assert().Equal(100, result.CharLevel)
}

func (s *StudyServiceSuite) TestSubmitPersistsSnapshot() {
	svc := s.newService(nil, nil)
	ctx := context.Background()

	result, err := svc.SubmitAnswer(ctx, twoChoiceQuestion(), 1)
	s.Require().NoError(err)

	attempt, err := s.attemptRepo.Get(ctx, result.AttemptID)
	s.Require().NoError(err)
	card := curriculum.ByIndex(0)
	s.Assert().Equal(card.CardID, attempt.CardID)
	s.Assert().Equal(card.Text, attempt.CardText)
	s.Assert().Equal(card.BaseLevel, attempt.CardBaseLevel)
	s.Assert().Equal(8, attempt.QuizLevel)
	s.Assert().Equal(1, attempt.UserChoiceIndex)
	s.Assert().False(attempt.IsCorrect)
}

func (s *StudyServiceSuite) TestSubmitValidation() {
	svc := s.newService(nil, nil)
	ctx := context.Background()

	q := twoChoiceQuestion()
	_, err := svc.SubmitAnswer(ctx, q, 5)
	s.Assert().Error(err)

	q.Choices = []string{"only"}
	_, err = svc.SubmitAnswer(ctx, q, 0)
	s.Assert().Error(err)
}

func (s *StudyServiceSuite) TestSubmitFiresAttemptHook() {
	var hooked []int64
	svc := s.newService(nil, func(id int64) { hooked = append(hooked, id) })

	result, err := svc.SubmitAnswer(context.Background(), twoChoiceQuestion(), 0)
	s.Require().NoError(err)
	s.Require().Len(hooked, 1)
	s.Assert().Equal(result.AttemptID, hooked[0])
}

func (s *StudyServiceSuite) TestAdvanceCardClamps() {
	svc := s.newService(nil, nil)
	ctx := context.Background()

	state, err := svc.AdvanceCard(ctx)
	s.Require().NoError(err)
	s.Assert().Equal(1, state.CardIndex)

	s.Require().NoError(s.stateRepo.Set(ctx, 1, curriculum.Count()-1))
	state, err = svc.AdvanceCard(ctx)
	s.Require().NoError(err)
	s.Assert().Equal(curriculum.Count()-1, state.CardIndex)
}

func (s *StudyServiceSuite) TestGenerateEnrichment() {
	mock := llm.NewMockClient(llm.MockResponse{
		JSON: `{"summary":"한 줄 요약","easy":"쉬운 설명","examples":"print('A')"}`,
	})
	svc := s.newService(mock, nil)
	ctx := context.Background()

	enrich, err := svc.GenerateEnrichment(ctx)
	s.Require().NoError(err)
	s.Assert().Equal("한 줄 요약", enrich.Summary)

	stored, err := s.enrichRepo.Get(ctx, "S1-C1")
	s.Require().NoError(err)
	s.Assert().Equal("쉬운 설명", stored.Easy)
}

func (s *StudyServiceSuite) TestGenerateEnrichmentModelFailureStoresEmpty() {
	mock := llm.NewMockClient() // empty queue, every call errors
	svc := s.newService(mock, nil)

	enrich, err := svc.GenerateEnrichment(context.Background())
	s.Require().NoError(err)
	s.Assert().Empty(enrich.Summary)
	s.Assert().Empty(enrich.Easy)
	s.Assert().Empty(enrich.Examples)
}

func (s *StudyServiceSuite) TestResetEnrichment() {
	ctx := context.Background()
	s.Require().NoError(s.enrichRepo.Upsert(ctx, models.Enrichment{
		CardID: "S1-C1", Summary: "old", Easy: "old", Examples: "old",
	}))

	svc := s.newService(nil, nil)
	s.Require().NoError(svc.ResetEnrichment(ctx))

	stored, err := s.enrichRepo.Get(ctx, "S1-C1")
	s.Require().NoError(err)
	s.Assert().Empty(stored.Summary)
}

func (s *StudyServiceSuite) TestGenerateQuestionFallsBackWithoutModel() {
	svc := s.newService(nil, nil)

	q, err := svc.GenerateQuestion(context.Background())
	s.Require().NoError(err)
	s.Assert().Equal("다음 코드의 출력 순서는 무엇인가요?", q.Question)
}

func TestStudyServiceSuite(t *testing.T) {
	suite.Run(t, new(StudyServiceSuite))
}
