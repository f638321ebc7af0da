package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/codemaplab/codemap/internal/models"
	"github.com/codemaplab/codemap/internal/services"
)

// StudyServer serves the flashcard study API. When Vector is true the
// similarity recommendation route is registered alongside the wrong-count
// one.
type StudyServer struct {
	StudyService     services.StudyService
	RecommendService services.RecommendService
	RecommendLimit   int
	StaticDir        string
	Vector           bool
}

func (s *StudyServer) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/api/state", s.handleState)
	r.Post("/api/quiz", s.handleGenerateQuestion)
	r.Post("/api/quiz/answer", s.handleSubmitAnswer)
	r.Post("/api/card/advance", s.handleAdvanceCard)
	r.Post("/api/enrichment/generate", s.handleGenerateEnrichment)
	r.Post("/api/enrichment/reset", s.handleResetEnrichment)
	r.Get("/api/attempts", s.handleListAttempts)
	r.Get("/api/recommendations", s.handleRecommendations)
	if s.Vector {
		r.Get("/api/recommendations/similar", s.handleSimilarRecommendations)
	}

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(s.StaticDir))))
	return r
}

func (s *StudyServer) handleState(w http.ResponseWriter, r *http.Request) {
	state, err := s.StudyService.GetState(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, state)
}

func (s *StudyServer) handleGenerateQuestion(w http.ResponseWriter, r *http.Request) {
	q, err := s.StudyService.GenerateQuestion(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, q)
}

type submitAnswerRequest struct {
	Question        models.Question `json:"question"`
	UserChoiceIndex int             `json:"user_choice_index"`
}

func (s *StudyServer) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req submitAnswerRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	result, err := s.StudyService.SubmitAnswer(r.Context(), req.Question, req.UserChoiceIndex)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

func (s *StudyServer) handleAdvanceCard(w http.ResponseWriter, r *http.Request) {
	state, err := s.StudyService.AdvanceCard(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, state)
}

func (s *StudyServer) handleGenerateEnrichment(w http.ResponseWriter, r *http.Request) {
	enrich, err := s.StudyService.GenerateEnrichment(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, enrich)
}

func (s *StudyServer) handleResetEnrichment(w http.ResponseWriter, r *http.Request) {
	if err := s.StudyService.ResetEnrichment(r.Context()); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]bool{"reset": true})
}

func (s *StudyServer) handleListAttempts(w http.ResponseWriter, r *http.Request) {
	filter := models.AttemptFilter{
		CardID:    r.URL.Query().Get("card_id"),
		OnlyWrong: r.URL.Query().Get("only_wrong") == "true",
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		filter.Limit, _ = strconv.Atoi(v)
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		filter.Offset, _ = strconv.Atoi(v)
	}

	attempts, total, err := s.StudyService.ListAttempts(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if attempts == nil {
		attempts = []models.Attempt{}
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"attempts": attempts,
		"total":    total,
	})
}

func (s *StudyServer) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	recs, err := s.RecommendService.ByWrongCount(r.Context(), s.RecommendLimit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	wrong, err := s.RecommendService.RecentWrong(r.Context(), 10)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if wrong == nil {
		wrong = []models.Attempt{}
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"recommendations": recs,
		"recent_wrong":    wrong,
	})
}

func (s *StudyServer) handleSimilarRecommendations(w http.ResponseWriter, r *http.Request) {
	recs, err := s.RecommendService.BySimilarity(r.Context(), s.RecommendLimit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"recommendations": recs,
	})
}
