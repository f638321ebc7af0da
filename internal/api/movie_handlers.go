package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/codemaplab/codemap/internal/genre"
	"github.com/codemaplab/codemap/internal/services"
)

// MovieServer serves the movie quiz API. Stateless: no database behind it.
type MovieServer struct {
	MovieService services.MovieService
	StaticDir    string
}

func (s *MovieServer) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/api/questions", s.handleQuestions)
	r.Post("/api/recommendation", s.handleRecommend)

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(s.StaticDir))))
	return r
}

func (s *MovieServer) handleQuestions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{"questions": genre.Questions()})
}

type recommendRequest struct {
	genre.Answers
	Page int `json:"page"`
}

func (s *MovieServer) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	result, err := s.MovieService.Recommend(r.Context(), req.Answers, req.Page)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}
