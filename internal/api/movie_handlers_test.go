package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codemaplab/codemap/internal/api"
	"github.com/codemaplab/codemap/internal/models"
	"github.com/codemaplab/codemap/internal/services"
	"github.com/codemaplab/codemap/internal/tmdb"
)

type stubCatalog struct {
	movies []models.Movie
	err    error
}

func (c *stubCatalog) DiscoverByGenre(context.Context, int, tmdb.DiscoverOptions) ([]models.Movie, error) {
	return c.movies, c.err
}

func newMovieServer(catalog tmdb.ClientInterface) http.Handler {
	srv := &api.MovieServer{
		MovieService: services.NewMovieService(catalog),
		StaticDir:    "testdata",
	}
	return srv.Routes()
}

func TestMovieQuestions(t *testing.T) {
	handler := newMovieServer(&stubCatalog{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/questions", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Questions []struct {
			Key     string   `json:"key"`
			Choices []string `json:"choices"`
		} `json:"questions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Questions, 4)
	assert.Equal(t, "tone", resp.Questions[0].Key)
	assert.Len(t, resp.Questions[0].Choices, 4)
}

func TestMovieRecommendEndpoint(t *testing.T) {
	handler := newMovieServer(&stubCatalog{movies: []models.Movie{{Title: "매드맥스"}}})

	body := `{"tone":"짜릿하고 강렬한","pace":"빠르게 몰아치는","vibe":"아드레날린","ending":"통쾌한"}`
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/recommendation", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	var result struct {
		Genre  string         `json:"genre"`
		Movies []models.Movie `json:"movies"`
		Error  string         `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "액션", result.Genre)
	assert.Len(t, result.Movies, 1)
	assert.Empty(t, result.Error)
}

func TestMovieRecommendEndpoint_MissingAnswers(t *testing.T) {
	handler := newMovieServer(&stubCatalog{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/recommendation",
		strings.NewReader(`{"tone":"짜릿하고 강렬한"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMovieRecommendEndpoint_BadJSON(t *testing.T) {
	handler := newMovieServer(&stubCatalog{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/recommendation",
		strings.NewReader(`{not json`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
