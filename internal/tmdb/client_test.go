package tmdb_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codemaplab/codemap/internal/tmdb"
)

func TestDiscoverByGenre(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/discover/movie", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "test-key", q.Get("api_key"))
		assert.Equal(t, "28", q.Get("with_genres"))
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "popularity.desc", q.Get("sort_by"))
		assert.Equal(t, "ko-KR", q.Get("language"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[
			{"title":"매드맥스","poster_path":"/mm.jpg","vote_average":8.1,"overview":"사막 추격전","release_date":"2015-05-14"},
			{"title":"존 윅","poster_path":"/jw.jpg","vote_average":7.4,"overview":"전설의 킬러","release_date":"2014-10-24"}
		]}`))
	}))
	defer srv.Close()

	client := tmdb.New("test-key", srv.URL)
	movies, err := client.DiscoverByGenre(context.Background(), 28, tmdb.DiscoverOptions{Page: 2})
	require.NoError(t, err)
	require.Len(t, movies, 2)
	assert.Equal(t, "매드맥스", movies[0].Title)
	assert.Equal(t, "/mm.jpg", movies[0].PosterPath)
	assert.InDelta(t, 8.1, movies[0].VoteAverage, 1e-9)
	assert.Equal(t, "2014-10-24", movies[1].ReleaseDate)
}

func TestDiscoverByGenre_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"status_message":"Invalid API key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := tmdb.New("bad-key", srv.URL)
	movies, err := client.DiscoverByGenre(context.Background(), 28, tmdb.DiscoverOptions{})
	assert.Error(t, err)
	assert.Nil(t, movies)
}

func TestDiscoverByGenre_NetworkFailure(t *testing.T) {
	client := tmdb.New("key", "http://127.0.0.1:1")
	_, err := client.DiscoverByGenre(context.Background(), 28, tmdb.DiscoverOptions{})
	assert.Error(t, err)
}
