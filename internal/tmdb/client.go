package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/codemaplab/codemap/internal/logger"
	"github.com/codemaplab/codemap/internal/models"
)

const defaultBaseURL = "https://api.themoviedb.org/3"

type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	log        *logger.Logger
}

func New(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		apiKey:     apiKey,
		baseURL:    baseURL,
		log:        logger.Default().WithPrefix("tmdb"),
	}
}

// DiscoverOptions controls paging and ordering of a discover query.
type DiscoverOptions struct {
	Page   int
	SortBy string
}

type discoverResp struct {
	Results []movieRecord `json:"results"`
}

type movieRecord struct {
	Title       string  `json:"title"`
	PosterPath  string  `json:"poster_path"`
	VoteAverage float64 `json:"vote_average"`
	Overview    string  `json:"overview"`
	ReleaseDate string  `json:"release_date"`
}

// DiscoverByGenre fetches movies for a genre id, ordered and paged per opts.
func (c *Client) DiscoverByGenre(ctx context.Context, genreID int, opts DiscoverOptions) ([]models.Movie, error) {
	log := logger.FromContext(ctx).WithPrefix("tmdb").WithField("genre_id", genreID)

	page := opts.Page
	if page < 1 {
		page = 1
	}
	sortBy := opts.SortBy
	if sortBy == "" {
		sortBy = "popularity.desc"
	}

	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("with_genres", strconv.Itoa(genreID))
	params.Set("page", strconv.Itoa(page))
	params.Set("sort_by", sortBy)
	params.Set("language", "ko-KR")

	reqURL := fmt.Sprintf("%s/discover/movie?%s", c.baseURL, params.Encode())

	log.Debug("fetching movies: page=%d, sort_by=%s", page, sortBy)
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		log.Error("failed to create request: %v", err)
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("failed to fetch movies: %v", err)
		return nil, err
	}
	defer resp.Body.Close()

	log.Debug("discover response received in %v, status=%d", time.Since(start), resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Error("discover request failed: status=%d, body=%s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("discover status %d: %s", resp.StatusCode, string(body))
	}

	var out discoverResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		log.Error("failed to decode discover response: %v", err)
		return nil, err
	}

	movies := make([]models.Movie, 0, len(out.Results))
	for _, r := range out.Results {
		movies = append(movies, models.Movie{
			Title:       r.Title,
			PosterPath:  r.PosterPath,
			VoteAverage: r.VoteAverage,
			Overview:    r.Overview,
			ReleaseDate: r.ReleaseDate,
		})
	}

	log.Info("fetched %d movies for genre %d", len(movies), genreID)
	return movies, nil
}
