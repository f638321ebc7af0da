package services

import (
	"context"

	"github.com/codemaplab/codemap/internal/errors"
	"github.com/codemaplab/codemap/internal/genre"
	"github.com/codemaplab/codemap/internal/logger"
	"github.com/codemaplab/codemap/internal/models"
	"github.com/codemaplab/codemap/internal/tmdb"
)

// movieErrorMessage is shown to the user when the catalog lookup fails.
// Catalog failures degrade to this string rather than surfacing a 5xx.
const movieErrorMessage = "영화 정보를 불러오지 못했습니다. 잠시 후 다시 시도해 주세요."

// MovieResult is the outcome of scoring quiz answers into a genre and looking
// up movies for it.
type MovieResult struct {
	Genre   string         `json:"genre"`
	GenreID int            `json:"genre_id"`
	Scores  map[string]int `json:"scores"`
	Movies  []models.Movie `json:"movies"`
	Error   string         `json:"error,omitempty"`
}

// MovieService scores quiz answers and fetches matching movies.
type MovieService interface {
	Recommend(ctx context.Context, answers genre.Answers, page int) (*MovieResult, error)
}

type movieService struct {
	catalog tmdb.ClientInterface
}

// NewMovieService creates a new MovieService.
func NewMovieService(catalog tmdb.ClientInterface) MovieService {
	return &movieService{catalog: catalog}
}

func (s *movieService) Recommend(ctx context.Context, answers genre.Answers, page int) (*MovieResult, error) {
	log := logger.FromContext(ctx)

	if answers.Tone == "" || answers.Pace == "" || answers.Vibe == "" || answers.Ending == "" {
		return nil, errors.NewValidationError("answers", "all four answers are required")
	}

	winner, scores := genre.Score(answers)
	log.Debug("scored answers: genre=%s (id=%d)", winner.Name, winner.TMDBID)

	result := &MovieResult{
		Genre:   winner.Name,
		GenreID: winner.TMDBID,
		Scores:  scores,
	}

	movies, err := s.catalog.DiscoverByGenre(ctx, winner.TMDBID, tmdb.DiscoverOptions{Page: page})
	if err != nil {
		log.Error("catalog lookup failed: %v", err)
		result.Error = movieErrorMessage
		result.Movies = []models.Movie{}
		return result, nil
	}

	result.Movies = movies
	log.Info("recommended %d movies for genre %s", len(movies), winner.Name)
	return result, nil
}
