package tmdb

import (
	"context"

	"github.com/codemaplab/codemap/internal/models"
)

// ClientInterface defines the interface for movie-catalog API operations.
// This interface enables testability by allowing mock implementations.
type ClientInterface interface {
	DiscoverByGenre(ctx context.Context, genreID int, opts DiscoverOptions) ([]models.Movie, error)
}

// Ensure Client implements the interface
var _ ClientInterface = (*Client)(nil)
