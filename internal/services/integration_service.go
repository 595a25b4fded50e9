package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/dto"
	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/events"
	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/models"
	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/repository"
	"github.com/google/uuid"
)

var (
	ErrMovieExists      = errors.New("movie already exists")
	ErrExternalNotFound = errors.New("movie not found in metadata provider")
	ErrNoExternalID     = errors.New("movie has no external id")
)

// MetadataProvider looks movies up in an external catalog.
type MetadataProvider interface {
	SearchByTitle(ctx context.Context, title string) ([]dto.ExternalMovie, error)
	GetByExternalID(ctx context.Context, externalID string) (*models.Movie, error)
}

type IntegrationService struct {
	movies   *repository.MovieRepository
	provider MetadataProvider
	catalog  *MovieService
}

func NewIntegrationService(movies *repository.MovieRepository, provider MetadataProvider, catalog *MovieService) *IntegrationService {
	return &IntegrationService{movies: movies, provider: provider, catalog: catalog}
}

// SearchExternal never fails: provider errors degrade to an empty list.
func (s *IntegrationService) SearchExternal(ctx context.Context, title string) []dto.ExternalMovie {
	hits, err := s.provider.SearchByTitle(ctx, title)
	if err != nil {
		slog.Warn("metadata provider search failed", "title", title, "error", err)
		return []dto.ExternalMovie{}
	}
	if hits == nil {
		return []dto.ExternalMovie{}
	}
	return hits
}

// Import adds the provider's record for externalID to the catalog. A
// soft-deleted movie with the same external id is brought back with fresh
// data instead of being duplicated.
func (s *IntegrationService) Import(ctx context.Context, externalID string) (*dto.MovieResponse, error) {
	existing, err := s.movies.GetByExternalID(ctx, externalID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if existing != nil && !existing.IsDeleted {
		return nil, ErrMovieExists
	}

	fetched, err := s.fetch(ctx, externalID)
	if err != nil {
		return nil, err
	}

	var movie *models.Movie
	if existing != nil {
		existing.Overwrite(fetched)
		if err := s.movies.Restore(ctx, existing); err != nil {
			return nil, err
		}
		movie = existing
	} else {
		movie = &models.Movie{}
		movie.Overwrite(fetched)
		if err := s.movies.Create(ctx, movie); err != nil {
			return nil, err
		}
	}

	s.catalog.changed(ctx, events.MovieImported, movie)
	resp := dto.NewMovieResponse(movie)
	return &resp, nil
}

// Sync overwrites a live movie with the provider's current data.
func (s *IntegrationService) Sync(ctx context.Context, id uuid.UUID) (*dto.MovieResponse, error) {
	movie, err := s.movies.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrMovieNotFound
	}
	if err != nil {
		return nil, err
	}
	if movie.ExternalID == "" {
		return nil, ErrNoExternalID
	}

	fetched, err := s.fetch(ctx, movie.ExternalID)
	if err != nil {
		return nil, err
	}

	movie.Overwrite(fetched)
	if err := s.movies.Update(ctx, movie); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}

	s.catalog.changed(ctx, events.MovieSynced, movie)
	resp := dto.NewMovieResponse(movie)
	return &resp, nil
}

// fetch treats every provider failure as a miss.
func (s *IntegrationService) fetch(ctx context.Context, externalID string) (*models.Movie, error) {
	movie, err := s.provider.GetByExternalID(ctx, externalID)
	if err != nil {
		slog.Warn("metadata provider lookup failed", "external_id", externalID, "error", err)
		return nil, ErrExternalNotFound
	}
	if movie == nil {
		return nil, ErrExternalNotFound
	}
	if movie.ExternalID == "" {
		movie.ExternalID = externalID
	}
	return movie, nil
}
