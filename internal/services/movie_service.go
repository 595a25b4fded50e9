package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/cache"
	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/dto"
	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/events"
	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/models"
	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/repository"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	DefaultPageSize        = 10
	MaxPageSize            = 100
	DefaultRecommendations = 5
	MaxRecommendations     = 50
)

// Cache key prefixes. Every catalog write drops both.
const (
	moviesCachePrefix = "movies:"
	statsCachePrefix  = "stats:"
)

var (
	ErrMovieNotFound = errors.New("movie not found")
	ErrNoMovies      = repository.ErrNoMovies
)

type MovieService struct {
	movies    *repository.MovieRepository
	cache     cache.Store
	cacheTTL  time.Duration
	publisher events.Publisher
}

func NewMovieService(movies *repository.MovieRepository, store cache.Store, ttl time.Duration, publisher events.Publisher) *MovieService {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &MovieService{movies: movies, cache: store, cacheTTL: ttl, publisher: publisher}
}

// List returns one page of non-deleted movies, newest first. TotalCount is
// the size of the whole filtered set, not of the page.
func (s *MovieService) List(ctx context.Context, q dto.MovieQuery) (*dto.Page[dto.MovieResponse], error) {
	page, size := normalizePage(q.Page, q.PageSize)
	filter := repository.MovieFilter{Title: q.Title, Genre: q.Genre, Director: q.Director}
	key := fmt.Sprintf("%slist:%d:%d:%q:%q:%q", moviesCachePrefix, page, size, filter.Title, filter.Genre, filter.Director)

	result, err := cache.Remember(ctx, s.cache, key, s.cacheTTL, func() (dto.Page[dto.MovieResponse], error) {
		movies, err := s.movies.List(ctx, filter, page, size)
		if err != nil {
			return dto.Page[dto.MovieResponse]{}, err
		}
		total, err := s.movies.Count(ctx, filter)
		if err != nil {
			return dto.Page[dto.MovieResponse]{}, err
		}
		return dto.Page[dto.MovieResponse]{
			Items:      dto.NewMovieResponses(movies),
			Page:       page,
			PageSize:   size,
			TotalCount: total,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *MovieService) Get(ctx context.Context, id uuid.UUID) (*dto.MovieResponse, error) {
	key := moviesCachePrefix + "id:" + id.String()
	result, err := cache.Remember(ctx, s.cache, key, s.cacheTTL, func() (dto.MovieResponse, error) {
		movie, err := s.movies.GetByID(ctx, id)
		if err != nil {
			return dto.MovieResponse{}, err
		}
		return dto.NewMovieResponse(movie), nil
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrMovieNotFound
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *MovieService) Create(ctx context.Context, req *dto.MovieRequest) (*dto.MovieResponse, error) {
	movie := &models.Movie{}
	movie.Overwrite(movieFromRequest(req))
	if err := s.movies.Create(ctx, movie); err != nil {
		return nil, err
	}

	s.changed(ctx, events.MovieCreated, movie)
	resp := dto.NewMovieResponse(movie)
	return &resp, nil
}

// Update replaces every catalog field of a live movie.
func (s *MovieService) Update(ctx context.Context, id uuid.UUID, req *dto.MovieRequest) (*dto.MovieResponse, error) {
	movie, err := s.movies.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrMovieNotFound
	}
	if err != nil {
		return nil, err
	}

	movie.Overwrite(movieFromRequest(req))
	if err := s.movies.Update(ctx, movie); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}

	s.changed(ctx, events.MovieUpdated, movie)
	resp := dto.NewMovieResponse(movie)
	return &resp, nil
}

func (s *MovieService) Delete(ctx context.Context, id uuid.UUID) error {
	movie, err := s.movies.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrMovieNotFound
	}
	if err != nil {
		return err
	}

	deleted, err := s.movies.SoftDelete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrMovieNotFound
	}

	s.changed(ctx, events.MovieDeleted, movie)
	return nil
}

// Random is never cached.
func (s *MovieService) Random(ctx context.Context) (*dto.MovieResponse, error) {
	movie, err := s.movies.Random(ctx)
	if err != nil {
		return nil, err
	}
	resp := dto.NewMovieResponse(movie)
	return &resp, nil
}

// Recommendations returns the best rated movies of genre.
func (s *MovieService) Recommendations(ctx context.Context, genre string, count int) ([]dto.MovieResponse, error) {
	if count <= 0 {
		count = DefaultRecommendations
	}
	count = min(count, MaxRecommendations)

	key := fmt.Sprintf("%srecommendations:%q:%d", moviesCachePrefix, genre, count)
	return cache.Remember(ctx, s.cache, key, s.cacheTTL, func() ([]dto.MovieResponse, error) {
		movies, err := s.movies.TopRatedByGenre(ctx, genre, count)
		if err != nil {
			return nil, err
		}
		return dto.NewMovieResponses(movies), nil
	})
}

// changed runs after a committed catalog write.
func (s *MovieService) changed(ctx context.Context, t events.Type, movie *models.Movie) {
	cache.Invalidate(ctx, s.cache, moviesCachePrefix, statsCachePrefix)
	events.Emit(ctx, s.publisher, events.NewMovieEvent(t, movie))
	slog.Info("movie changed", "event", string(t), "movie_id", movie.ID.String())
}

func normalizePage(page, size int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	return page, min(size, MaxPageSize)
}

func movieFromRequest(req *dto.MovieRequest) *models.Movie {
	genres := req.Genres
	if genres == nil {
		genres = []string{}
	}
	actors := req.Actors
	if actors == nil {
		actors = []string{}
	}
	meta := req.Metadata
	if meta == nil {
		meta = models.Metadata{}
	}
	return &models.Movie{
		ExternalID:  req.ExternalID,
		Title:       req.Title,
		Description: req.Description,
		Year:        req.Year,
		Genres:      datatypes.JSONSlice[string](genres),
		Director:    req.Director,
		Actors:      datatypes.JSONSlice[string](actors),
		Rating:      req.Rating,
		Duration:    req.Duration,
		Poster:      req.Poster,
		Metadata:    datatypes.NewJSONType(meta),
	}
}
