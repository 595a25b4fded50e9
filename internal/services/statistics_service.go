package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/cache"
	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/dto"
	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/repository"
)

const DefaultTopDirectors = 10

// StatisticsService reports catalog aggregates over non-deleted movies.
type StatisticsService struct {
	movies   *repository.MovieRepository
	cache    cache.Store
	cacheTTL time.Duration
}

func NewStatisticsService(movies *repository.MovieRepository, store cache.Store, ttl time.Duration) *StatisticsService {
	return &StatisticsService{movies: movies, cache: store, cacheTTL: ttl}
}

func (s *StatisticsService) TotalMovies(ctx context.Context) (int64, error) {
	return cache.Remember(ctx, s.cache, statsCachePrefix+"total", s.cacheTTL, func() (int64, error) {
		return s.movies.Total(ctx)
	})
}

func (s *StatisticsService) Genres(ctx context.Context) ([]dto.GenreCount, error) {
	return cache.Remember(ctx, s.cache, statsCachePrefix+"genres", s.cacheTTL, func() ([]dto.GenreCount, error) {
		return s.movies.GenreCounts(ctx, 0)
	})
}

func (s *StatisticsService) YearsDistribution(ctx context.Context) ([]dto.YearCount, error) {
	return cache.Remember(ctx, s.cache, statsCachePrefix+"years", s.cacheTTL, func() ([]dto.YearCount, error) {
		return s.movies.YearCounts(ctx)
	})
}

func (s *StatisticsService) TopDirectors(ctx context.Context, count int) ([]dto.DirectorCount, error) {
	if count <= 0 {
		count = DefaultTopDirectors
	}
	key := fmt.Sprintf("%sdirectors:%d", statsCachePrefix, count)
	return cache.Remember(ctx, s.cache, key, s.cacheTTL, func() ([]dto.DirectorCount, error) {
		return s.movies.TopDirectors(ctx, count)
	})
}
