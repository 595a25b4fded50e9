package repository

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/dto"
	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNoMovies is returned by Random when there is nothing to pick from.
var ErrNoMovies = errors.New("no movies available")

type MovieRepository struct {
	db   *gorm.DB
	intN func(n int) int
}

func NewMovieRepository(db *gorm.DB) *MovieRepository {
	return &MovieRepository{db: db, intN: rand.IntN}
}

// GetByID ignores soft-deleted movies.
func (r *MovieRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Movie, error) {
	var movie models.Movie
	err := r.db.WithContext(ctx).Scopes(Active).First(&movie, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, "get movie")
	}
	return &movie, nil
}

// GetByExternalID also returns soft-deleted movies so imports can tell a
// removed record from one that never existed.
func (r *MovieRepository) GetByExternalID(ctx context.Context, externalID string) (*models.Movie, error) {
	if externalID == "" {
		return nil, ErrNotFound
	}
	var movie models.Movie
	err := r.db.WithContext(ctx).
		Where("external_id = ?", externalID).
		Order("is_deleted").
		First(&movie).Error
	if err != nil {
		return nil, translate(err, "get movie by external id")
	}
	return &movie, nil
}

func (r *MovieRepository) List(ctx context.Context, f MovieFilter, page, pageSize int) ([]models.Movie, error) {
	var movies []models.Movie
	err := r.db.WithContext(ctx).
		Scopes(Filtered(f), NewestFirst, Paginate(page, pageSize)).
		Find(&movies).Error
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	return movies, nil
}

func (r *MovieRepository) Count(ctx context.Context, f MovieFilter) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Movie{}).Scopes(Filtered(f)).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count movies: %w", err)
	}
	return n, nil
}

func (r *MovieRepository) Total(ctx context.Context) (int64, error) {
	return r.Count(ctx, MovieFilter{})
}

// Random picks uniformly from the non-deleted movies.
func (r *MovieRepository) Random(ctx context.Context) (*models.Movie, error) {
	n, err := r.Total(ctx)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrNoMovies
	}

	var movies []models.Movie
	err = r.db.WithContext(ctx).
		Scopes(Active).
		Order("id").
		Offset(r.intN(int(n))).
		Limit(1).
		Find(&movies).Error
	if err != nil {
		return nil, fmt.Errorf("random movie: %w", err)
	}
	// rows removed between count and fetch
	if len(movies) == 0 {
		return nil, ErrNoMovies
	}
	return &movies[0], nil
}

// TopRatedByGenre returns up to n movies of genre, best rated first.
func (r *MovieRepository) TopRatedByGenre(ctx context.Context, genre string, n int) ([]models.Movie, error) {
	var movies []models.Movie
	err := r.db.WithContext(ctx).
		Scopes(Filtered(MovieFilter{Genre: genre})).
		Order("rating DESC").
		Order("created_at DESC").
		Limit(n).
		Find(&movies).Error
	if err != nil {
		return nil, fmt.Errorf("top rated movies: %w", err)
	}
	return movies, nil
}

// GenreCounts tallies genres across non-deleted movies, most frequent first.
// A limit of zero or less returns every genre.
func (r *MovieRepository) GenreCounts(ctx context.Context, limit int) ([]dto.GenreCount, error) {
	var movies []models.Movie
	if err := r.db.WithContext(ctx).Scopes(Active).Select("genres").Find(&movies).Error; err != nil {
		return nil, fmt.Errorf("load genres: %w", err)
	}

	tally := make(map[string]int64)
	for _, m := range movies {
		for _, g := range m.Genres {
			tally[g]++
		}
	}

	out := make([]dto.GenreCount, 0, len(tally))
	for g, c := range tally {
		out = append(out, dto.GenreCount{Genre: g, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Genre < out[j].Genre
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// YearCounts returns the number of movies per release year, newest year first.
func (r *MovieRepository) YearCounts(ctx context.Context) ([]dto.YearCount, error) {
	var out []dto.YearCount
	err := r.db.WithContext(ctx).Model(&models.Movie{}).
		Scopes(Active).
		Select("year, COUNT(*) AS count").
		Group("year").
		Order("year DESC").
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("count movies by year: %w", err)
	}
	return out, nil
}

// TopDirectors returns the k directors with the most movies.
func (r *MovieRepository) TopDirectors(ctx context.Context, k int) ([]dto.DirectorCount, error) {
	var out []dto.DirectorCount
	err := r.db.WithContext(ctx).Model(&models.Movie{}).
		Scopes(Active).
		Where("director <> ?", "").
		Select("director, COUNT(*) AS count").
		Group("director").
		Order("count DESC").
		Order("director").
		Limit(k).
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("count movies by director: %w", err)
	}
	return out, nil
}

func (r *MovieRepository) Create(ctx context.Context, movie *models.Movie) error {
	if err := r.db.WithContext(ctx).Create(movie).Error; err != nil {
		return translate(err, "create movie")
	}
	return nil
}

// Update replaces every field of a non-deleted movie.
func (r *MovieRepository) Update(ctx context.Context, movie *models.Movie) error {
	result := r.db.WithContext(ctx).Model(movie).
		Scopes(Active).
		Select("*").
		Omit("id", "created_at", "is_deleted").
		Updates(movie)
	if result.Error != nil {
		return translate(result.Error, "update movie")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Restore replaces every field of a movie and clears its soft-delete flag.
func (r *MovieRepository) Restore(ctx context.Context, movie *models.Movie) error {
	movie.IsDeleted = false
	result := r.db.WithContext(ctx).Model(movie).
		Select("*").
		Omit("id", "created_at").
		Updates(movie)
	if result.Error != nil {
		return translate(result.Error, "restore movie")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SoftDelete flags the movie as deleted. It reports false when there was no
// live movie with that id.
func (r *MovieRepository) SoftDelete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Movie{}).
		Where("id = ?", id).
		Scopes(Active).
		Updates(map[string]any{"is_deleted": true, "updated_at": time.Now()})
	if result.Error != nil {
		return false, fmt.Errorf("soft delete movie: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *MovieRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Movie{}).
		Scopes(Active).
		Where("id = ?", id).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("movie exists: %w", err)
	}
	return n > 0, nil
}
