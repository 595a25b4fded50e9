package services

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/models"
	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/repository"
	"golang.org/x/sync/errgroup"
)

const seedConcurrency = 4

// SeedMovieIDs are the IMDb ids imported into an empty catalog.
var SeedMovieIDs = []string{
	"tt0111161", // The Shawshank Redemption
	"tt0068646", // The Godfather
	"tt0468569", // The Dark Knight
	"tt0071562", // The Godfather Part II
	"tt0050083", // 12 Angry Men
	"tt0108052", // Schindler's List
	"tt0167260", // The Return of the King
	"tt0110912", // Pulp Fiction
	"tt0060196", // The Good, the Bad and the Ugly
	"tt0137523", // Fight Club
	"tt0120737", // The Fellowship of the Ring
	"tt0109830", // Forrest Gump
	"tt1375666", // Inception
	"tt0080684", // The Empire Strikes Back
	"tt0167261", // The Two Towers
}

type SeedService struct {
	users       *repository.UserRepository
	movies      *repository.MovieRepository
	hasher      PasswordHasher
	integration *IntegrationService
}

func NewSeedService(users *repository.UserRepository, movies *repository.MovieRepository, hasher PasswordHasher, integration *IntegrationService) *SeedService {
	return &SeedService{users: users, movies: movies, hasher: hasher, integration: integration}
}

// CreateUser adds an active account with the given role.
func (s *SeedService) CreateUser(ctx context.Context, email, password, firstName, lastName string, role models.Role) (*models.User, error) {
	if !role.Valid() {
		return nil, errors.New("unknown role " + string(role))
	}
	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    firstName,
		LastName:     lastName,
		Role:         role,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

// EnsureAdmin creates the admin account unless the email is already taken.
// It reports whether an account was created.
func (s *SeedService) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	_, err := s.CreateUser(ctx, email, password, "Admin", "System", models.RoleAdmin)
	if errors.Is(err, ErrEmailTaken) {
		slog.Info("admin user already exists, skipping creation", "email", email)
		return false, nil
	}
	if err != nil {
		return false, err
	}
	slog.Info("admin user created", "email", email)
	return true, nil
}

// SeedMovies imports ids into an empty catalog and returns how many were
// imported. Individual failures are logged and skipped.
func (s *SeedService) SeedMovies(ctx context.Context, ids []string) (int, error) {
	total, err := s.movies.Total(ctx)
	if err != nil {
		return 0, err
	}
	if total > 0 {
		slog.Info("catalog already populated, skipping movie seed", "count", total)
		return 0, nil
	}

	var imported atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(seedConcurrency)
	for _, id := range ids {
		g.Go(func() error {
			if _, err := s.integration.Import(gctx, id); err != nil {
				slog.Warn("seed import failed", "external_id", id, "error", err)
				return nil
			}
			imported.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return int(imported.Load()), err
	}

	slog.Info("movie seed finished", "imported", imported.Load(), "failed", int64(len(ids))-imported.Load())
	return int(imported.Load()), nil
}
