package main

import (
	"sync"

	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/config"
	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/database"
	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/omdb"
	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/repository"
	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/services"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// commandContext opens the database once per invocation.
type commandContext struct {
	dbOnce sync.Once
	cfg    *config.Config
	db     *gorm.DB
	dbErr  error
}

func newCommandContext() *commandContext {
	return &commandContext{}
}

func (c *commandContext) config() *config.Config {
	if c.cfg == nil {
		c.cfg = config.Load()
	}
	return c.cfg
}

func (c *commandContext) database() (*gorm.DB, error) {
	c.dbOnce.Do(func() {
		c.db, c.dbErr = database.Open(c.config())
	})
	return c.db, c.dbErr
}

func (c *commandContext) close() {
	if c.db != nil {
		_ = database.Close(c.db)
	}
}

func (c *commandContext) seedService(db *gorm.DB) *services.SeedService {
	cfg := c.config()
	users := repository.NewUserRepository(db)
	movies := repository.NewMovieRepository(db)
	catalog := services.NewMovieService(movies, nil, 0, nil)
	provider := omdb.NewClient(cfg.OMDbBaseURL, cfg.OMDbAPIKey, cfg.OMDbTimeout)
	integration := services.NewIntegrationService(movies, provider, catalog)
	return services.NewSeedService(users, movies, services.NewBcryptHasher(bcrypt.DefaultCost), integration)
}
