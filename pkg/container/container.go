package container

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"library-api/internal/config"
	bookHandler "library-api/internal/domains/book/handler"
	bookRepo "library-api/internal/domains/book/repository"
	bookService "library-api/internal/domains/book/service"
	borrowHandler "library-api/internal/domains/borrow/handler"
	borrowRepo "library-api/internal/domains/borrow/repository"
	borrowService "library-api/internal/domains/borrow/service"
	infraCache "library-api/internal/infrastructure/cache"
	"library-api/internal/infrastructure/database"
	"library-api/pkg/cache"
)

// Container holds every dependency of the application.
// All components are singletons wired once at startup; nothing is reached
// through package-level state.
type Container struct {
	// Infrastructure
	Config *config.Config
	DB     *database.PostgresDB
	Redis  *infraCache.RedisClient
	Cache  cache.Cache

	// Repositories
	BookRepo   bookRepo.RepositoryInterface
	BorrowRepo borrowRepo.RepositoryInterface

	// Services
	BookService   bookService.ServiceInterface
	BorrowService borrowService.ServiceInterface

	// Handlers
	BookHandler   *bookHandler.Handler
	BorrowHandler *borrowHandler.Handler
}

// NewContainer initializes the dependency graph in order:
// config, infrastructure, repositories, services, handlers.
func NewContainer() (*Container, error) {
	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg

	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(context.Background()); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db

	redisClient := infraCache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := redisClient.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	c.Redis = redisClient
	c.Cache = infraCache.NewStore(redisClient)

	// Repositories
	c.BookRepo = bookRepo.NewRepository(db.Pool)
	c.BorrowRepo = borrowRepo.NewRepository(db.Pool)

	// Services
	c.BookService = bookService.NewService(c.BookRepo, c.Cache)
	c.BorrowService = borrowService.NewService(c.BorrowRepo, c.Cache)

	// Handlers
	c.BookHandler = bookHandler.NewHandler(c.BookService, c.Cache)
	c.BorrowHandler = borrowHandler.NewHandler(c.BorrowService)

	log.Info().Str("environment", cfg.App.Environment).Msg("container initialized")
	return c, nil
}

// Cleanup releases infrastructure resources in reverse order.
func (c *Container) Cleanup() {
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close redis client")
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
	log.Info().Msg("container cleaned up")
}
