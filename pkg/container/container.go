package container

import (
	"context"
	"fmt"
	"time"

	"bookcatalog/internal/config"
	bookHandler "bookcatalog/internal/domains/book/handler"
	bookRepo "bookcatalog/internal/domains/book/repository"
	bookService "bookcatalog/internal/domains/book/service"
	cartHandler "bookcatalog/internal/domains/cart/handler"
	cartModel "bookcatalog/internal/domains/cart/model"
	cartService "bookcatalog/internal/domains/cart/service"
	infraCache "bookcatalog/internal/infrastructure/cache"
	"bookcatalog/internal/infrastructure/database"
	"bookcatalog/pkg/cache"

	"github.com/rs/zerolog/log"
)

// Container wires the catalog's infrastructure, services and handlers.
type Container struct {
	Config *config.Config
	DB     *database.PostgresDB // nil unless STORE_DRIVER=postgres
	Cache  cache.Cache          // nil when the cache is disabled

	BookStore    bookRepo.Store
	BookService  bookService.ServiceInterface
	CartSessions *cartModel.Sessions
	CartService  cartService.ServiceInterface

	BookHandler *bookHandler.Handler
	CartHandler *cartHandler.Handler
}

func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	c := &Container{Config: cfg}

	if err := c.initStore(ctx); err != nil {
		c.Cleanup()
		return nil, err
	}
	c.initCache(ctx)
	c.initServices()
	c.initHandlers()

	log.Info().
		Str("store", cfg.Catalog.StoreDriver).
		Bool("cache", c.Cache != nil).
		Msg("container initialized")
	return c, nil
}

func (c *Container) initStore(ctx context.Context) error {
	switch c.Config.Catalog.StoreDriver {
	case config.StoreDriverPostgres:
		dbConfig, err := c.Config.LoadDatabaseConfig()
		if err != nil {
			return fmt.Errorf("failed to load database config: %w", err)
		}

		db := database.NewPostgresDB(dbConfig)
		connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := db.Connect(connectCtx); err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		c.DB = db

		store := bookRepo.NewPostgresStore(db.Pool)
		if c.Config.Catalog.AutoMigrate {
			if err := store.EnsureSchema(ctx); err != nil {
				return fmt.Errorf("failed to ensure schema: %w", err)
			}
		}
		c.BookStore = store
	default:
		c.BookStore = bookRepo.NewMemoryStore()
	}

	if c.Config.Catalog.Seed {
		n, err := bookRepo.Seed(ctx, c.BookStore, bookRepo.SampleBooks())
		if err != nil {
			return fmt.Errorf("failed to seed catalog: %w", err)
		}
		log.Info().Int("books", n).Msg("catalog seeded")
	}
	return nil
}

// initCache leaves c.Cache nil when Redis cannot be reached; the catalog then reads
// straight from the store.
func (c *Container) initCache(ctx context.Context) {
	if !c.Config.Cache.Enabled {
		return
	}
	rc := infraCache.NewRedisCache(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB)
	if err := rc.Connect(ctx); err != nil {
		log.Warn().Err(err).Msg("redis unavailable, page cache disabled")
		_ = rc.Close()
		return
	}
	c.Cache = rc
}

func (c *Container) initServices() {
	var books bookService.ServiceInterface = bookService.NewService(c.BookStore)
	if c.Cache != nil {
		books = bookService.NewCachedReader(books, c.Cache, c.Config.Cache.TTL)
	}
	c.BookService = books

	c.CartSessions = cartModel.NewSessions()
	c.CartService = cartService.NewCartService(c.CartSessions, c.BookService)
}

func (c *Container) initHandlers() {
	c.BookHandler = bookHandler.NewHandler(c.BookService)
	c.CartHandler = cartHandler.NewHandler(c.CartService)
}

// HealthCheck reports per-dependency status. The store is required; the cache is not.
func (c *Container) HealthCheck(ctx context.Context) (map[string]string, bool) {
	status := map[string]string{"store": "ok", "cache": "disabled"}
	healthy := true

	if c.DB != nil {
		if err := c.DB.HealthCheck(ctx); err != nil {
			status["store"] = err.Error()
			healthy = false
		}
	} else {
		status["store"] = "ok (memory)"
	}

	if c.Cache != nil {
		if err := c.Cache.Ping(ctx); err != nil {
			status["cache"] = err.Error()
		} else {
			status["cache"] = "ok"
		}
	}
	return status, healthy
}

func (c *Container) Cleanup() {
	if c.DB != nil {
		c.DB.Close()
	}
	if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close redis")
		}
	}
}
