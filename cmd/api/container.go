package main

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/zizouhuweidi/trivia/internal/caching"
	"github.com/zizouhuweidi/trivia/internal/config"
	"github.com/zizouhuweidi/trivia/internal/database"
	"github.com/zizouhuweidi/trivia/internal/domain"
	"github.com/zizouhuweidi/trivia/internal/repository/memory"
	"github.com/zizouhuweidi/trivia/internal/repository/postgres"
	"github.com/zizouhuweidi/trivia/internal/service"
	"github.com/zizouhuweidi/trivia/internal/websocket"
)

const connectTimeout = 10 * time.Second

// closers collects the release functions of opened connections
type closers struct {
	mu  sync.Mutex
	fns []func()
}

func (c *closers) add(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fns = append(c.fns, fn)
}

func (c *closers) closeAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.fns) - 1; i >= 0; i-- {
		c.fns[i]()
	}
	c.fns = nil
}

// NewContainer wires the application services. The returned function closes
// every connection the container opened.
func NewContainer(cfg *config.Config) (*do.Injector, func()) {
	injector := do.New()
	opened := &closers{}

	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, config.NewLogger(cfg.Env))

	do.Provide(injector, func(i *do.Injector) (*pgxpool.Pool, error) {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()

		pool, err := database.ConnectPostgres(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		opened.add(pool.Close)
		return pool, nil
	})

	do.Provide(injector, func(i *do.Injector) (*redis.Client, error) {
		client, err := database.ConnectRedis(context.Background(), cfg.Redis)
		if err != nil {
			return nil, err
		}
		opened.add(func() {
			//nolint:errcheck
			client.Close()
		})
		return client, nil
	})

	do.Provide(injector, func(i *do.Injector) (caching.Cache, error) {
		if !cfg.Redis.Enabled {
			return caching.NewCacheRedis(nil, cfg.Cache.CategoriesTTL), nil
		}

		client, err := do.Invoke[*redis.Client](i)
		if err != nil {
			return nil, err
		}
		return caching.NewCacheRedis(client, cfg.Cache.CategoriesTTL), nil
	})

	do.Provide(injector, func(i *do.Injector) (*memory.Store, error) {
		store := memory.NewStore()
		if err := database.Seed(context.Background(), store.Categories(), store.Questions()); err != nil {
			return nil, err
		}
		return store, nil
	})

	do.Provide(injector, func(i *do.Injector) (domain.CategoryRepository, error) {
		if cfg.Storage == config.StorageMemory {
			store, err := do.Invoke[*memory.Store](i)
			if err != nil {
				return nil, err
			}
			return store.Categories(), nil
		}

		pool, err := do.Invoke[*pgxpool.Pool](i)
		if err != nil {
			return nil, err
		}
		return postgres.NewCategoryRepository(pool), nil
	})

	do.Provide(injector, func(i *do.Injector) (domain.QuestionRepository, error) {
		if cfg.Storage == config.StorageMemory {
			store, err := do.Invoke[*memory.Store](i)
			if err != nil {
				return nil, err
			}
			return store.Questions(), nil
		}

		pool, err := do.Invoke[*pgxpool.Pool](i)
		if err != nil {
			return nil, err
		}
		return postgres.NewQuestionRepository(pool), nil
	})

	do.Provide(injector, func(i *do.Injector) (*websocket.Hub, error) {
		return websocket.NewHub(do.MustInvoke[*slog.Logger](i)), nil
	})

	do.Provide(injector, func(i *do.Injector) (*service.TriviaService, error) {
		categories, err := do.Invoke[domain.CategoryRepository](i)
		if err != nil {
			return nil, err
		}
		questions, err := do.Invoke[domain.QuestionRepository](i)
		if err != nil {
			return nil, err
		}
		cache, err := do.Invoke[caching.Cache](i)
		if err != nil {
			return nil, err
		}

		return service.NewTriviaService(
			categories,
			questions,
			cache,
			cfg.Cache.CategoriesTTL,
			do.MustInvoke[*websocket.Hub](i),
			nil,
		), nil
	})

	return injector, opened.closeAll
}
