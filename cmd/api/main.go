package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/samber/do"
	"github.com/urfave/cli/v2"
	"github.com/zizouhuweidi/trivia/internal/config"
	"github.com/zizouhuweidi/trivia/internal/database"
	"github.com/zizouhuweidi/trivia/internal/domain"
	"github.com/zizouhuweidi/trivia/internal/handler"
	"github.com/zizouhuweidi/trivia/internal/service"
	"github.com/zizouhuweidi/trivia/internal/websocket"
	"golang.org/x/sync/errgroup"
)

func init() {
	//nolint:errcheck
	godotenv.Load()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	container, closeAll := NewContainer(cfg)
	defer closeAll()

	app := &cli.App{
		Name:  "trivia",
		Usage: "trivia questions API",
		Commands: []*cli.Command{
			commandServe(container),
			commandMigrate(container),
			commandSeed(container),
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(os.Args); err != nil {
		do.MustInvoke[*slog.Logger](container).Error("command failed", slog.Any("error", err))
		closeAll()
		os.Exit(1)
	}
}

func commandServe(container *do.Injector) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "start the web server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "serve address, overrides HTTP_ADDR",
			},
		},
		Action: func(c *cli.Context) error {
			cfg := do.MustInvoke[*config.Config](container)
			logger := do.MustInvoke[*slog.Logger](container)

			trivia, err := do.Invoke[*service.TriviaService](container)
			if err != nil {
				return err
			}
			hub := do.MustInvoke[*websocket.Hub](container)

			e := handler.NewRouter(cfg.HTTP, logger,
				handler.NewTriviaHandler(trivia),
				handler.NewWebSocketHandler(hub),
			)

			addr := cfg.HTTP.Addr
			if c.IsSet("addr") {
				addr = c.String("addr")
			}

			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errWg, errCtx := errgroup.WithContext(ctx)

			errWg.Go(func() error {
				hub.Run(errCtx)
				return nil
			})

			errWg.Go(func() error {
				logger.Info("starting server",
					slog.String("addr", addr),
					slog.String("env", cfg.Env),
					slog.String("storage", cfg.Storage),
				)
				if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})

			errWg.Go(func() error {
				<-errCtx.Done()
				logger.Info("shutting down server")

				shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
				defer cancel()
				return e.Shutdown(shutdownCtx)
			})

			return errWg.Wait()
		},
	}
}

func commandMigrate(container *do.Injector) *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "create the database schema",
		Action: func(c *cli.Context) error {
			cfg := do.MustInvoke[*config.Config](container)
			if cfg.Storage != config.StoragePostgres {
				return fmt.Errorf("migrate requires STORAGE_DRIVER=%s", config.StoragePostgres)
			}

			pool, err := do.Invoke[*pgxpool.Pool](container)
			if err != nil {
				return err
			}
			if err := database.Migrate(c.Context, pool); err != nil {
				return err
			}

			do.MustInvoke[*slog.Logger](container).Info("schema applied")
			return nil
		},
	}
}

func commandSeed(container *do.Injector) *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "load the default categories and questions",
		Action: func(c *cli.Context) error {
			cfg := do.MustInvoke[*config.Config](container)
			if cfg.Storage == config.StoragePostgres {
				pool, err := do.Invoke[*pgxpool.Pool](container)
				if err != nil {
					return err
				}
				if err := database.Migrate(c.Context, pool); err != nil {
					return err
				}
			}

			categories, err := do.Invoke[domain.CategoryRepository](container)
			if err != nil {
				return err
			}
			questions, err := do.Invoke[domain.QuestionRepository](container)
			if err != nil {
				return err
			}
			if err := database.Seed(c.Context, categories, questions); err != nil {
				return err
			}

			// drop a category list cached in Redis before the seed ran
			trivia, err := do.Invoke[*service.TriviaService](container)
			if err != nil {
				return err
			}
			if err := trivia.InvalidateCategories(c.Context); err != nil {
				return err
			}

			do.MustInvoke[*slog.Logger](container).Info("seed complete")
			return nil
		},
	}
}
