package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meikuraledutech/flow"
	"github.com/meikuraledutech/flow/api"
	"github.com/meikuraledutech/flow/editor"
	"github.com/meikuraledutech/flow/internal/config"
	"github.com/meikuraledutech/flow/internal/logger"
	"github.com/meikuraledutech/flow/memory"
	"github.com/meikuraledutech/flow/postgres"
	"github.com/meikuraledutech/flow/redisstore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogConfig, os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx := context.Background()
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("store", cfg.Store).Msg("open store")
	}
	defer closeStore()

	if err := store.CreateSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("create schema")
	}

	hub := api.NewHub(store, log,
		editor.WithHistoryLimit(cfg.HistoryLimit),
		editor.WithLayout(cfg.LayoutConfig.Options()),
	)
	app := api.New(hub)

	// ── Schema ────────────────────────────────────────────────────────
	app.Post("/schema", func(c fiber.Ctx) error {
		if err := store.CreateSchema(c.Context()); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"message": "schema created"})
	})

	app.Delete("/schema", func(c fiber.Ctx) error {
		if err := store.DropSchema(c.Context()); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"message": "schema dropped"})
	})

	log.Info().Str("addr", cfg.Addr).Str("store", cfg.Store).Msg("listening")
	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatal().Err(err).Msg("listen")
	}
}

// openStore builds the configured Store and returns a func that releases it.
func openStore(ctx context.Context, cfg *config.Config) (flow.Store, func(), error) {
	switch cfg.Store {
	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect: %w", err)
		}
		return postgres.New(pool), pool.Close, nil
	case "redis":
		s, err := redisstore.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	default:
		return memory.New(), func() {}, nil
	}
}
