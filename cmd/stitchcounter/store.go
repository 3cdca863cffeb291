package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ganot/stitchcounter/internal/config"
	"github.com/ganot/stitchcounter/internal/domain/project"
	"github.com/ganot/stitchcounter/internal/redisstore"
	"github.com/ganot/stitchcounter/internal/repository"
	"github.com/ganot/stitchcounter/internal/sqlite"
	"github.com/redis/go-redis/v9"
)

// openStore builds the configured project.Store. The returned close func is
// always non-nil.
func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (project.Store, func(), error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		logger.Warn("using in-memory store; projects are lost on exit")
		return repository.NewMemoryStore(), func() {}, nil

	case config.DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("connect redis %s: %w", cfg.Redis.Addr, err)
		}
		logger.Info("using redis store", "addr", cfg.Redis.Addr, "key", cfg.Redis.Key)
		return redisstore.New(client, cfg.Redis.Key), func() { client.Close() }, nil

	default:
		if err := ensureDBDir(cfg.DB.Path); err != nil {
			return nil, nil, fmt.Errorf("prepare database path: %w", err)
		}
		db, err := sqlite.New(cfg.DB.Path)
		if err != nil {
			return nil, nil, err
		}
		if err := db.RunMigrations(); err != nil {
			db.Close()
			return nil, nil, err
		}
		logger.Info("using sqlite store", "path", cfg.DB.Path)
		return sqlite.NewProjectStore(db), func() { db.Close() }, nil
	}
}

// openService loads config and wires a Service for the local commands.
func openService(ctx context.Context) (*project.Service, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("config error: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cliLogLevel(cfg.Log.Level),
	}))
	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return project.NewService(store, logger), closeStore, nil
}

// cliLogLevel keeps local commands quiet unless debug was asked for.
func cliLogLevel(level string) slog.Level {
	lvl := parseLogLevel(level)
	if lvl == slog.LevelInfo {
		return slog.LevelWarn
	}
	return lvl
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
