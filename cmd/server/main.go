package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/mcoot/flip7/internal/api"
	"github.com/mcoot/flip7/internal/config"
	"github.com/mcoot/flip7/internal/factory"
	"github.com/mcoot/flip7/internal/logging"
	"github.com/mcoot/flip7/internal/registry"
	"github.com/mcoot/flip7/internal/services/auth"
	redisstorage "github.com/mcoot/flip7/internal/storage/redis"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(os.Stdout, cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	app, err := factory.New(factoryConfig(cfg, logger))
	if err != nil {
		return fmt.Errorf("create application: %w", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("close storage", slog.Any("error", err))
		}
	}()

	server := api.NewServer(app.Handler(), api.ServerConfig{
		Host:            cfg.Host,
		Port:            cfg.Port,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)
	server.OnShutdown(app.HubManager.CloseAll)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("server starting",
		slog.String("addr", server.Addr()),
		slog.String("storage", cfg.StorageType),
		slog.Duration("lobby_idle_timeout", cfg.LobbyIdleTimeout),
		slog.Duration("game_idle_timeout", cfg.GameIdleTimeout))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return server.Run(ctx) })
	g.Go(func() error { return app.Reaper.Run(ctx) })
	g.Go(func() error { return app.AuthService.RunCleanup(ctx, app.Ticker) })

	if err := g.Wait(); err != nil {
		logger.Error("server stopped with error", slog.Any("error", err))
		return err
	}

	logger.Info("server stopped")
	return nil
}

func factoryConfig(cfg config.Server, logger *slog.Logger) factory.Config {
	authCfg := auth.DefaultConfig()
	authCfg.SessionDuration = cfg.SessionDuration

	out := factory.Config{
		AuthConfig: authCfg,
		RegistryConfig: registry.Config{
			LobbyIdleTimeout: cfg.LobbyIdleTimeout,
			GameIdleTimeout:  cfg.GameIdleTimeout,
			ReapInterval:     cfg.ReapInterval,
		},
		Logger:      logger,
		StorageType: cfg.StorageType,
	}

	if cfg.StorageType == config.StorageRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		redisCfg.PoolSize = cfg.RedisPoolSize
		redisCfg.ResultTTL = cfg.ResultTTL
		redisCfg.GuestPlayerTTL = cfg.GuestPlayerTTL
		out.RedisConfig = &redisCfg
	}
	return out
}
