package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/recipehelper/backend/config"
	"github.com/recipehelper/backend/internal/domain"
	"github.com/recipehelper/backend/internal/infrastructure/assistant"
	"github.com/recipehelper/backend/internal/infrastructure/cache"
	"github.com/recipehelper/backend/internal/infrastructure/catalog"
	"github.com/recipehelper/backend/internal/infrastructure/storage"
	"github.com/recipehelper/backend/internal/observability"
	"github.com/recipehelper/backend/internal/pkg/logger"
	"github.com/recipehelper/backend/internal/usecase"
	"go.uber.org/zap"
)

// app holds everything the subcommands share. Built by newApp, torn down by Close.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	metrics *observability.Metrics
	recipes *usecase.RecipeService
	closers []func() error
}

// loadConfigAndLogger is the part of startup every subcommand needs.
// interactive marks commands whose stdout shares the terminal with the logs.
func loadConfigAndLogger(interactive bool) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	level := cfg.Log.Level
	if interactive {
		level = interactiveLogLevel(level)
	}

	log, err := logger.New(level, cfg.Log.Format)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, log, nil
}

// interactiveLogLevel keeps routine startup lines out of the dialogue.
// Only an explicit debug level is honored; info and below become warn.
func interactiveLogLevel(level string) string {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return "warn"
	default:
		return level
	}
}

// newApp loads config, the catalog and all infrastructure, and wires the
// recipe service
func newApp(ctx context.Context, interactive bool) (*app, error) {
	cfg, log, err := loadConfigAndLogger(interactive)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: log, metrics: observability.NewMetrics()}

	recipes, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return nil, err
	}
	log.Info("catalog loaded", zap.String("path", cfg.Catalog.Path), zap.Int("recipes", recipes.Len()))

	suggestionCache := a.buildCache(ctx)
	store := storage.NewFileStore(cfg.Storage.SavedPath, cfg.Storage.CardsDir, log)

	a.recipes = usecase.NewRecipeService(
		recipes,
		suggestionCache,
		store,
		a.buildAssistant(),
		a.metrics,
		log,
		usecase.RecipeServiceConfig{
			MinMatch:           cfg.Matching.MinMatch,
			WindowSize:         cfg.Matching.WindowSize,
			CacheTTL:           cfg.Cache.TTL,
			EnableDebugLogging: cfg.Matching.EnableDebugLogging,
		},
	)

	log.Debug("matching configured",
		zap.Int("min_match", cfg.Matching.MinMatch),
		zap.Int("window", cfg.Matching.WindowSize),
		zap.Bool("debug", cfg.Matching.EnableDebugLogging),
	)

	return a, nil
}

// buildCache connects the configured cache. An unreachable Redis falls back
// to the in-memory cache so the helper keeps working.
func (a *app) buildCache(ctx context.Context) domain.CacheRepository {
	if a.cfg.Cache.Type == "redis" {
		dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		redisCache, err := cache.NewRedisCache(dialCtx, a.cfg.Cache.RedisURL)
		if err == nil {
			a.closers = append(a.closers, redisCache.Close)
			a.logger.Info("using redis suggestion cache", zap.Duration("ttl", a.cfg.Cache.TTL))
			return redisCache
		}
		a.logger.Warn("redis unavailable, falling back to memory cache", zap.Error(err))
	}

	memoryCache := cache.NewMemoryCache(10 * time.Minute)
	a.closers = append(a.closers, memoryCache.Close)
	a.logger.Debug("using memory suggestion cache", zap.Duration("ttl", a.cfg.Cache.TTL))
	return memoryCache
}

// buildAssistant returns nil when no API key is configured
func (a *app) buildAssistant() domain.Assistant {
	ac := a.cfg.Assistant
	client, err := assistant.NewClient(assistant.Config{
		APIKey:      ac.APIKey,
		BaseURL:     ac.BaseURL,
		Model:       ac.Model,
		Timeout:     ac.Timeout,
		MaxTokens:   ac.MaxTokens,
		Temperature: ac.Temperature,
		RatePerSec:  a.cfg.RateLimit.Assistant,
	}, a.logger)
	if err != nil {
		a.logger.Info("assistant disabled", zap.Error(err))
		return nil
	}

	if a.cfg.Server.Environment == "development" && a.cfg.Log.Level == "debug" {
		client.SetDebug(true)
	}
	a.logger.Info("assistant enabled", zap.String("model", ac.Model), zap.String("base_url", ac.BaseURL))
	return client
}

// Close releases caches and flushes the logger
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("close failed", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
