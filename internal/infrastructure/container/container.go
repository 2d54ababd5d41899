// Package container provides dependency injection using Uber FX
package container

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mealforge/v1/internal/application/learning"
	"github.com/mealforge/v1/internal/application/pipeline"
	"github.com/mealforge/v1/internal/application/substitution"
	"github.com/mealforge/v1/internal/application/target"
	"github.com/mealforge/v1/internal/application/validation"
	"github.com/mealforge/v1/internal/infrastructure/ai/openai"
	"github.com/mealforge/v1/internal/infrastructure/ai/static"
	"github.com/mealforge/v1/internal/infrastructure/cache"
	"github.com/mealforge/v1/internal/infrastructure/config"
	gormRepo "github.com/mealforge/v1/internal/infrastructure/persistence/gorm"
	"github.com/mealforge/v1/internal/ports/inbound"
	"github.com/mealforge/v1/internal/ports/outbound"
	"github.com/mealforge/v1/pkg/logger"
)

// Module provides all dependency injection modules
var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	DatabaseModule,
	CacheModule,
	GeneratorModule,
	RepositoryModule,
	ServiceModule,
	LifecycleModule,
)

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func() (*config.Config, error) {
		return config.Load("")
	},
)

// LoggerModule provides logging
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
		})
	},
)

// DatabaseModule provides the GORM database connection
var DatabaseModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
		return gormRepo.NewDatabase(cfg, log)
	},
)

// CacheModule provides the Redis client and its consumers
var CacheModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) *cache.Client {
		return cache.NewClient(&cfg.Redis, log)
	},
	func(client *cache.Client, log *zap.Logger) outbound.RecipeCache {
		return cache.NewRecipeCache(client, log)
	},
	func(client *cache.Client, log *zap.Logger) outbound.SessionStore {
		return cache.NewSessionCache(client, log)
	},
	func(client *cache.Client, cfg *config.Config, log *zap.Logger) outbound.RateLimiter {
		return cache.NewRateLimiter(client, &cfg.RateLimit, log)
	},
)

// GeneratorModule selects the recipe generation collaborator. Without an API
// key the deterministic generator keeps the pipeline fully usable offline.
var GeneratorModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) outbound.RecipeGenerator {
		if cfg.AI.Provider == "openai" && cfg.AI.OpenAIKey != "" {
			return openai.NewClient(&cfg.AI, log)
		}
		log.Info("No generation endpoint configured, using the deterministic generator")
		return static.NewGenerator(log)
	},
)

// RepositoryModule provides persistence adapters
var RepositoryModule = fx.Provide(
	gormRepo.NewRecipeRepository,
	gormRepo.NewUserRepository,
	gormRepo.NewPreferenceRepository,
	gormRepo.NewFeedbackRepository,
)

// ServiceModule provides the application services
var ServiceModule = fx.Provide(
	target.NewCalculator,
	validation.NewValidator,
	substitution.NewSubstituter,
	learning.NewLearner,
	func(cfg *config.Config) pipeline.Config {
		pipeCfg := pipeline.DefaultConfig()
		if cfg.Pipeline.SessionTTL > 0 {
			pipeCfg.SessionTTL = cfg.Pipeline.SessionTTL
		}
		if cfg.Pipeline.RecipeCacheTTL > 0 {
			pipeCfg.RecipeCacheTTL = cfg.Pipeline.RecipeCacheTTL
		}
		return pipeCfg
	},
	fx.Annotate(
		pipeline.NewOrchestrator,
		fx.As(new(inbound.MealPlannerService)),
	),
)

// LifecycleModule closes shared resources on shutdown
var LifecycleModule = fx.Invoke(
	func(lc fx.Lifecycle, client *cache.Client, db *gorm.DB, log *zap.Logger) {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if err := client.Close(); err != nil {
					log.Warn("Redis close failed", zap.Error(err))
				}
				if sqlDB, err := db.DB(); err == nil {
					if err := sqlDB.Close(); err != nil {
						log.Warn("Database close failed", zap.Error(err))
					}
				}
				return nil
			},
		})
	},
)
