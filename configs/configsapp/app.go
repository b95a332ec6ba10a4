// Package configsapp assembles the application from configuration. Both the
// long-running server and the Lambda entry point start here.
package configsapp

import (
	"context"
	"fmt"

	"bridebuddy.app/configs/configsdatabase"
	"bridebuddy.app/configs/configsenv"
	"bridebuddy.app/configs/configslog"
	"bridebuddy.app/configs/configsredis"
	"bridebuddy.app/pkg/identity"
	"bridebuddy.app/pkg/redisstore"
	"bridebuddy.app/routes"
	"bridebuddy.app/services"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App is a running application and the resources it owns.
type App struct {
	Fiber *fiber.App
	DB    *gorm.DB
	Redis *redis.Client
}

// Build opens the database and optional redis connection and wires every
// service and route. proxyHeader is passed to fiber for client IP resolution.
func Build(ctx context.Context, cfg *configsenv.Config, proxyHeader string) (*App, error) {
	db, err := configsdatabase.Open(cfg.DatabaseURL, cfg.IsProduction())
	if err != nil {
		return nil, err
	}

	appCfg := routes.AppConfig{
		CORSAllowOrigins: cfg.CORSAllowOrigins,
		PublicRateLimit:  cfg.PublicRateLimit,
		ProxyHeader:      proxyHeader,
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = configsredis.Open(ctx, cfg.RedisURL)
		if err != nil {
			// Rate limiting degrades to per-instance counters.
			configslog.Log.Warn("Redis unavailable, using in-memory rate limit storage", zap.Error(err))
		} else {
			appCfg.LimiterStorage = redisstore.New(rdb, "")
		}
	}

	registry := services.NewRegistry(db, identity.NewJWTProvider(cfg.SupabaseJWTSecret), services.InviteConfig{
		TTL:           cfg.InviteTTL,
		PublicBaseURL: cfg.PublicBaseURL,
		AcceptPath:    cfg.AcceptInvitePath,
	})

	return &App{Fiber: routes.NewApp(appCfg, registry), DB: db, Redis: rdb}, nil
}

// Close releases the database and redis connections.
func (a *App) Close() {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			configslog.Log.Warn("Redis close failed", zap.Error(err))
		}
	}
	configsdatabase.Close(a.DB)
}

// MustLoad loads configuration and initialises the logger, or exits.
func MustLoad() *configsenv.Config {
	configslog.InitLogger()
	cfg, err := configsenv.Load()
	if err != nil {
		configslog.Log.Fatal("Configuration could not be loaded", zap.Error(fmt.Errorf("configsapp: %w", err)))
	}
	return cfg
}
