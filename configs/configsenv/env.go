package configsenv

import (
	"fmt"
	"strings"
	"time"

	"bridebuddy.app/configs/configslog"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every environment-driven setting of the service.
type Config struct {
	AppEnv            string        `env:"APP_ENV" envDefault:"development"`
	HTTPAddr          string        `env:"HTTP_ADDR" envDefault:":8080"`
	DatabaseURL       string        `env:"DATABASE_URL,required,notEmpty"`
	SupabaseJWTSecret string        `env:"SUPABASE_JWT_SECRET,required,notEmpty"`
	RedisURL          string        `env:"REDIS_URL"`
	InviteTTL         time.Duration `env:"INVITE_TTL" envDefault:"168h"`
	RequestTimeout    time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`
	PublicBaseURL     string        `env:"PUBLIC_BASE_URL" envDefault:"https://bridebuddyv2.vercel.app"`
	AcceptInvitePath  string        `env:"ACCEPT_INVITE_PATH" envDefault:"/accept-invite.html"`
	CORSAllowOrigins  string        `env:"CORS_ALLOW_ORIGINS" envDefault:"*"`
	PublicRateLimit   int           `env:"PUBLIC_RATE_LIMIT" envDefault:"60"`
}

// IsProduction reports whether the service runs with production settings.
func (c Config) IsProduction() bool {
	switch strings.ToLower(c.AppEnv) {
	case "prod", "production":
		return true
	}
	return false
}

// Load reads .env (if present) and parses the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		configslog.SLog.Debug(".env file not found, using system environment variables")
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.InviteTTL < 0 {
		return nil, fmt.Errorf("INVITE_TTL must not be negative")
	}
	if cfg.RequestTimeout <= 0 {
		return nil, fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}
	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")
	if cfg.AcceptInvitePath != "" && !strings.HasPrefix(cfg.AcceptInvitePath, "/") {
		cfg.AcceptInvitePath = "/" + cfg.AcceptInvitePath
	}
	return &cfg, nil
}
