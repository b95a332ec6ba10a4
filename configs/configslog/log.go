package configslog

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is used for structured error/warn records, SLog for progress messages.
// Both are no-ops until InitLogger is called.
var (
	Log  = zap.NewNop()
	SLog = Log.Sugar()
)

var hashSalt string

// InitLogger builds the zap logger according to APP_ENV.
func InitLogger() {
	var cfg zap.Config
	switch strings.ToLower(strings.TrimSpace(os.Getenv("APP_ENV"))) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	logger, err := cfg.Build(zap.AddCaller())
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	hashSalt = strings.TrimSpace(os.Getenv("LOG_HASH_SALT"))

	Log = logger
	SLog = logger.Sugar()
}

// SyncLogger flushes buffered entries.
func SyncLogger() {
	_ = Log.Sync()
}

// Token never writes an invite or bearer token in plaintext.
func Token(key, token string) zap.Field {
	if token == "" {
		return zap.String(key, "")
	}
	return zap.String(key, "[REDACTED]")
}

// UserID logs a salted short digest of the id so records of the same user
// can be correlated without exposing the identifier.
func UserID(key string, id uuid.UUID) zap.Field {
	if id == uuid.Nil {
		return zap.String(key, "")
	}
	return zap.String(key, HashValue(id.String()))
}

// HashValue returns the salted short digest used by UserID.
func HashValue(raw string) string {
	h := sha256.New()
	if hashSalt != "" {
		_, _ = h.Write([]byte(hashSalt))
	}
	_, _ = h.Write([]byte(raw))
	return "hash:" + hex.EncodeToString(h.Sum(nil))[:12]
}
