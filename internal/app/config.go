package app

import (
	"time"

	"github.com/aumugisha-umu/seido-backend/internal/pkg/envutil"
	"github.com/aumugisha-umu/seido-backend/internal/pkg/logger"
)

type Config struct {
	Port string

	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	SideEffectQueueSize   int
	SideEffectWorkerCount int
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:                  envutil.String("PORT", "8080"),
		JWTSecretKey:          envutil.String("JWT_SECRET_KEY", "defaultsecret"),
		AccessTokenTTL:        time.Duration(envutil.Int("ACCESS_TOKEN_TTL", 3600)) * time.Second,
		RefreshTokenTTL:       time.Duration(envutil.Int("REFRESH_TOKEN_TTL", 86400)) * time.Second,
		SideEffectQueueSize:   envutil.Int("SIDE_EFFECT_QUEUE_SIZE", 256),
		SideEffectWorkerCount: envutil.Int("SIDE_EFFECT_WORKERS", 4),
	}
	if cfg.JWTSecretKey == "defaultsecret" {
		log.Warn("JWT_SECRET_KEY not set, using insecure default")
	}
	return cfg
}
