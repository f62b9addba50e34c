package app

import (
	"time"

	"github.com/3-da/sharedbudget-backend/internal/platform/logger"
	"github.com/3-da/sharedbudget-backend/internal/utils"
)

type Config struct {
	JWTSecretKey       string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
	DeletionRequestTTL time.Duration
	KVBackend          string
	Port               string
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTLSeconds := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTLSeconds := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	deletionRequestTTLSeconds := utils.GetEnvAsInt("DELETE_REQUEST_TTL", 7*24*3600, log)
	kvBackend := utils.GetEnv("KV_BACKEND", "redis", log)
	port := utils.GetEnv("PORT", "8080", log)
	return Config{
		JWTSecretKey:       jwtSecretKey,
		AccessTokenTTL:     time.Duration(accessTokenTTLSeconds) * time.Second,
		RefreshTokenTTL:    time.Duration(refreshTokenTTLSeconds) * time.Second,
		DeletionRequestTTL: time.Duration(deletionRequestTTLSeconds) * time.Second,
		KVBackend:          kvBackend,
		Port:               port,
	}
}
