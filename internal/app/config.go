package app

import (
	"strings"
	"time"

	"github.com/oddjobz/oddjobz-backend/internal/logger"
	"github.com/oddjobz/oddjobz-backend/internal/utils"
)

type Config struct {
	Port            string
	BaseURL         string
	AllowedOrigins  []string
	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	ResetTokenTTL   time.Duration
}

func LoadConfig(log *logger.Logger) Config {
	port := utils.GetEnv("PORT", "8080", log)
	baseURL := utils.GetEnv("APP_BASE_URL", "http://localhost:3000", log)
	originsRaw := utils.GetEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000", log)
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTLSeconds := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTLSeconds := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	resetTokenTTLSeconds := utils.GetEnvAsInt("RESET_TOKEN_TTL", 3600, log)

	var origins []string
	for _, o := range strings.Split(originsRaw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	return Config{
		Port:            port,
		BaseURL:         strings.TrimRight(baseURL, "/"),
		AllowedOrigins:  origins,
		JWTSecretKey:    jwtSecretKey,
		AccessTokenTTL:  time.Duration(accessTokenTTLSeconds) * time.Second,
		RefreshTokenTTL: time.Duration(refreshTokenTTLSeconds) * time.Second,
		ResetTokenTTL:   time.Duration(resetTokenTTLSeconds) * time.Second,
	}
}
