package app

import (
	"time"

	"github.com/atlaslearn/atlas-backend/internal/platform/envutil"
)

type Config struct {
	ServiceName     string
	Environment     string
	Version         string
	Port            string
	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	SnapshotTTL     time.Duration
}

func LoadConfig() Config {
	return Config{
		ServiceName:     envutil.String("SERVICE_NAME", "atlas-backend"),
		Environment:     envutil.String("ENVIRONMENT", "development"),
		Version:         envutil.String("SERVICE_VERSION", "dev"),
		Port:            envutil.String("PORT", "8080"),
		JWTSecretKey:    envutil.String("JWT_SECRET_KEY", "defaultsecret"),
		AccessTokenTTL:  envutil.Duration("ACCESS_TOKEN_TTL", time.Hour),
		RefreshTokenTTL: envutil.Duration("REFRESH_TOKEN_TTL", 24*time.Hour),
		SnapshotTTL:     envutil.Duration("ROADMAP_SNAPSHOT_TTL", 24*time.Hour),
	}
}
