package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins string

	DatabaseURL string
	RedisURL    string

	MeiliSearchHost string
	MeiliMasterKey  string

	CloudinaryUploadFolder string

	JWTSecret string
	JWTTTL    time.Duration

	RateLimitPost time.Duration
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),

		MeiliSearchHost: getEnv("MEILISEARCH_HOST", "http://localhost:7700"),
		MeiliMasterKey:  os.Getenv("MEILI_MASTER_KEY"),

		CloudinaryUploadFolder: getEnv("CLOUDINARY_UPLOAD_FOLDER", "sociable"),

		JWTSecret: getEnv("JWT_SECRET", "12345"),
	}

	var err error
	cfg.JWTTTL, err = time.ParseDuration(getEnv("JWT_TTL", "72h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL: %w", err)
	}
	cfg.RateLimitPost, err = time.ParseDuration(getEnv("RATE_LIMIT_POST", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_POST: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
