package main

import (
	"log"

	"github.com/redis/go-redis/v9"
	"github.com/sociable-dev/sociable/internal/config"
	"github.com/sociable-dev/sociable/internal/entity"
	"github.com/sociable-dev/sociable/internal/server"
	"github.com/sociable-dev/sociable/pkg/database"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	db := database.Connect()
	if err := migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	redisClient := connectRedis(cfg.RedisURL)

	srv := server.NewServer(cfg, db, redisClient)
	if err := srv.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.Follow{},
		&entity.Post{},
		&entity.PostPhoto{},
		&entity.Like{},
		&entity.FeedEntry{},
		&entity.Comment{},
		&entity.Bookmark{},
		&entity.Notification{},
	)
}

// connectRedis returns nil when Redis is not configured or unreachable; the
// services treat a nil client as cache-off and keep serving from the
// database.
func connectRedis(redisURL string) *redis.Client {
	if redisURL == "" {
		log.Println("REDIS_URL not set, running without redis")
		return nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("invalid REDIS_URL, running without redis: %v", err)
		return nil
	}

	return redis.NewClient(opts)
}
