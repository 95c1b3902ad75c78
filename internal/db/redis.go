package db

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/contacthub/backend/internal/config"
	"github.com/contacthub/backend/internal/logger"
)

// NewRedisClient connects to Redis. The client backs the contact-count
// cache on the public info endpoint; the service degrades to plain DB
// counts when it is absent, so callers may pass the error up as a
// warning rather than failing startup.
func NewRedisClient(ctx context.Context, log *logger.Logger) (*redis.Client, error) {
	addr := config.GetEnv("REDIS_ADDR", "localhost:6379", log)
	password := config.GetEnv("REDIS_PASSWORD", "", log)
	database := config.GetEnvAsInt("REDIS_DB", 0, log)

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       database,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Info("Redis connection successfully opened", "addr", addr)
	return client, nil
}
