package database

import (
	"context"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/crt-backend/internal/config"
	"github.com/redis/go-redis/v9"
)

// NewRedis returns a connected client, or nil when Redis is not configured or unreachable.
// Callers treat nil as "feature disabled".
func NewRedis(cfg *config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		slog.Warn("redis unavailable, token blacklist disabled", "addr", cfg.RedisAddr, "error", err)
		_ = client.Close()
		return nil
	}

	slog.Info("redis connected", "addr", cfg.RedisAddr)
	return client
}
