package services

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklist records revoked token IDs until the token would have expired anyway.
type TokenBlacklist interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

const blacklistPrefix = "crt:revoked:"

type RedisBlacklist struct {
	rdb *redis.Client
}

// NewTokenBlacklist returns a Redis-backed blacklist, or nil when rdb is nil.
func NewTokenBlacklist(rdb *redis.Client) TokenBlacklist {
	if rdb == nil {
		return nil
	}
	return &RedisBlacklist{rdb: rdb}
}

func (b *RedisBlacklist) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return b.rdb.Set(ctx, blacklistPrefix+jti, 1, ttl).Err()
}

func (b *RedisBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	err := b.rdb.Get(ctx, blacklistPrefix+jti).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
