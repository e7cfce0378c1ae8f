package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Blacklist records revoked token ids until the tokens would have expired.
type Blacklist interface {
	Add(ctx context.Context, tokenID string, ttl time.Duration) error
	Contains(ctx context.Context, tokenID string) (bool, error)
}

const blacklistPrefix = "blacklist:"

// RedisBlacklist stores one "blacklist:{jti}" key per revoked token with a TTL
// equal to the token's remaining lifetime.
type RedisBlacklist struct {
	client redis.Cmdable
}

// NewRedisBlacklist wraps a client owned by the caller; closing the client is
// the caller's job.
func NewRedisBlacklist(client redis.Cmdable) *RedisBlacklist {
	return &RedisBlacklist{client: client}
}

func (b *RedisBlacklist) Add(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		// Already expired; signature validation rejects it anyway.
		return nil
	}
	return b.client.Set(ctx, blacklistPrefix+tokenID, "1", ttl).Err()
}

func (b *RedisBlacklist) Contains(ctx context.Context, tokenID string) (bool, error) {
	n, err := b.client.Exists(ctx, blacklistPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
