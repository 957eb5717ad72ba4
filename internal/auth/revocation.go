package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Revocations remembers logged-out token ids until the tokens expire.
type Revocations interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

const revokedKeyPrefix = "helpdesk:revoked:"

// RedisRevocations stores revoked token ids as Redis keys expiring with the
// token.
type RedisRevocations struct {
	client redis.Cmdable
	now    func() time.Time
}

// NewRedisRevocations builds the denylist on client.
func NewRedisRevocations(client redis.Cmdable) *RedisRevocations {
	return &RedisRevocations{client: client, now: time.Now}
}

func (r *RedisRevocations) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, revokedKeyPrefix+tokenID, "1", ttl).Err()
}

func (r *RedisRevocations) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, revokedKeyPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// NoopRevocations is used when Redis is disabled; logout then only drops the
// token client-side.
type NoopRevocations struct{}

func (NoopRevocations) Revoke(context.Context, string, time.Time) error { return nil }

func (NoopRevocations) IsRevoked(context.Context, string) (bool, error) { return false, nil }
