package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const blacklistPrefix = "blacklist:"

// Blacklist stores revoked tokens in Redis until their natural expiry.
// Logout writes both tokens here; the auth middleware and the refresh
// endpoint check membership before trusting a token.
type Blacklist struct {
	client redis.Cmdable
}

func NewBlacklist(client redis.Cmdable) *Blacklist {
	return &Blacklist{client: client}
}

// Add revokes a token for ttl. Tokens already past their expiry need no entry.
func (b *Blacklist) Add(ctx context.Context, token string, ttl time.Duration) error {
	if token == "" || ttl <= 0 {
		return nil
	}
	return b.client.Set(ctx, blacklistPrefix+token, "revoked", ttl).Err()
}

// AddPair revokes an access/refresh token pair with their respective TTLs.
func (b *Blacklist) AddPair(ctx context.Context, accessToken, refreshToken string) error {
	if err := b.Add(ctx, accessToken, AccessTokenTTL); err != nil {
		return err
	}
	return b.Add(ctx, refreshToken, RefreshTokenTTL)
}

// Contains reports whether the token has been revoked.
func (b *Blacklist) Contains(ctx context.Context, token string) (bool, error) {
	n, err := b.client.Exists(ctx, blacklistPrefix+token).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
