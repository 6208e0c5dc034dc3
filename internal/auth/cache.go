package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const identityCachePrefix = "cvforge:identity:"

type identityCache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// CachedVerifier remembers accepted tokens in redis for a short TTL.
// Rejections are never cached and cache failures fall through to the inner verifier.
type CachedVerifier struct {
	inner  Verifier
	cache  identityCache
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedVerifier(inner Verifier, cache identityCache, ttl time.Duration, logger *slog.Logger) *CachedVerifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedVerifier{inner: inner, cache: cache, ttl: ttl, logger: logger}
}

func (v *CachedVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	if v.cache == nil || v.ttl <= 0 || token == "" {
		return v.inner.Verify(ctx, token)
	}

	key := identityCacheKey(token)
	if raw, err := v.cache.Get(ctx, key).Bytes(); err == nil {
		var id Identity
		if err := json.Unmarshal(raw, &id); err == nil && id.UserID != "" {
			return &id, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		v.logger.Warn("identity cache read failed", slog.Any("error", err))
	}

	id, err := v.inner.Verify(ctx, token)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(id); err == nil {
		if err := v.cache.Set(ctx, key, payload, v.ttl).Err(); err != nil {
			v.logger.Warn("identity cache write failed", slog.Any("error", err))
		}
	}
	return id, nil
}

// 缓存键只保存令牌摘要，避免明文令牌落入 redis。
func identityCacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return identityCachePrefix + hex.EncodeToString(sum[:])
}
