package data

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	pkgredis "github.com/lk2023060901/ai-translator-backend/internal/pkg/redis"
	"github.com/lk2023060901/ai-translator-backend/internal/share/biz"
)

// Store redis 客户端中分享存储用到的部分
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

// RedisShareRepo 以 JSON 存储分享，过期交给 Redis TTL
type RedisShareRepo struct {
	store  Store
	prefix string
}

func NewRedisShareRepo(store Store, prefix string) *RedisShareRepo {
	if prefix == "" {
		prefix = "translator:share:"
	}
	return &RedisShareRepo{store: store, prefix: prefix}
}

func (r *RedisShareRepo) Save(ctx context.Context, share *biz.Share, ttl time.Duration) error {
	payload, err := json.Marshal(share)
	if err != nil {
		return fmt.Errorf("failed to encode share: %w", err)
	}
	if err := r.store.Set(ctx, r.prefix+share.ID, payload, ttl); err != nil {
		return fmt.Errorf("failed to save share: %w", err)
	}
	return nil
}

func (r *RedisShareRepo) Get(ctx context.Context, id string) (*biz.Share, error) {
	val, err := r.store.Get(ctx, r.prefix+id)
	if pkgredis.IsNil(err) {
		return nil, biz.ErrShareNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load share: %w", err)
	}

	var share biz.Share
	if err := json.Unmarshal([]byte(val), &share); err != nil {
		return nil, fmt.Errorf("failed to decode share: %w", err)
	}
	return &share, nil
}
