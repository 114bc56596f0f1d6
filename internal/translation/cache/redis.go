package cache

import (
	"context"
	"encoding/hex"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"

	"github.com/lk2023060901/ai-translator-backend/internal/pkg/logger"
	pkgredis "github.com/lk2023060901/ai-translator-backend/internal/pkg/redis"
)

// Store RedisCache 用到的 redis 客户端方法
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) (int64, error)
	RPush(ctx context.Context, key string, values ...interface{}) (int64, error)
	LPop(ctx context.Context, key string) (string, error)
	LLen(ctx context.Context, key string) (int64, error)
}

// RedisCache 多副本共享的 FIFO 缓存，语义与 MemoryCache 一致
//
// 条目存于 prefix+digest 键下，插入顺序记录在一个 list 中。
type RedisCache struct {
	store    Store
	prefix   string
	orderKey string
	capacity int
	logger   *logger.Logger
}

func NewRedisCache(store Store, prefix string, capacity int, log *logger.Logger) *RedisCache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if prefix == "" {
		prefix = "translator:cache:"
	}
	if log == nil {
		log = logger.Nop()
	}
	return &RedisCache{
		store:    store,
		prefix:   prefix,
		orderKey: prefix + "order",
		capacity: capacity,
		logger:   log.Named("cache"),
	}
}

func (c *RedisCache) redisKey(key Key) string {
	sum := blake2b.Sum256([]byte(key.String()))
	return c.prefix + hex.EncodeToString(sum[:])
}

// Get redis 出错时视为未命中
func (c *RedisCache) Get(ctx context.Context, key Key) (string, bool) {
	val, err := c.store.Get(ctx, c.redisKey(key))
	if err != nil {
		if !pkgredis.IsNil(err) {
			c.logger.Warn("cache get failed, treating as miss", zap.Error(err))
		}
		return "", false
	}
	return val, true
}

func (c *RedisCache) Set(ctx context.Context, key Key, value string) error {
	k := c.redisKey(key)

	created, err := c.store.SetNX(ctx, k, value, 0)
	if err != nil {
		return err
	}
	if !created {
		return c.store.Set(ctx, k, value, 0)
	}

	n, err := c.store.RPush(ctx, c.orderKey, k)
	if err != nil {
		return err
	}

	for ; n > int64(c.capacity); n-- {
		oldest, err := c.store.LPop(ctx, c.orderKey)
		if err != nil {
			if pkgredis.IsNil(err) {
				return nil
			}
			return err
		}
		if _, err := c.store.Del(ctx, oldest); err != nil {
			return err
		}
	}
	return nil
}

// Len 返回记录的条目数
func (c *RedisCache) Len(ctx context.Context) (int64, error) {
	return c.store.LLen(ctx, c.orderKey)
}
