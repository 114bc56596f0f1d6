package redis

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// ==================== String Operations ====================

// Set 设置键值（支持过期时间）
func (c *Client) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	err := c.rdb.Set(ctx, key, value, expiration).Err()
	if err != nil {
		c.logger.Error("redis set failed", zap.String("key", key), zap.Error(err))
	}
	return err
}

// Get 获取键值，Key 不存在时返回 ErrNil
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	val, err := c.rdb.Get(ctx, key).Result()
	if err != nil && !IsNil(err) {
		c.logger.Error("redis get failed", zap.String("key", key), zap.Error(err))
	}
	return val, err
}

// Del 删除键
func (c *Client) Del(ctx context.Context, keys ...string) (int64, error) {
	n, err := c.rdb.Del(ctx, keys...).Result()
	if err != nil {
		c.logger.Error("redis del failed", zap.Strings("keys", keys), zap.Error(err))
	}
	return n, err
}

// SetNX 仅在键不存在时设置
func (c *Client) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	ok, err := c.rdb.SetNX(ctx, key, value, expiration).Result()
	if err != nil {
		c.logger.Error("redis setnx failed", zap.String("key", key), zap.Error(err))
	}
	return ok, err
}

// Exists 检查键是否存在
func (c *Client) Exists(ctx context.Context, keys ...string) (int64, error) {
	n, err := c.rdb.Exists(ctx, keys...).Result()
	if err != nil {
		c.logger.Error("redis exists failed", zap.Strings("keys", keys), zap.Error(err))
	}
	return n, err
}

// TTL 获取剩余过期时间
func (c *Client) TTL(ctx context.Context, key string) (time.Duration, error) {
	ttl, err := c.rdb.TTL(ctx, key).Result()
	if err != nil {
		c.logger.Error("redis ttl failed", zap.String("key", key), zap.Error(err))
	}
	return ttl, err
}

// ==================== List Operations ====================

// RPush 从右侧推入
func (c *Client) RPush(ctx context.Context, key string, values ...interface{}) (int64, error) {
	n, err := c.rdb.RPush(ctx, key, values...).Result()
	if err != nil {
		c.logger.Error("redis rpush failed", zap.String("key", key), zap.Error(err))
	}
	return n, err
}

// LPop 从左侧弹出，列表为空时返回 ErrNil
func (c *Client) LPop(ctx context.Context, key string) (string, error) {
	val, err := c.rdb.LPop(ctx, key).Result()
	if err != nil && !IsNil(err) {
		c.logger.Error("redis lpop failed", zap.String("key", key), zap.Error(err))
	}
	return val, err
}

// LLen 获取列表长度
func (c *Client) LLen(ctx context.Context, key string) (int64, error) {
	n, err := c.rdb.LLen(ctx, key).Result()
	if err != nil {
		c.logger.Error("redis llen failed", zap.String("key", key), zap.Error(err))
	}
	return n, err
}
