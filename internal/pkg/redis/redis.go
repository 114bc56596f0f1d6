package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/lk2023060901/ai-translator-backend/internal/pkg/logger"
)

// Client Redis 客户端封装
type Client struct {
	config *Config
	logger *logger.Logger
	rdb    redis.UniversalClient
}

// New 创建 Redis 客户端并做一次健康检查
func New(cfg *Config, log *logger.Logger) (*Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Nop()
	}

	opts := &redis.UniversalOptions{
		Addrs:        cfg.addrs(),
		MasterName:   cfg.MasterName,
		Username:     cfg.Username,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolTimeout:  cfg.PoolTimeout,
		MaxRetries:   cfg.MaxRetries,
	}

	var rdb redis.UniversalClient
	switch cfg.Mode {
	case ModeCluster:
		rdb = redis.NewClusterClient(opts.Cluster())
	case ModeSentinel:
		rdb = redis.NewFailoverClient(opts.Failover())
	default:
		rdb = redis.NewClient(opts.Simple())
	}

	client := &Client{
		config: cfg,
		logger: log.Named("redis"),
		rdb:    rdb,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	client.logger.Info("redis client initialized",
		zap.String("mode", string(cfg.Mode)),
		zap.Strings("addrs", cfg.addrs()),
	)

	return client, nil
}

// Ping 健康检查
func (c *Client) Ping(ctx context.Context) error {
	if c.rdb == nil {
		return ErrNotInitialized
	}
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		c.logger.Error("redis ping failed", zap.Error(err))
		return err
	}
	return nil
}

// Close 关闭客户端
func (c *Client) Close() error {
	if c.rdb == nil {
		return nil
	}
	if err := c.rdb.Close(); err != nil {
		c.logger.Error("close redis client failed", zap.Error(err))
		return err
	}
	c.logger.Info("redis client closed")
	return nil
}

// Universal 返回底层客户端（用于 pipeline 等高级操作）
func (c *Client) Universal() redis.UniversalClient {
	return c.rdb
}
