package redis

import (
	"errors"
	"time"
)

// DeployMode Redis 部署模式
type DeployMode string

const (
	ModeSingle   DeployMode = "single"   // 单机模式
	ModeSentinel DeployMode = "sentinel" // 哨兵模式
	ModeCluster  DeployMode = "cluster"  // 集群模式
)

// Config Redis 配置
type Config struct {
	Mode DeployMode `mapstructure:"mode" yaml:"mode"`

	// 单机模式
	Addr string `mapstructure:"addr" yaml:"addr"`

	// 哨兵模式
	SentinelAddrs []string `mapstructure:"sentinel_addrs" yaml:"sentinel_addrs"`
	MasterName    string   `mapstructure:"master_name" yaml:"master_name"`

	// 集群模式
	ClusterAddrs []string `mapstructure:"cluster_addrs" yaml:"cluster_addrs"`

	// 认证
	Username string `mapstructure:"username" yaml:"username"`
	Password string `mapstructure:"password" yaml:"password"`
	DB       int    `mapstructure:"db" yaml:"db"`

	// 连接池
	PoolSize     int `mapstructure:"pool_size" yaml:"pool_size"`
	MinIdleConns int `mapstructure:"min_idle_conns" yaml:"min_idle_conns"`

	// 超时
	DialTimeout  time.Duration `mapstructure:"dial_timeout" yaml:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	PoolTimeout  time.Duration `mapstructure:"pool_timeout" yaml:"pool_timeout"`

	MaxRetries int `mapstructure:"max_retries" yaml:"max_retries"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		Mode:         ModeSingle,
		Addr:         "localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolTimeout:  4 * time.Second,
		MaxRetries:   3,
	}
}

// Validate 验证配置
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeSingle:
		if c.Addr == "" {
			return errors.New("redis: addr is required in single mode")
		}
	case ModeSentinel:
		if len(c.SentinelAddrs) == 0 {
			return errors.New("redis: sentinel_addrs is required in sentinel mode")
		}
		if c.MasterName == "" {
			return errors.New("redis: master_name is required in sentinel mode")
		}
	case ModeCluster:
		if len(c.ClusterAddrs) == 0 {
			return errors.New("redis: cluster_addrs is required in cluster mode")
		}
	default:
		return errors.New("redis: invalid mode, must be one of: single, sentinel, cluster")
	}

	if c.DB < 0 || c.DB > 15 {
		return errors.New("redis: db must be between 0 and 15")
	}
	if c.PoolSize <= 0 {
		return errors.New("redis: pool_size must be > 0")
	}
	if c.MinIdleConns < 0 || c.MinIdleConns > c.PoolSize {
		return errors.New("redis: min_idle_conns must be between 0 and pool_size")
	}
	if c.DialTimeout <= 0 {
		return errors.New("redis: dial_timeout must be > 0")
	}
	if c.ReadTimeout < 0 || c.WriteTimeout < 0 {
		return errors.New("redis: read/write timeout must be >= 0")
	}
	if c.MaxRetries < 0 {
		return errors.New("redis: max_retries must be >= 0")
	}

	return nil
}

// addrs 返回当前模式下的节点地址
func (c *Config) addrs() []string {
	switch c.Mode {
	case ModeSentinel:
		return c.SentinelAddrs
	case ModeCluster:
		return c.ClusterAddrs
	default:
		return []string{c.Addr}
	}
}
