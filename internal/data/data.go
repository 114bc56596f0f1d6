package data

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/lk2023060901/ai-translator-backend/internal/conf"
	"github.com/lk2023060901/ai-translator-backend/internal/pkg/logger"
	pkgredis "github.com/lk2023060901/ai-translator-backend/internal/pkg/redis"
	sharebiz "github.com/lk2023060901/ai-translator-backend/internal/share/biz"
	sharedata "github.com/lk2023060901/ai-translator-backend/internal/share/data"
	"github.com/lk2023060901/ai-translator-backend/internal/translation/cache"
)

// Data 共享存储资源；Redis 关闭时缓存与分享均使用进程内实现
type Data struct {
	Redis  *pkgredis.Client
	Cache  cache.Cache
	Shares sharebiz.ShareRepo
	Logger *logger.Logger
}

func NewData(config *conf.Config, log *logger.Logger) (*Data, func(), error) {
	d := &Data{Logger: log}

	if config.Redis.Enabled {
		client, err := pkgredis.New(&config.Redis.Config, log)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		d.Redis = client
	}

	cc := config.Translation.Cache
	switch cc.Backend {
	case "redis":
		d.Cache = cache.NewRedisCache(d.Redis, cc.Prefix, cc.Capacity, log)
	default:
		d.Cache = cache.NewMemoryCache(cc.Capacity, cache.Policy(cc.Policy))
	}

	switch config.Share.Backend {
	case "redis":
		d.Shares = sharedata.NewRedisShareRepo(d.Redis, config.Share.Prefix)
	default:
		d.Shares = sharedata.NewMemoryShareRepo()
	}

	log.Info("data layer initialized",
		zap.Bool("redis", d.Redis != nil),
		zap.String("cache_backend", cc.Backend),
		zap.String("share_backend", config.Share.Backend))

	cleanup := func() {
		log.Info("cleaning up data resources")
		if d.Redis != nil {
			_ = d.Redis.Close()
		}
	}

	return d, cleanup, nil
}
