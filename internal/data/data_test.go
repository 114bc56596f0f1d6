package data

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lk2023060901/ai-translator-backend/internal/conf"
	"github.com/lk2023060901/ai-translator-backend/internal/pkg/logger"
	sharedata "github.com/lk2023060901/ai-translator-backend/internal/share/data"
	"github.com/lk2023060901/ai-translator-backend/internal/translation/cache"
)

func TestNewDataMemoryBackends(t *testing.T) {
	config := conf.Default()

	d, cleanup, err := NewData(config, logger.Nop())
	require.NoError(t, err)
	defer cleanup()

	assert.Nil(t, d.Redis)
	assert.IsType(t, &cache.MemoryCache{}, d.Cache)
	assert.IsType(t, &sharedata.MemoryShareRepo{}, d.Shares)
}

func TestNewDataRedisUnreachable(t *testing.T) {
	config := conf.Default()
	config.Redis.Enabled = true
	config.Redis.Addr = "127.0.0.1:1"
	config.Redis.DialTimeout = 50 * time.Millisecond
	config.Redis.MaxRetries = -1

	_, _, err := NewData(config, logger.Nop())
	assert.Error(t, err)
}
