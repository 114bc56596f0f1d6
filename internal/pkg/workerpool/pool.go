package workerpool

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/lk2023060901/ai-translator-backend/internal/pkg/logger"
)

var (
	ErrPoolClosed   = errors.New("worker pool is closed")
	ErrPoolOverload = errors.New("worker pool is overloaded")
)

// TaskResult 任务结果
type TaskResult struct {
	Data  interface{}
	Error error
}

// Config Worker Pool 配置
type Config struct {
	Workers          int           `mapstructure:"workers"`            // worker 数量
	MaxBlockingTasks int           `mapstructure:"max_blocking_tasks"` // 阻塞等待的最大任务数(0 不限制)
	Nonblocking      bool          `mapstructure:"nonblocking"`        // 池满时直接返回 ErrPoolOverload
	ExpiryDuration   time.Duration `mapstructure:"expiry_duration"`    // 空闲 worker 回收间隔
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	return &Config{
		Workers:          8,
		MaxBlockingTasks: 64,
		ExpiryDuration:   time.Minute,
	}
}

// Statistics 统计信息
type Statistics struct {
	Submitted int64 // 已提交
	Completed int64 // 已完成
	Panicked  int64 // panic 次数
	Rejected  int64 // 被拒绝
}

// Pool 基于 ants 的 Worker Pool
type Pool struct {
	pool   *ants.Pool
	config *Config
	logger *logger.Logger

	submitted atomic.Int64
	completed atomic.Int64
	panicked  atomic.Int64
	rejected  atomic.Int64
}

// New 创建 Worker Pool
func New(config *Config, log *logger.Logger) (*Pool, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Workers <= 0 {
		return nil, fmt.Errorf("workers must be positive, got %d", config.Workers)
	}
	if log == nil {
		log = logger.Nop()
	}

	p := &Pool{
		config: config,
		logger: log.Named("workerpool"),
	}

	opts := []ants.Option{
		ants.WithPanicHandler(func(r interface{}) {
			p.panicked.Add(1)
			p.logger.Error("worker panic", zap.Any("error", r), zap.Stack("stacktrace"))
		}),
		ants.WithNonblocking(config.Nonblocking),
		ants.WithMaxBlockingTasks(config.MaxBlockingTasks),
	}
	if config.ExpiryDuration > 0 {
		opts = append(opts, ants.WithExpiryDuration(config.ExpiryDuration))
	}

	antsPool, err := ants.NewPool(config.Workers, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create ants pool: %w", err)
	}
	p.pool = antsPool

	return p, nil
}

// Submit 提交任务
func (p *Pool) Submit(task func()) error {
	err := p.pool.Submit(func() {
		defer p.completed.Add(1)
		task()
	})
	switch {
	case err == nil:
		p.submitted.Add(1)
		return nil
	case errors.Is(err, ants.ErrPoolClosed):
		p.rejected.Add(1)
		return ErrPoolClosed
	case errors.Is(err, ants.ErrPoolOverload):
		p.rejected.Add(1)
		p.logger.Warn("task rejected", zap.Int("running", p.pool.Running()), zap.Int("cap", p.pool.Cap()))
		return ErrPoolOverload
	default:
		p.rejected.Add(1)
		return fmt.Errorf("submit task: %w", err)
	}
}

// SubmitWithResult 提交带返回值的任务
func (p *Pool) SubmitWithResult(task func() (interface{}, error)) <-chan TaskResult {
	ch := make(chan TaskResult, 1)
	err := p.Submit(func() {
		data, err := task()
		ch <- TaskResult{Data: data, Error: err}
	})
	if err != nil {
		ch <- TaskResult{Error: err}
	}
	return ch
}

// Running 获取运行中的 worker 数量
func (p *Pool) Running() int {
	return p.pool.Running()
}

// Free 获取空闲 worker 数量
func (p *Pool) Free() int {
	return p.pool.Free()
}

// Cap 获取容量
func (p *Pool) Cap() int {
	return p.pool.Cap()
}

// Tune 调整 worker 数量
func (p *Pool) Tune(size int) {
	if size <= 0 {
		return
	}
	p.logger.Info("tuning pool", zap.Int("from", p.pool.Cap()), zap.Int("to", size))
	p.pool.Tune(size)
}

// Stats 获取统计信息
func (p *Pool) Stats() Statistics {
	return Statistics{
		Submitted: p.submitted.Load(),
		Completed: p.completed.Load(),
		Panicked:  p.panicked.Load(),
		Rejected:  p.rejected.Load(),
	}
}

// Shutdown 关闭，等待运行中的任务最多 timeout
func (p *Pool) Shutdown(timeout time.Duration) error {
	if timeout <= 0 {
		p.pool.Release()
		return nil
	}
	return p.pool.ReleaseTimeout(timeout)
}
