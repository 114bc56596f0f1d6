package biz

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/lk2023060901/ai-translator-backend/internal/pkg/logger"
	"github.com/lk2023060901/ai-translator-backend/internal/translation/chunker"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency 每一波并发请求数
const DefaultConcurrency = 5

// ChunkFunc 翻译单个分片
type ChunkFunc func(ctx context.Context, chunk *chunker.Chunk) (*TranslationResult, error)

// BatchResult 批量翻译结果，Results 与分片按下标对应
type BatchResult struct {
	Results        []*TranslationResult
	Completed      int
	Cancelled      bool
	FallbackChunks []int
}

// Texts 返回各分片译文（未完成的分片为空串）
func (r *BatchResult) Texts() []string {
	texts := make([]string, len(r.Results))
	for i, res := range r.Results {
		if res != nil {
			texts[i] = res.TranslatedText
		}
	}
	return texts
}

// Scheduler 波次调度器
//
// 每次最多发起 concurrency 个请求，整波结束后才进入下一波。
type Scheduler struct {
	concurrency int
	logger      *logger.Logger
}

// NewScheduler 创建调度器
func NewScheduler(concurrency int, lgr *logger.Logger) *Scheduler {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if lgr == nil {
		lgr = logger.L()
	}
	return &Scheduler{concurrency: concurrency, logger: lgr}
}

// Concurrency 返回每波并发数
func (s *Scheduler) Concurrency() int {
	return s.concurrency
}

// Run 翻译全部分片
//
// 任一分片失败则整个操作失败；ctx 被取消时丢弃后续结果，返回 Cancelled=true 且 error 为 nil。
func (s *Scheduler) Run(ctx context.Context, chunks []*chunker.Chunk, fn ChunkFunc, onProgress ProgressFunc) (*BatchResult, error) {
	total := len(chunks)
	result := &BatchResult{Results: make([]*TranslationResult, total)}
	progress := NewProgress(total, onProgress)

	var mu sync.Mutex
	cancelled := func() *BatchResult {
		mu.Lock()
		defer mu.Unlock()
		result.Cancelled = true
		result.Completed = progress.Completed()
		return result
	}

	for start := 0; start < total; start += s.concurrency {
		if ctx.Err() != nil {
			return cancelled(), nil
		}
		end := start + s.concurrency
		if end > total {
			end = total
		}

		g, gctx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			if ctx.Err() != nil {
				break
			}
			i := i
			g.Go(func() error {
				res, err := fn(gctx, chunks[i])

				mu.Lock()
				defer mu.Unlock()
				if ctx.Err() != nil {
					return nil
				}
				if err != nil {
					return fmt.Errorf("translating chunk %d/%d: %w", i+1, total, err)
				}
				result.Results[i] = res
				if res.UsedFallback {
					result.FallbackChunks = append(result.FallbackChunks, i)
				}
				progress.Complete()
				return nil
			})
		}

		err := g.Wait()
		if ctx.Err() != nil {
			s.logger.Debug("batch cancelled",
				zap.Int("completed", progress.Completed()),
				zap.Int("total", total))
			return cancelled(), nil
		}
		if err != nil {
			return nil, err
		}
	}

	result.Completed = progress.Completed()
	sort.Ints(result.FallbackChunks)
	return result, nil
}
