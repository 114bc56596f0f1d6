package biz

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lk2023060901/ai-translator-backend/internal/ai/provider/types"
)

// stubEndpoint 记录调用次数，按 fn 返回结果
type stubEndpoint struct {
	calls atomic.Int32
	fn    func(ctx context.Context, req *types.TranslateRequest) (*types.TranslateResponse, error)
}

func (s *stubEndpoint) Translate(ctx context.Context, req *types.TranslateRequest) (*types.TranslateResponse, error) {
	s.calls.Add(1)
	if s.fn != nil {
		return s.fn(ctx, req)
	}
	return &types.TranslateResponse{TranslatedText: strings.ToUpper(req.Text)}, nil
}

func failing(status int) func(context.Context, *types.TranslateRequest) (*types.TranslateResponse, error) {
	return func(context.Context, *types.TranslateRequest) (*types.TranslateResponse, error) {
		return nil, types.NewStatusError("stub", status, "boom")
	}
}

type stubFallback struct{}

func (stubFallback) Translate(text, source, target string) string {
	return "[fb] " + text
}

// recordingReporter 记录事件顺序
type recordingReporter struct {
	mu       sync.Mutex
	events   []string
	progress []int
	code     int
}

func (r *recordingReporter) add(e string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingReporter) Start(int, map[string]interface{}) error { r.add("start"); return nil }
func (r *recordingReporter) Complete(interface{}) error              { r.add("complete"); return nil }
func (r *recordingReporter) Cancelled(int) error                     { r.add("cancelled"); return nil }

func (r *recordingReporter) Progress(pct int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress = append(r.progress, pct)
	return nil
}

func (r *recordingReporter) Failed(code int, err error) error {
	r.mu.Lock()
	r.code = code
	r.mu.Unlock()
	r.add("failed")
	return nil
}

func (r *recordingReporter) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

// goPool 在新 goroutine 中执行任务
type goPool struct{ err error }

func (p goPool) Submit(task func()) error {
	if p.err != nil {
		return p.err
	}
	go task()
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
