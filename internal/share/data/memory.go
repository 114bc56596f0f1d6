package data

import (
	"context"
	"sync"
	"time"

	"github.com/lk2023060901/ai-translator-backend/internal/share/biz"
)

type memoryEntry struct {
	share    biz.Share
	expireAt time.Time
}

// MemoryShareRepo 进程内分享存储；过期条目在读取或写入时清理
type MemoryShareRepo struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryShareRepo() *MemoryShareRepo {
	return &MemoryShareRepo{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (r *MemoryShareRepo) Save(_ context.Context, share *biz.Share, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for id, e := range r.entries {
		if !now.Before(e.expireAt) {
			delete(r.entries, id)
		}
	}
	r.entries[share.ID] = memoryEntry{share: *share, expireAt: now.Add(ttl)}
	return nil
}

func (r *MemoryShareRepo) Get(_ context.Context, id string) (*biz.Share, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return nil, biz.ErrShareNotFound
	}
	if !r.now().Before(e.expireAt) {
		delete(r.entries, id)
		return nil, biz.ErrShareNotFound
	}
	share := e.share
	return &share, nil
}

// Len 当前条目数（含未清理的过期条目）
func (r *MemoryShareRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
