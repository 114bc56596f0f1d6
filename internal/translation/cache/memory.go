package cache

import (
	"container/list"
	"context"
	"sync"
)

type entry struct {
	key   Key
	value string
}

// MemoryCache 有界进程内缓存
//
// PolicyFIFO 下淘汰最早插入的条目，覆盖已有键不改变其位置。
type MemoryCache struct {
	mu       sync.Mutex
	capacity int
	policy   Policy
	order    *list.List // 队首最先淘汰
	items    map[Key]*list.Element

	hits, misses, evictions int64
}

// Stats 缓存计数快照
type Stats struct {
	Len       int
	Hits      int64
	Misses    int64
	Evictions int64
}

// NewMemoryCache 创建缓存；capacity 非正时取 DefaultCapacity，未知策略按 FIFO 处理
func NewMemoryCache(capacity int, policy Policy) *MemoryCache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if policy != PolicyLRU {
		policy = PolicyFIFO
	}
	return &MemoryCache{
		capacity: capacity,
		policy:   policy,
		order:    list.New(),
		items:    make(map[Key]*list.Element, capacity),
	}
}

func (c *MemoryCache) Get(_ context.Context, key Key) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		c.misses++
		return "", false
	}
	c.hits++
	if c.policy == PolicyLRU {
		c.order.MoveToBack(el)
	}
	return el.Value.(*entry).value, true
}

func (c *MemoryCache) Set(_ context.Context, key Key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		el.Value.(*entry).value = value
		if c.policy == PolicyLRU {
			c.order.MoveToBack(el)
		}
		return nil
	}

	for c.order.Len() >= c.capacity {
		oldest := c.order.Front()
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*entry).key)
		c.evictions++
	}

	c.items[key] = c.order.PushBack(&entry{key: key, value: value})
	return nil
}

// Len 返回条目数
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *MemoryCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Len:       c.order.Len(),
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
}
