// Package cache 短文本翻译缓存，键由原文前缀、语言对和模型组成
package cache

import (
	"context"
	"strings"
	"unicode/utf8"
)

const (
	// KeyPrefixLength 参与缓存键的原文前缀长度（code point）
	KeyPrefixLength = 100

	// DefaultCapacity 默认容量，超出后淘汰
	DefaultCapacity = 100

	// DefaultMaxTextLength 达到该长度（code point）的文本不缓存
	DefaultMaxTextLength = 1000
)

// Key 缓存键
type Key struct {
	TextPrefix string
	Source     string
	Target     string
	Model      string
}

// NewKey 由完整原文构造缓存键
func NewKey(text, source, target, model string) Key {
	return Key{
		TextPrefix: truncate(text, KeyPrefixLength),
		Source:     source,
		Target:     target,
		Model:      model,
	}
}

// String 编码缓存键，分隔符不会出现在语言代码和模型名中
func (k Key) String() string {
	return strings.Join([]string{k.Source, k.Target, k.Model, k.TextPrefix}, "\x1f")
}

// Cacheable 文本是否足够短、可以缓存
func Cacheable(text string, maxTextLength int) bool {
	if maxTextLength <= 0 {
		maxTextLength = DefaultMaxTextLength
	}
	return utf8.RuneCountInString(text) < maxTextLength
}

// Cache 翻译客户端使用的缓存
type Cache interface {
	Get(ctx context.Context, key Key) (string, bool)
	Set(ctx context.Context, key Key, value string) error
}

// Policy 容量满时的淘汰策略
type Policy string

const (
	PolicyFIFO Policy = "fifo" // 淘汰最早插入的
	PolicyLRU  Policy = "lru"  // 淘汰最久未读写的
)

func truncate(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
