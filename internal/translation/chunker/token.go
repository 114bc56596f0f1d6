package chunker

import (
	"fmt"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

// TokenCounter token 计数接口
type TokenCounter interface {
	Count(text string) int
}

// TiktokenCounter 基于 tiktoken 的精确计数
type TiktokenCounter struct {
	encoding *tiktoken.Tiktoken
}

// NewTiktokenCounter 创建 tiktoken 计数器（首次使用会下载编码表）
func NewTiktokenCounter(encoding string) (*TiktokenCounter, error) {
	if encoding == "" {
		encoding = "cl100k_base"
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to get encoding: %w", err)
	}
	return &TiktokenCounter{encoding: enc}, nil
}

// Count 返回 token 数
func (t *TiktokenCounter) Count(text string) int {
	return len(t.encoding.Encode(text, nil, nil))
}

// EstimateCounter 按 4 字符/token 粗略估算，无需下载编码表
type EstimateCounter struct{}

// Count 返回估算的 token 数
func (EstimateCounter) Count(text string) int {
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return 0
	}
	return (n + 3) / 4
}
