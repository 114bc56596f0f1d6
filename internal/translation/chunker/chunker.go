package chunker

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ParagraphSeparator 段落分隔符
const ParagraphSeparator = "\n\n"

// DefaultMaxChunkSize 默认块大小（字符数）
const DefaultMaxChunkSize = 4000

// sentenceEnd 句末标点 + 空白（空白归属前一句）；全角标点后空白可选
var sentenceEnd = regexp.MustCompile(`[.!?]+\s+|[。！？]+\s*`)

// Chunk 文本分块
type Chunk struct {
	Index      int    // 块序号（从 0 开始）
	Content    string // 块内容
	Size       int    // 字符数（code point）
	Separator  string // 块后的分隔符，段落边界为 "\n\n"，否则为空
	TokenCount int    // Token 数量（未配置 TokenCounter 时为 0）
}

// Chunker 按 段落 -> 句子 -> 字符 的优先级切分文本
type Chunker struct {
	maxChunkSize int
	counter      TokenCounter
}

// Option 配置项
type Option func(*Chunker)

// WithTokenCounter 为每个块计算 token 数
func WithTokenCounter(counter TokenCounter) Option {
	return func(c *Chunker) {
		c.counter = counter
	}
}

// New 创建分块器
func New(maxChunkSize int, opts ...Option) (*Chunker, error) {
	if maxChunkSize <= 0 {
		return nil, fmt.Errorf("max chunk size must be positive, got %d", maxChunkSize)
	}

	c := &Chunker{maxChunkSize: maxChunkSize}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// MaxChunkSize 返回块大小上限
func (c *Chunker) MaxChunkSize() int {
	return c.maxChunkSize
}

// Split 切分文本。按序拼接所有块的 Content+Separator 可还原原文。
// 长度不超过上限的文本（包括空文本）返回单个块。
func (c *Chunker) Split(text string) []*Chunk {
	if utf8.RuneCountInString(text) <= c.maxChunkSize {
		return c.finish([]*Chunk{{Content: text}})
	}

	var (
		chunks  []*Chunk
		buf     strings.Builder
		bufSize int
		started bool
	)

	flush := func(separator string) {
		chunks = append(chunks, &Chunk{Content: buf.String(), Separator: separator})
		buf.Reset()
		bufSize = 0
		started = false
	}

	for _, para := range strings.Split(text, ParagraphSeparator) {
		size := utf8.RuneCountInString(para)

		if started && bufSize+len(ParagraphSeparator)+size <= c.maxChunkSize {
			buf.WriteString(ParagraphSeparator)
			buf.WriteString(para)
			bufSize += len(ParagraphSeparator) + size
			continue
		}
		if started {
			flush(ParagraphSeparator)
		}

		if size <= c.maxChunkSize {
			buf.WriteString(para)
			bufSize = size
			started = true
			continue
		}

		// 超长段落：按句子切分，最后一段留在缓冲区继续合并
		pieces := c.splitSentences(para)
		for _, piece := range pieces[:len(pieces)-1] {
			chunks = append(chunks, &Chunk{Content: piece})
		}
		last := pieces[len(pieces)-1]
		buf.WriteString(last)
		bufSize = utf8.RuneCountInString(last)
		started = true
	}

	if started {
		flush("")
	}

	return c.finish(chunks)
}

// splitSentences 按句子边界贪心合并，单句超长时硬切
func (c *Chunker) splitSentences(para string) []string {
	var (
		pieces  []string
		cur     strings.Builder
		curSize int
	)

	for _, sentence := range sentences(para) {
		size := utf8.RuneCountInString(sentence)

		if curSize+size <= c.maxChunkSize {
			cur.WriteString(sentence)
			curSize += size
			continue
		}
		if curSize > 0 {
			pieces = append(pieces, cur.String())
			cur.Reset()
			curSize = 0
		}

		if size <= c.maxChunkSize {
			cur.WriteString(sentence)
			curSize = size
			continue
		}

		cuts := hardCut(sentence, c.maxChunkSize)
		pieces = append(pieces, cuts[:len(cuts)-1]...)
		tail := cuts[len(cuts)-1]
		cur.WriteString(tail)
		curSize = utf8.RuneCountInString(tail)
	}

	if curSize > 0 || len(pieces) == 0 {
		pieces = append(pieces, cur.String())
	}
	return pieces
}

// sentences 将段落切成句子，拼接后与原段落完全一致
func sentences(para string) []string {
	var out []string
	last := 0
	for _, loc := range sentenceEnd.FindAllStringIndex(para, -1) {
		out = append(out, para[last:loc[1]])
		last = loc[1]
	}
	if last < len(para) {
		out = append(out, para[last:])
	}
	return out
}

// hardCut 按 code point 每 size 个字符切一刀，不会切断多字节字符
func hardCut(s string, size int) []string {
	var out []string
	start, count := 0, 0
	for i := range s {
		if count == size {
			out = append(out, s[start:i])
			start, count = i, 0
		}
		count++
	}
	return append(out, s[start:])
}

func (c *Chunker) finish(chunks []*Chunk) []*Chunk {
	for i, chunk := range chunks {
		chunk.Index = i
		chunk.Size = utf8.RuneCountInString(chunk.Content)
		if c.counter != nil {
			chunk.TokenCount = c.counter.Count(chunk.Content)
		}
	}
	return chunks
}

// Join 按序拼接块内容（含分隔符）
func Join(chunks []*Chunk) string {
	var b strings.Builder
	for _, chunk := range chunks {
		b.WriteString(chunk.Content)
		b.WriteString(chunk.Separator)
	}
	return b.String()
}

// JoinTranslated 用译文替换各块内容后拼接，translated 与 chunks 按下标对应
func JoinTranslated(chunks []*Chunk, translated []string) string {
	var b strings.Builder
	for i, chunk := range chunks {
		if i < len(translated) {
			b.WriteString(translated[i])
		}
		b.WriteString(chunk.Separator)
	}
	return b.String()
}
