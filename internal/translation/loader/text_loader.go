package loader

import (
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// TextLoader 纯文本加载器
type TextLoader struct{}

// NewTextLoader 创建纯文本加载器
func NewTextLoader() *TextLoader {
	return &TextLoader{}
}

// Load 加载纯文本内容，统一换行符为 \n
func (l *TextLoader) Load(ctx context.Context, reader io.Reader) (*Document, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read text content: %w", err)
	}
	if !utf8.Valid(content) {
		return nil, fmt.Errorf("%w: text is not valid UTF-8", ErrExtractFailed)
	}

	text := strings.ReplaceAll(string(content), "\r\n", "\n")
	text = strings.TrimPrefix(text, "\ufeff")

	return &Document{
		Type:    FileTypeTxt,
		Content: text,
		Metadata: map[string]interface{}{
			"loader": "text",
		},
	}, nil
}

// SupportedTypes 返回支持的文件类型
func (l *TextLoader) SupportedTypes() []FileType {
	return []FileType{FileTypeTxt}
}
