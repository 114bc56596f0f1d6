package loader

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/tidwall/gjson"
)

// JSONLoader JSON 文件加载器
type JSONLoader struct{}

// NewJSONLoader 创建 JSON 加载器
func NewJSONLoader() *JSONLoader {
	return &JSONLoader{}
}

// Load 提取 JSON 中的字符串叶子节点，每行一个 "路径: 值"
func (l *JSONLoader) Load(ctx context.Context, reader io.Reader) (*Document, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read json content: %w", err)
	}
	if !gjson.ValidBytes(content) {
		return nil, fmt.Errorf("%w: invalid json", ErrExtractFailed)
	}

	var lines []string
	collectStrings(gjson.ParseBytes(content), "", &lines)

	return &Document{
		Type:    FileTypeJson,
		Content: strings.Join(lines, "\n"),
		Metadata: map[string]interface{}{
			"loader":        "json",
			"strings":       len(lines),
			"original_size": len(content),
		},
	}, nil
}

// collectStrings 深度优先遍历，对象键按原始顺序
func collectStrings(value gjson.Result, path string, out *[]string) {
	switch {
	case value.IsObject(), value.IsArray():
		index := 0
		value.ForEach(func(key, child gjson.Result) bool {
			segment := key.String()
			if value.IsArray() {
				segment = fmt.Sprint(index)
			}
			index++
			next := segment
			if path != "" {
				next = path + "." + segment
			}
			collectStrings(child, next, out)
			return true
		})
	case value.Type == gjson.String:
		if s := strings.TrimSpace(value.String()); s != "" {
			if path == "" {
				*out = append(*out, s)
				return
			}
			*out = append(*out, path+": "+s)
		}
	}
}

// SupportedTypes 返回支持的文件类型
func (l *JSONLoader) SupportedTypes() []FileType {
	return []FileType{FileTypeJson}
}
