package loader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/unidoc/unioffice/common/license"
	"github.com/unidoc/unioffice/document"
)

var licenseOnce sync.Once

// DOCXLoader Word 文档加载器
type DOCXLoader struct {
	licenseErr error
}

// NewDOCXLoader 创建 Word 文档加载器；licenseKey 为 UniOffice 计量许可证，进程内只设置一次
func NewDOCXLoader(licenseKey string) *DOCXLoader {
	l := &DOCXLoader{}
	if licenseKey != "" {
		licenseOnce.Do(func() {
			l.licenseErr = license.SetMeteredKey(licenseKey)
		})
	}
	return l
}

// Load 加载 Word 文档内容，每个段落之间以空行分隔
func (l *DOCXLoader) Load(ctx context.Context, reader io.Reader) (*Document, error) {
	if l.licenseErr != nil {
		return nil, fmt.Errorf("%w: unioffice license: %v", ErrExtractFailed, l.licenseErr)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read DOCX data: %w", err)
	}

	doc, err := document.Read(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: open docx: %v", ErrExtractFailed, err)
	}
	defer doc.Close()

	paragraphs := make([]string, 0, len(doc.Paragraphs()))
	for _, para := range doc.Paragraphs() {
		var sb strings.Builder
		for _, run := range para.Runs() {
			sb.WriteString(run.Text())
		}
		if text := strings.TrimSpace(sb.String()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	}

	return &Document{
		Type:    FileTypeDocx,
		Content: strings.Join(paragraphs, "\n\n"),
		Metadata: map[string]interface{}{
			"loader":     "docx",
			"paragraphs": len(paragraphs),
		},
	}, nil
}

// SupportedTypes 返回支持的文件类型
func (l *DOCXLoader) SupportedTypes() []FileType {
	return []FileType{FileTypeDocx}
}
