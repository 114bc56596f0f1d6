package loader

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// PDFLoader PDF 加载器
type PDFLoader struct{}

// NewPDFLoader 创建 PDF 加载器
func NewPDFLoader() *PDFLoader {
	return &PDFLoader{}
}

// Load 加载 PDF 内容（使用 go-fitz/MuPDF），页面之间以空行分隔
func (l *PDFLoader) Load(ctx context.Context, reader io.Reader) (*Document, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF data: %w", err)
	}

	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("%w: open pdf: %v", ErrExtractFailed, err)
	}
	defer doc.Close()

	numPages := doc.NumPage()
	pages := make([]string, 0, numPages)
	skipped := 0

	for i := 0; i < numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text, err := doc.Text(i)
		if err != nil {
			skipped++
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			pages = append(pages, text)
		}
	}

	return &Document{
		Type:    FileTypePdf,
		Content: strings.Join(pages, "\n\n"),
		Metadata: map[string]interface{}{
			"loader":        "pdf",
			"page_count":    numPages,
			"skipped_pages": skipped,
		},
	}, nil
}

// SupportedTypes 返回支持的文件类型
func (l *PDFLoader) SupportedTypes() []FileType {
	return []FileType{FileTypePdf}
}
