// Package loader 从上传文件中提取待翻译文本
package loader

import (
	"context"
	"errors"
	"io"
)

var (
	ErrEmptyDocument   = errors.New("document is empty")
	ErrFileTooLarge    = errors.New("document exceeds size limit")
	ErrUnsupportedType = errors.New("unsupported document type")
	ErrExtractFailed   = errors.New("failed to extract document text")
)

// FileType 文件类型
type FileType string

const (
	FileTypeTxt  FileType = "txt"
	FileTypePdf  FileType = "pdf"
	FileTypeDocx FileType = "docx"
	FileTypeMd   FileType = "md"
	FileTypeHtml FileType = "html"
	FileTypeJson FileType = "json"
)

// Binary 判断是否为二进制格式（需要 MIME 校验）
func (ft FileType) Binary() bool {
	return ft == FileTypePdf || ft == FileTypeDocx
}

func (ft FileType) String() string {
	return string(ft)
}

// Loader 文档加载器接口
type Loader interface {
	// Load 加载文档内容
	Load(ctx context.Context, reader io.Reader) (*Document, error)

	// SupportedTypes 返回支持的文件类型
	SupportedTypes() []FileType
}

// Document 加载后的文档
type Document struct {
	Type     FileType               // 文件类型
	Content  string                 // 文档文本内容（段落以空行分隔）
	Metadata map[string]interface{} // 文档元数据
}
