package loader

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultMaxSize 文档大小上限 10MB
const DefaultMaxSize int64 = 10 << 20

var extensions = map[string]FileType{
	".txt":      FileTypeTxt,
	".text":     FileTypeTxt,
	".md":       FileTypeMd,
	".markdown": FileTypeMd,
	".pdf":      FileTypePdf,
	".docx":     FileTypeDocx,
	".json":     FileTypeJson,
	".html":     FileTypeHtml,
	".htm":      FileTypeHtml,
}

var binaryMIME = map[FileType]string{
	FileTypePdf:  "application/pdf",
	FileTypeDocx: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// Options 工厂配置
type Options struct {
	MaxSize             int64
	UnidocLicenseKey    string
	StripMarkdownMarkup bool
}

// Factory Loader 工厂：校验大小与类型后分派到具体 Loader
type Factory struct {
	loaders map[FileType]Loader
	maxSize int64
}

// NewFactory 创建 Loader 工厂
func NewFactory(opts Options) *Factory {
	if opts.MaxSize <= 0 {
		opts.MaxSize = DefaultMaxSize
	}

	f := &Factory{
		loaders: make(map[FileType]Loader),
		maxSize: opts.MaxSize,
	}
	f.register(NewTextLoader())
	f.register(NewMarkdownLoader(opts.StripMarkdownMarkup))
	f.register(NewPDFLoader())
	f.register(NewDOCXLoader(opts.UnidocLicenseKey))
	f.register(NewJSONLoader())
	f.register(NewHTMLLoader())
	return f
}

func (f *Factory) register(loader Loader) {
	for _, fileType := range loader.SupportedTypes() {
		f.loaders[fileType] = loader
	}
}

// Markdown 返回 Markdown 加载器（用于渲染译文）
func (f *Factory) Markdown() *MarkdownLoader {
	return f.loaders[FileTypeMd].(*MarkdownLoader)
}

// MaxSize 返回文档大小上限
func (f *Factory) MaxSize() int64 {
	return f.maxSize
}

// Detect 根据扩展名确定类型，无扩展名时按内容嗅探；二进制格式须与内容一致
func (f *Factory) Detect(filename string, data []byte) (FileType, error) {
	mt := mimetype.Detect(data)

	ext := strings.ToLower(filepath.Ext(filename))
	fileType, ok := extensions[ext]
	if !ok {
		if ext != "" {
			return "", fmt.Errorf("%w: %s", ErrUnsupportedType, ext)
		}
		fileType, ok = extensions[mt.Extension()]
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrUnsupportedType, mt.String())
		}
	}

	if want, binary := binaryMIME[fileType]; binary {
		if !mt.Is(want) {
			return "", fmt.Errorf("%w: content %s does not match %s", ErrUnsupportedType, mt.String(), ext)
		}
		return fileType, nil
	}
	if !isText(mt) {
		return "", fmt.Errorf("%w: binary content %s", ErrUnsupportedType, mt.String())
	}
	return fileType, nil
}

// Extract 校验并提取文档文本
func (f *Factory) Extract(ctx context.Context, filename string, data []byte) (*Document, error) {
	if len(data) == 0 {
		return nil, ErrEmptyDocument
	}
	if int64(len(data)) > f.maxSize {
		return nil, fmt.Errorf("%w: %d > %d bytes", ErrFileTooLarge, len(data), f.maxSize)
	}

	fileType, err := f.Detect(filename, data)
	if err != nil {
		return nil, err
	}

	doc, err := f.loaders[fileType].Load(ctx, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(doc.Content) == "" {
		return nil, ErrEmptyDocument
	}
	doc.Metadata["filename"] = filepath.Base(filename)
	doc.Metadata["size"] = len(data)
	return doc, nil
}

// SupportedTypes 返回所有支持的文件类型
func (f *Factory) SupportedTypes() []FileType {
	types := make([]FileType, 0, len(f.loaders))
	for fileType := range f.loaders {
		types = append(types, fileType)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// isText 沿 MIME 继承链判断是否为文本内容
func isText(mt *mimetype.MIME) bool {
	for m := mt; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "text/") || m.Is("application/json") {
			return true
		}
	}
	return false
}
