package loader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/russross/blackfriday/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownLoader Markdown 加载器
//
// 默认保留 Markdown 源码，由翻译模型保持格式；StripFormatting 为 true 时输出纯文本。
type MarkdownLoader struct {
	StripFormatting bool
	md              goldmark.Markdown
}

// NewMarkdownLoader 创建 Markdown 加载器
func NewMarkdownLoader(stripFormatting bool) *MarkdownLoader {
	return &MarkdownLoader{
		StripFormatting: stripFormatting,
		md:              goldmark.New(),
	}
}

// Load 加载 Markdown 内容
func (l *MarkdownLoader) Load(ctx context.Context, reader io.Reader) (*Document, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read markdown content: %w", err)
	}
	content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))

	meta := l.outline(content)
	meta["loader"] = "markdown"

	if !l.StripFormatting {
		return &Document{Type: FileTypeMd, Content: string(content), Metadata: meta}, nil
	}

	rendered := blackfriday.Run(content)
	plain, _, err := htmlToText(bytes.NewReader(rendered))
	if err != nil {
		return nil, err
	}
	meta["original_format"] = "markdown"
	return &Document{Type: FileTypeMd, Content: plain, Metadata: meta}, nil
}

// outline 解析 AST，统计标题与代码块
func (l *MarkdownLoader) outline(src []byte) map[string]interface{} {
	root := l.md.Parser().Parse(text.NewReader(src))

	var (
		title      string
		headings   int
		codeBlocks int
	)
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			headings++
			if title == "" && node.Level == 1 {
				title = inlineText(node, src)
			}
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			codeBlocks++
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	meta := map[string]interface{}{
		"headings":    headings,
		"code_blocks": codeBlocks,
	}
	if title != "" {
		meta["title"] = title
	}
	return meta
}

// RenderHTML 将（译后的）Markdown 渲染为 HTML 片段
func (l *MarkdownLoader) RenderHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := l.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}

// SupportedTypes 返回支持的文件类型
func (l *MarkdownLoader) SupportedTypes() []FileType {
	return []FileType{FileTypeMd}
}

func inlineText(n ast.Node, src []byte) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			sb.Write(t.Segment.Value(src))
			continue
		}
		sb.WriteString(inlineText(c, src))
	}
	return sb.String()
}
