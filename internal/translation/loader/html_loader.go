package loader

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	reSpaces   = regexp.MustCompile(`[ \t]+`)
	reNewlines = regexp.MustCompile(`\n{3,}`)
)

// HTMLLoader HTML 加载器
type HTMLLoader struct{}

// NewHTMLLoader 创建 HTML 加载器
func NewHTMLLoader() *HTMLLoader {
	return &HTMLLoader{}
}

// Load 提取 HTML 可见文本，块级元素之间以空行分隔
func (l *HTMLLoader) Load(ctx context.Context, reader io.Reader) (*Document, error) {
	text, title, err := htmlToText(reader)
	if err != nil {
		return nil, err
	}

	meta := map[string]interface{}{"loader": "html"}
	if title != "" {
		meta["title"] = title
	}
	return &Document{
		Type:     FileTypeHtml,
		Content:  text,
		Metadata: meta,
	}, nil
}

// SupportedTypes 返回支持的文件类型
func (l *HTMLLoader) SupportedTypes() []FileType {
	return []FileType{FileTypeHtml}
}

// htmlToText 将 HTML 转换为纯文本，返回文本与 <title>
func htmlToText(r io.Reader) (string, string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", "", fmt.Errorf("%w: parse html: %v", ErrExtractFailed, err)
	}

	var (
		sb    strings.Builder
		title string
		walk  func(*html.Node)
	)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript, atom.Head:
				if n.DataAtom == atom.Head {
					title = findTitle(n)
				}
				return
			case atom.Br:
				sb.WriteString("\n")
			}
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && isBlock(n.DataAtom) {
			sb.WriteString("\n\n")
		}
	}
	walk(doc)

	return cleanWhitespace(sb.String()), title, nil
}

func findTitle(head *html.Node) string {
	for c := head.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Title && c.FirstChild != nil {
			return strings.TrimSpace(c.FirstChild.Data)
		}
	}
	return ""
}

func isBlock(a atom.Atom) bool {
	switch a {
	case atom.P, atom.Div, atom.Li, atom.Ul, atom.Ol, atom.Table, atom.Tr, atom.Blockquote, atom.Pre,
		atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6, atom.Section, atom.Article, atom.Header, atom.Footer:
		return true
	}
	return false
}

// cleanWhitespace 清理行内多余空白，段落之间保留一个空行
func cleanWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(reSpaces.ReplaceAllString(line, " "))
	}
	text = strings.Join(lines, "\n")
	text = reNewlines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
