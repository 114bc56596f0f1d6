package loader

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMarkdown = "# User Guide\n\nHello **world**.\n\n## Install\n\n- one\n- two\n\n```sh\nmake\n```\n"

func TestTextLoader(t *testing.T) {
	doc, err := NewTextLoader().Load(context.Background(), strings.NewReader("\ufeffline one\r\nline two"))
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two", doc.Content)

	_, err = NewTextLoader().Load(context.Background(), strings.NewReader("\xff\xfe"))
	assert.ErrorIs(t, err, ErrExtractFailed)
}

func TestMarkdownLoaderPreservesSource(t *testing.T) {
	doc, err := NewMarkdownLoader(false).Load(context.Background(), strings.NewReader(sampleMarkdown))
	require.NoError(t, err)

	assert.Equal(t, sampleMarkdown, doc.Content)
	assert.Equal(t, "User Guide", doc.Metadata["title"])
	assert.Equal(t, 2, doc.Metadata["headings"])
	assert.Equal(t, 1, doc.Metadata["code_blocks"])
}

func TestMarkdownLoaderStripsFormatting(t *testing.T) {
	doc, err := NewMarkdownLoader(true).Load(context.Background(), strings.NewReader(sampleMarkdown))
	require.NoError(t, err)

	assert.Contains(t, doc.Content, "Hello world.")
	assert.NotContains(t, doc.Content, "**")
	assert.NotContains(t, doc.Content, "<")
	assert.True(t, strings.HasPrefix(doc.Content, "User Guide\n\n"))
}

func TestMarkdownRenderHTML(t *testing.T) {
	out, err := NewMarkdownLoader(false).RenderHTML("# Hola\n\n*mundo*")
	require.NoError(t, err)
	assert.Contains(t, out, "<h1>Hola</h1>")
	assert.Contains(t, out, "<em>mundo</em>")
}

func TestHTMLLoader(t *testing.T) {
	page := `<html><head><title>Docs</title><style>p{}</style></head>
<body><h1>Welcome</h1><p>First   paragraph.</p><script>alert(1)</script><p>Second<br>line</p></body></html>`

	doc, err := NewHTMLLoader().Load(context.Background(), strings.NewReader(page))
	require.NoError(t, err)

	assert.Equal(t, "Welcome\n\nFirst paragraph.\n\nSecond\nline", doc.Content)
	assert.Equal(t, "Docs", doc.Metadata["title"])
}

func TestJSONLoader(t *testing.T) {
	src := `{"greeting": "Hello", "menu": {"items": ["Open", "Close", 3]}, "empty": " ", "count": 2}`

	doc, err := NewJSONLoader().Load(context.Background(), strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, "greeting: Hello\nmenu.items.0: Open\nmenu.items.1: Close", doc.Content)
	assert.Equal(t, 3, doc.Metadata["strings"])

	_, err = NewJSONLoader().Load(context.Background(), strings.NewReader(`{"a":`))
	assert.ErrorIs(t, err, ErrExtractFailed)
}

func TestFactoryDetect(t *testing.T) {
	f := NewFactory(Options{})
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

	tests := []struct {
		name     string
		filename string
		data     []byte
		want     FileType
		wantErr  error
	}{
		{name: "txt", filename: "notes.txt", data: []byte("hello"), want: FileTypeTxt},
		{name: "markdown upper ext", filename: "README.MD", data: []byte("# hi"), want: FileTypeMd},
		{name: "json", filename: "en.json", data: []byte(`{"a":"b"}`), want: FileTypeJson},
		{name: "sniff json", filename: "upload", data: []byte(`{"a":"b"}`), want: FileTypeJson},
		{name: "sniff text", filename: "upload", data: []byte("plain words"), want: FileTypeTxt},
		{name: "unknown ext", filename: "slides.pptx", data: []byte("x"), wantErr: ErrUnsupportedType},
		{name: "binary as txt", filename: "image.txt", data: png, wantErr: ErrUnsupportedType},
		{name: "text as pdf", filename: "fake.pdf", data: []byte("not a pdf"), wantErr: ErrUnsupportedType},
		{name: "sniff image", filename: "upload", data: png, wantErr: ErrUnsupportedType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.Detect(tt.filename, tt.data)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFactoryExtract(t *testing.T) {
	f := NewFactory(Options{MaxSize: 32})

	doc, err := f.Extract(context.Background(), "dir/a.txt", []byte("Hello.\n\nWorld."))
	require.NoError(t, err)
	assert.Equal(t, FileTypeTxt, doc.Type)
	assert.Equal(t, "a.txt", doc.Metadata["filename"])

	_, err = f.Extract(context.Background(), "a.txt", nil)
	assert.ErrorIs(t, err, ErrEmptyDocument)

	_, err = f.Extract(context.Background(), "a.txt", []byte("   \n\n  "))
	assert.ErrorIs(t, err, ErrEmptyDocument)

	_, err = f.Extract(context.Background(), "a.txt", []byte(strings.Repeat("x", 33)))
	assert.ErrorIs(t, err, ErrFileTooLarge)

	assert.Equal(t, int64(32), f.MaxSize())
	assert.Equal(t, DefaultMaxSize, NewFactory(Options{}).MaxSize())
	assert.Len(t, f.SupportedTypes(), 6)
}
