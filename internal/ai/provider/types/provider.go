package types

import "context"

// TranslateRequest 翻译请求（语言代码已规范化）
type TranslateRequest struct {
	Text   string
	Source string
	Target string
	Model  string // 为空时使用 Provider 默认模型
}

// TranslateResponse 翻译结果
type TranslateResponse struct {
	TranslatedText   string
	Model            string
	PromptTokens     int
	CompletionTokens int
}

// Provider 翻译服务统一接口
type Provider interface {
	// Translate 翻译一段文本，远程失败时返回 *ProviderError
	Translate(ctx context.Context, req *TranslateRequest) (*TranslateResponse, error)

	// Name 返回 Provider 名称
	Name() string

	// Close 关闭 Provider，释放资源
	Close() error
}
