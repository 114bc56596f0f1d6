package service

import "github.com/lk2023060901/ai-translator-backend/internal/translation/biz"

// HeaderSessionID 会话标识请求头；同一会话的新文档操作会取消旧操作
const HeaderSessionID = "X-Session-ID"

// TranslateTextRequest 文本翻译请求
type TranslateTextRequest struct {
	Text       string `json:"text"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
	Model      string `json:"model"`
}

// TranslateTextResponse 文本翻译响应
type TranslateTextResponse struct {
	TranslatedText string `json:"translated_text"`
	SourceLang     string `json:"source_lang"`
	TargetLang     string `json:"target_lang"`
	UsedFallback   bool   `json:"used_fallback"`
	Cached         bool   `json:"cached"`
}

// TranslateDocumentRequest 文档翻译请求（multipart 表单或 JSON）
type TranslateDocumentRequest struct {
	Text       string `form:"text" json:"text"`
	SourceLang string `form:"source_lang" json:"source_lang"`
	TargetLang string `form:"target_lang" json:"target_lang"`
	Model      string `form:"model" json:"model"`
	SessionID  string `form:"session_id" json:"session_id"`
}

// CancelOperationResponse 取消操作响应
type CancelOperationResponse struct {
	OperationID string `json:"operation_id"`
	Cancelled   bool   `json:"cancelled"`
}

// ListOperationsResponse 活跃操作列表
type ListOperationsResponse struct {
	Operations []biz.OperationInfo `json:"operations"`
	Total      int                 `json:"total"`
}
