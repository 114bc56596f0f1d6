package types

import (
	"fmt"

	"github.com/lk2023060901/ai-translator-backend/internal/translation/language"
)

// SystemPrompt 构建翻译系统提示词，要求模型保留原文格式
func SystemPrompt(source, target string) string {
	return fmt.Sprintf(
		"You are a professional translator. Translate the user's text from %s to %s. "+
			"Preserve the original formatting exactly: line breaks, blank lines, "+
			"markdown syntax, lists, code blocks and placeholders. "+
			"Respond with the translation only, without explanations or quotes.",
		language.Name(source), language.Name(target),
	)
}
