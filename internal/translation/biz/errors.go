package biz

import (
	"errors"

	apperrors "github.com/lk2023060901/ai-translator-backend/internal/pkg/errors"
	"github.com/lk2023060901/ai-translator-backend/internal/pkg/workerpool"
	"github.com/lk2023060901/ai-translator-backend/internal/translation/language"
	"github.com/lk2023060901/ai-translator-backend/internal/translation/loader"
)

// 翻译相关错误
var (
	ErrEmptyInput        = errors.New("text to translate is empty")
	ErrInvalidLanguage   = errors.New("invalid language code")
	ErrOperationNotFound = errors.New("operation not found")
	ErrOperationBusy     = errors.New("too many document operations in progress")
)

// ErrorCode 将 biz 层错误映射为业务错误码
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrEmptyInput), errors.Is(err, loader.ErrEmptyDocument):
		return apperrors.ErrTranslateEmptyInput
	case errors.Is(err, ErrInvalidLanguage), errors.Is(err, language.ErrUnsupported):
		return apperrors.ErrTranslateInvalidLanguage
	case errors.Is(err, loader.ErrFileTooLarge):
		return apperrors.ErrTranslateFileTooLarge
	case errors.Is(err, loader.ErrUnsupportedType):
		return apperrors.ErrTranslateUnsupportedType
	case errors.Is(err, loader.ErrExtractFailed):
		return apperrors.ErrTranslateExtractFailed
	case errors.Is(err, ErrOperationNotFound):
		return apperrors.ErrTranslateOperationNotFound
	case errors.Is(err, ErrOperationBusy), errors.Is(err, workerpool.ErrPoolOverload):
		return apperrors.ErrTooManyRequests
	case errors.Is(err, workerpool.ErrPoolClosed):
		return apperrors.ErrServiceUnavail
	default:
		return apperrors.ErrTranslateFailed
	}
}

// ToAppError 转换为带错误码的 AppError，已是 AppError 时原样返回
func ToAppError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperrors.Wrap(err, ErrorCode(err), err.Error())
}
