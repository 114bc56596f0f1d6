package biz

import (
	"errors"

	apperrors "github.com/lk2023060901/ai-translator-backend/internal/pkg/errors"
	translationbiz "github.com/lk2023060901/ai-translator-backend/internal/translation/biz"
)

// ErrorCode 将媒体错误映射为业务错误码，其余交给翻译模块
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrUnavailable):
		return apperrors.ErrServiceUnavail
	case errors.Is(err, ErrEmptyFile):
		return apperrors.ErrInvalidParams
	case errors.Is(err, ErrFileTooLarge):
		return apperrors.ErrMediaFileTooLarge
	case errors.Is(err, ErrInvalidType):
		return apperrors.ErrMediaInvalidType
	case errors.Is(err, ErrTranscribeFailed):
		return apperrors.ErrMediaTranscribeFailed
	case errors.Is(err, ErrExtractFailed):
		return apperrors.ErrMediaExtractTextFailed
	default:
		return translationbiz.ErrorCode(err)
	}
}

// ToAppError 转换为带错误码的 AppError
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
