package biz

import (
	"errors"

	apperrors "github.com/lk2023060901/ai-translator-backend/internal/pkg/errors"
)

// ErrorCode 将分享错误映射为业务错误码
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrShareNotFound):
		return apperrors.ErrShareNotFound
	case errors.Is(err, ErrInvalidShare):
		return apperrors.ErrShareInvalidParams
	default:
		return apperrors.ErrShareStoreFailed
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
