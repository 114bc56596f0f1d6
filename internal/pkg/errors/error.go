package errors

import (
	"errors"
	"fmt"
)

// AppError 带业务码的错误，最终由 response.HandleError 转为统一响应体
type AppError struct {
	Code    int    // 业务码，见 codes.go
	Message string // 业务码对应的提示
	Err     error  // 原始错误
	Details string // 补充说明（语言代码、文件大小等）
}

func (e *AppError) Error() string {
	switch {
	case e.Err != nil && e.Details != "":
		return fmt.Sprintf("[%d] %s (%s): %v", e.Code, e.Message, e.Details, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	case e.Details != "":
		return fmt.Sprintf("[%d] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus 业务码对应的 HTTP 状态码
func (e *AppError) HTTPStatus() int {
	return GetHTTPStatus(e.Code)
}

// New 按业务码创建错误
func New(code int, details ...string) *AppError {
	return &AppError{
		Code:    code,
		Message: GetMessage(code),
		Details: firstDetail(details),
	}
}

// Wrap 为 err 附加业务码；err 链上已有 AppError 时保留其业务码，
// 只在提供了 details 时返回替换说明后的副本
func Wrap(err error, code int, details ...string) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		detail := firstDetail(details)
		if detail == "" {
			return appErr
		}
		cp := *appErr
		cp.Details = detail
		return &cp
	}

	return &AppError{
		Code:    code,
		Message: GetMessage(code),
		Err:     err,
		Details: firstDetail(details),
	}
}

// Is 判断 err 链上是否存在指定业务码的 AppError
func Is(err error, code int) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// ExtractCode 提取业务码，非 AppError 视为内部错误
func ExtractCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrInternalServer
}

// GetDetails 提取补充说明，缺省时退回原始错误文本
func GetDetails(err error) string {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.Details != "" {
			return appErr.Details
		}
		if appErr.Err != nil {
			return appErr.Err.Error()
		}
		return ""
	}
	return err.Error()
}

// NewInvalidLanguageError 不支持的语言代码
func NewInvalidLanguageError(code string) *AppError {
	return New(ErrTranslateInvalidLanguage, fmt.Sprintf("unsupported language code %q", code))
}

// NewFileTooLargeError 上传文件超过 limit 字节
func NewFileTooLargeError(code int, size, limit int64) *AppError {
	return New(code, fmt.Sprintf("%d bytes exceeds limit of %d bytes", size, limit))
}

func firstDetail(details []string) string {
	if len(details) > 0 {
		return details[0]
	}
	return ""
}
