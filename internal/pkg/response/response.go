package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/lk2023060901/ai-translator-backend/internal/pkg/errors"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`              // 业务错误码（0表示成功）
	Message string      `json:"message,omitempty"` // 提示信息
	Data    interface{} `json:"data"`              // 实际数据（可能为空对象 {}）
}

func emptyIfNil(data interface{}) interface{} {
	if data == nil {
		return struct{}{}
	}
	return data
}

// Success 成功响应（200）
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code: apperrors.Success,
		Data: emptyIfNil(data),
	})
}

// Created 创建资源成功（201）
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code: apperrors.Success,
		Data: emptyIfNil(data),
	})
}

// Error 错误响应
func Error(c *gin.Context, httpStatus int, message string) {
	c.JSON(httpStatus, Response{
		Code:    httpStatus,
		Message: message,
		Data:    struct{}{},
	})
}

// HandleError 统一错误处理（使用AppError）
func HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	code := apperrors.ExtractCode(err)
	c.JSON(apperrors.GetHTTPStatus(code), Response{
		Code:    code,
		Message: apperrors.FormatError(code, apperrors.GetDetails(err)),
		Data:    struct{}{},
	})
}

// ErrorWithCode 使用错误码的错误响应
func ErrorWithCode(c *gin.Context, code int, details ...string) {
	c.JSON(apperrors.GetHTTPStatus(code), Response{
		Code:    code,
		Message: apperrors.FormatError(code, details...),
		Data:    struct{}{},
	})
}
