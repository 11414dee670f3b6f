package response

import (
	"time"

	"localehub-go/internal/apperrors"
)

// Response 是一个通用的 API 响应结构
// Locale 回显本次请求解析出的语言，方便客户端调试
type Response[T any] struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Locale    string `json:"locale,omitempty"`
	Data      T      `json:"data,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// OK 构造一个成功的响应
func OK[T any](data T, message string) *Response[T] {
	return &Response[T]{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	}
}

// Localized 构造一个带 locale 回显的成功响应
func Localized[T any](data T, message, locale string) *Response[T] {
	resp := OK(data, message)
	resp.Locale = locale
	return resp
}

// Error 构造一个失败的响应
func Error(message string) *Response[any] {
	return &Response[any]{
		Success:   false,
		Message:   message,
		Data:      nil,
		Timestamp: time.Now().UnixMilli(),
	}
}

// ErrorFromAppError 基于 AppError 构造错误响应
func ErrorFromAppError(err *apperrors.AppError) *Response[any] {
	return Error(err.Message)
}
