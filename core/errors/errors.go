package errors

import (
	"fmt"
)

// AppError 带业务错误码的错误，HTTP 层据此决定响应状态
type AppError struct {
	Code    ErrCode // 业务错误码，见 codes.go
	Message string  // 面向调用方的错误描述
}

func (e *AppError) Error() string {
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// New 构造业务错误
func New(code ErrCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Newf 构造业务错误，消息支持格式化
func Newf(code ErrCode, format string, args ...interface{}) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap 把底层错误包装成业务错误，原始错误文本拼接在消息后
func Wrap(code ErrCode, err error, message string) *AppError {
	if err == nil {
		return New(code, message)
	}
	return &AppError{Code: code, Message: fmt.Sprintf("%s: %v", message, err)}
}

// IsAppError 判断 err 是否为业务错误
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetAppError 提取业务错误，非业务错误返回 nil
func GetAppError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return nil
}
