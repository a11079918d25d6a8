// Package errors 提供统一的错误处理框架
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code 错误码
type Code string

const (
	CodeUnknown       Code = "UNKNOWN"
	CodeInternal      Code = "INTERNAL_ERROR"
	CodeInvalidInput  Code = "INVALID_INPUT"
	CodeNotFound      Code = "NOT_FOUND"
	CodeAlreadyExists Code = "ALREADY_EXISTS"
	CodeTimeout       Code = "TIMEOUT"
	CodeCancelled     Code = "CANCELLED"
	CodeRateLimited   Code = "RATE_LIMITED"

	// 排班相关
	CodeHardPattern      Code = "HARD_PATTERN"
	CodeScheduleConflict Code = "SCHEDULE_CONFLICT"

	// 数据相关
	CodeDatabaseError  Code = "DATABASE_ERROR"
	CodeValidationFail Code = "VALIDATION_FAILED"
)

// StatusClientClosed 客户端主动断开（nginx 约定的 499）
const StatusClientClosed = 499

// AppError 应用错误
type AppError struct {
	Code       Code                   `json:"code"`
	Message    string                 `json:"message"`
	Details    string                 `json:"details,omitempty"`
	HTTPStatus int                    `json:"-"`
	Cause      error                  `json:"-"`
	Fields     map[string]interface{} `json:"fields,omitempty"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetails 添加详细信息
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// WithField 添加字段
func (e *AppError) WithField(key string, value interface{}) *AppError {
	if e.Fields == nil {
		e.Fields = make(map[string]interface{})
	}
	e.Fields[key] = value
	return e
}

// New 创建新错误
func New(code Code, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: statusOf(code),
	}
}

// Wrap 包装错误
func Wrap(err error, code Code, message string) *AppError {
	e := New(code, message)
	e.Cause = err
	return e
}

func statusOf(code Code) int {
	switch code {
	case CodeInvalidInput, CodeValidationFail:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeAlreadyExists, CodeScheduleConflict:
		return http.StatusConflict
	case CodeHardPattern:
		return http.StatusUnprocessableEntity
	case CodeRateLimited:
		return http.StatusTooManyRequests
	case CodeTimeout:
		return http.StatusGatewayTimeout
	case CodeCancelled:
		return StatusClientClosed
	default:
		return http.StatusInternalServerError
	}
}

// As 取出错误链中的 AppError，没有时按内部错误包装
func As(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, CodeInternal, "服务器内部错误")
}

// GetCode 获取错误码，非 AppError 返回 UNKNOWN
func GetCode(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// InvalidInput 字段无效
func InvalidInput(field, reason string) *AppError {
	return New(CodeInvalidInput, fmt.Sprintf("字段 '%s' 无效: %s", field, reason)).
		WithField(field, reason)
}

// NotFound 资源不存在
func NotFound(resource, id string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s '%s' 不存在", resource, id))
}

// AlreadyExists 资源重复
func AlreadyExists(resource, id string) *AppError {
	return New(CodeAlreadyExists, resource+"已存在").WithDetails(id)
}

// ScheduleConflict 月份正在被其他请求排班
func ScheduleConflict(year, month int, details string) *AppError {
	return New(CodeScheduleConflict, fmt.Sprintf("%04d-%02d 排班冲突: %s", year, month, details))
}

// HardPattern 写入会构成禁止的班次衔接
func HardPattern(employeeID int64, date, pattern string) *AppError {
	return New(CodeHardPattern, fmt.Sprintf("员工 %d 在 %s 的班次构成禁止模式 %s", employeeID, date, pattern)).
		WithField("pattern", pattern)
}

// Timeout 操作超过期限
func Timeout(err error, op string) *AppError {
	return Wrap(err, CodeTimeout, op+"超时")
}

// Cancelled 调用方已取消
func Cancelled(err error, op string) *AppError {
	return Wrap(err, CodeCancelled, op+"已取消")
}

// RateLimited 请求过于频繁
func RateLimited() *AppError {
	return New(CodeRateLimited, "请求过于频繁，请稍后重试")
}

// Database 包装数据库错误
func Database(err error, op string) *AppError {
	return Wrap(err, CodeDatabaseError, op+"失败")
}

// ValidationErrors 验证错误集合
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// ValidationError 单个验证错误
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (ve *ValidationErrors) Error() string {
	if len(ve.Errors) == 0 {
		return "验证失败"
	}
	return fmt.Sprintf("验证失败: %s - %s", ve.Errors[0].Field, ve.Errors[0].Message)
}

// Add 添加验证错误
func (ve *ValidationErrors) Add(field, message string) {
	ve.Errors = append(ve.Errors, ValidationError{Field: field, Message: message})
}

// HasErrors 是否有错误
func (ve *ValidationErrors) HasErrors() bool {
	return len(ve.Errors) > 0
}

// ToAppError 转换为 VALIDATION_FAILED，Details 取第一条
func (ve *ValidationErrors) ToAppError() *AppError {
	err := New(CodeValidationFail, "验证失败")
	for _, e := range ve.Errors {
		err.WithField(e.Field, e.Message)
	}
	if len(ve.Errors) > 0 {
		err.Details = ve.Errors[0].Message
	}
	return err
}
