package service

import (
	"errors"
	"strings"
)

// ErrorKind 错误分类，HTTP 层据此映射状态码
type ErrorKind int

const (
	KindInternal   ErrorKind = iota // 存储/连接等非预期错误
	KindInvalid                     // 分页参数、id 等客户端输入错误
	KindValidation                  // 字段格式校验失败，Details 列出全部问题
	KindConflict                    // email 重复
	KindNotFound                    // 删除目标不存在
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalid:
		return "invalid_input"
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// Error 服务层错误
type Error struct {
	Kind    ErrorKind
	Message string
	Details []string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if len(e.Details) > 0 {
		msg += ": " + strings.Join(e.Details, ", ")
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of a service error, KindInternal for anything else.
func KindOf(err error) ErrorKind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}

func invalidInput(msg string) *Error {
	return &Error{Kind: KindInvalid, Message: msg}
}

func internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}
