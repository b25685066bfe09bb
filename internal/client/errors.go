package client

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind 错误类别，调用方按类别决定提示文案
type Kind int

const (
	KindUnknown        Kind = iota
	KindTransport           // 连接失败、超时、熔断、5xx
	KindValidation          // 400：参数不合法、密码强度不足
	KindDuplicate           // 409：邮箱、用户名、分类重复
	KindAuthentication      // 401：未登录、Token失效、邮箱或密码错误
	KindForbidden           // 403：角色不足
	KindNotFound            // 404
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindValidation:
		return "validation"
	case KindDuplicate:
		return "duplicate"
	case KindAuthentication:
		return "authentication"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Error 接口调用失败
// Code/Message来自服务端的{type:"Error",code,message}，传输层错误时为空
type Error struct {
	Kind    Kind
	Status  int
	Code    int
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil && e.Message != "":
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	case e.Code != 0:
		return fmt.Sprintf("%s: [%d] %s", e.Kind, e.Code, e.Message)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf 返回错误类别，非*Error返回KindUnknown
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind 判断错误类别
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

func kindFromStatus(status int) Kind {
	switch {
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return KindValidation
	case status == http.StatusUnauthorized:
		return KindAuthentication
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusConflict:
		return KindDuplicate
	case status >= 500:
		return KindTransport
	default:
		return KindUnknown
	}
}
