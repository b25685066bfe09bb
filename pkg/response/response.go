package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/rebook/pkg/errors"
	"github.com/xiebiao/rebook/pkg/logger"
)

// 响应类型（写在type字段里，客户端据此判断成功或失败）
const (
	TypeSuccess = "Success"
	TypeError   = "Error"
)

// Response 统一响应结构（写操作使用）
// Code=0表示成功，其余为业务错误码
type Response struct {
	Type    string      `json:"type"`
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Type:    TypeSuccess,
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// List 集合响应：直接返回JSON数组
// 说明：轮询客户端每秒拉取一次列表，不包信封，空集合返回[]而不是null
func List[T any](c *gin.Context, items []T) {
	if items == nil {
		items = []T{}
	}
	c.JSON(http.StatusOK, items)
}

// Object 单个对象响应，不包信封
func Object(c *gin.Context, v interface{}) {
	c.JSON(http.StatusOK, v)
}

// Error 错误响应
// HTTP状态码由AppError的错误码推导，客户端既可以看状态码也可以看code
func Error(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)

	if appErr.Err != nil || appErr.HTTPStatus() >= http.StatusInternalServerError {
		logger.Get().Error().
			Err(err).
			Int("code", appErr.Code).
			Str("path", c.Request.URL.Path).
			Str("request_id", c.GetString("request_id")).
			Msg("request failed")
	}

	c.JSON(appErr.HTTPStatus(), Response{
		Type:    TypeError,
		Code:    appErr.Code,
		Message: appErr.Message,
	})
}

// ErrorWithCode 自定义错误码和消息
func ErrorWithCode(c *gin.Context, code int, message string) {
	Error(c, apperrors.New(code, message))
}

// Abort 错误响应并终止后续Handler（中间件使用）
func Abort(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}
