// Package response renders the uniform JSON envelope used by every data endpoint.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 统一响应结构
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Success 200 + 数据
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

// Fail 以指定状态码返回错误信息
func Fail(c *gin.Context, status int, msg string) {
	c.JSON(status, Response{Success: false, Error: msg})
}

// BadRequest 请求格式错误
func BadRequest(c *gin.Context, msg string) {
	Fail(c, http.StatusBadRequest, msg)
}

// InternalError 用例返回的任何错误都以 500 返回，只暴露错误信息
func InternalError(c *gin.Context, err error) {
	msg := "Unknown error occurred"
	if err != nil {
		msg = err.Error()
		_ = c.Error(err)
	}
	Fail(c, http.StatusInternalServerError, msg)
}
