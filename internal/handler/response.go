package handler

import (
	"errors"
	"net/http"

	"github.com/blues/lfs/internal/model"
	"github.com/gin-gonic/gin"
)

// Response 统一响应结构
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// SuccessResponse 成功响应
func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse 错误响应，按错误分类映射HTTP状态码
func ErrorResponse(c *gin.Context, err error) {
	var derr *model.DomainError
	if !errors.As(err, &derr) {
		c.JSON(http.StatusInternalServerError, Response{Success: false, Message: err.Error()})
		return
	}

	status := http.StatusInternalServerError
	switch derr.Kind {
	case model.KindValidation:
		status = http.StatusBadRequest
	case model.KindAuthorization:
		status = http.StatusForbidden
	case model.KindState, model.KindAlreadyDone, model.KindCapacity:
		status = http.StatusConflict
	case model.KindExternal:
		status = http.StatusBadGateway
	case model.KindNotFound:
		status = http.StatusNotFound
	}

	c.JSON(status, Response{Success: false, Message: derr.Message})
}
