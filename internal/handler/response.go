package handler

import (
	"errors"
	"net/http"

	"github.com/foolmeonetime/beanpump-sub002/internal/logic"
	"github.com/gin-gonic/gin"
)

// Response 统一响应结构
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// SuccessResponse 成功响应
func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse 错误响应
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Message: message,
		Data:    nil,
	})
}

// ErrorResponseFromErr 按错误分类映射 HTTP 状态码
func ErrorResponseFromErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, logic.ErrInvalidParameters),
		errors.Is(err, logic.ErrInvalidClaim),
		errors.Is(err, logic.ErrContributionCeiling),
		errors.Is(err, logic.ErrTakeoverNotActive):
		ErrorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, logic.ErrTakeoverNotFound):
		ErrorResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, logic.ErrNotEligible):
		ErrorResponse(c, http.StatusConflict, err.Error())
	case errors.Is(err, logic.ErrExternalDependency):
		ErrorResponse(c, http.StatusBadGateway, err.Error())
	default:
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
	}
}
